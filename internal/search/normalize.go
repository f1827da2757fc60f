// Package search is an in-memory free-text index over saints and feasts.
//
// Matching is a plain substring test on normalised text: Arabic queries and
// documents are stripped of harakat and have their alef, teh marbuta and alef
// maqsura variants folded; Latin-script text is decomposed, stripped of
// combining marks and lower-cased.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
)

var arabicMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x064B, Hi: 0x065E, Stride: 1},
	},
}

func foldArabic(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

// Transformers are stateful, so every call builds its own chain.
func arabicChain() transform.Transformer {
	return transform.Chain(runes.Remove(runes.In(arabicMarks)), runes.Map(foldArabic))
}

func latinChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize folds s for matching in lang. Arabic uses Arabic folding; every
// other language uses Latin folding.
func Normalize(lang, s string) string {
	if s == "" {
		return ""
	}

	t := latinChain()
	if lang == locale.Base {
		t = arabicChain()
	}

	out, _, err := transform.String(t, s)
	if err != nil {
		// Never for well-formed UTF-8; match on the raw text instead.
		out = s
	}
	return strings.ToLower(out)
}

// Package locale owns the closed set of display languages and the message
// catalogue used for generated text (month names, period labels, Paramon
// titles).
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Base is the locale every field falls back to when a translation is missing.
const Base = "ar"

// Supported display languages, base first.
var Supported = []language.Tag{
	language.Arabic,
	language.French,
	language.English,
}

// ErrUnsupported is returned when a requested language is outside the supported set.
var ErrUnsupported = errors.New("unsupported language")

// Parse canonicalizes a caller-supplied language tag ("fr", "fr-FR", "AR")
// to one of the supported base codes.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty tag", ErrUnsupported)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}

	base, _ := tag.Base()
	for _, t := range Supported {
		if sb, _ := t.Base(); sb == base {
			return base.String(), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// Codes returns the supported base codes in preference order.
func Codes() []string {
	codes := make([]string, 0, len(Supported))
	for _, t := range Supported {
		b, _ := t.Base()
		codes = append(codes, b.String())
	}
	return codes
}

// IsSupported reports whether code is one of the supported base codes.
func IsSupported(code string) bool {
	for _, c := range Codes() {
		if c == code {
			return true
		}
	}
	return false
}

// Resolve returns code when it is supported and Base otherwise. The core uses
// this so that unknown tags degrade per field instead of failing.
func Resolve(code string) string {
	if IsSupported(code) {
		return code
	}
	return Base
}

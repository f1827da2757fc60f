package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
)

// Resource types.
const (
	TypeAll   = "all"
	TypeSaint = "saint"
	TypeFeast = "feast"
)

// Paging bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// summaryPrefix is how many runes of a summary are indexed.
const summaryPrefix = 80

// ErrInvalidType is returned for a type filter other than all, saint or feast.
var ErrInvalidType = errors.New("invalid search type")

// Result is one matching saint or feast.
type Result struct {
	ResourceType string `json:"resource_type"`
	ID           string `json:"id,omitempty"`
	Code         string `json:"code,omitempty"`
	Title        string `json:"title"`
	Reliability  string `json:"reliability,omitempty"`
}

// Page is a window over all results.
type Page struct {
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Query describes a search request.
type Query struct {
	Text   string
	Lang   string
	Type   string
	Limit  int
	Offset int
}

type entry struct {
	base  Result
	title dataset.Text
	text  map[string]string // normalised, per locale
}

// Index is built once from a dataset and is safe for concurrent reads.
type Index struct {
	saints []entry
	feasts []entry
}

// NewIndex indexes every saint and every fixed and movable feast of ds.
func NewIndex(ds *dataset.Master) *Index {
	idx := &Index{}

	for _, s := range ds.Saints {
		reliability := s.Reliability
		if reliability == "" {
			reliability = dataset.DefaultReliability
		}
		idx.saints = append(idx.saints, newEntry(
			Result{ResourceType: TypeSaint, ID: s.ID, Reliability: reliability},
			s.Name,
			func(lang string) []string {
				return []string{s.Name.In(lang), prefix(s.Summary.In(lang))}
			},
		))
	}

	add := func(code string, title, summary dataset.Text) {
		idx.feasts = append(idx.feasts, newEntry(
			Result{ResourceType: TypeFeast, Code: code},
			title,
			func(lang string) []string {
				return []string{code, title.In(lang), prefix(summary.In(lang))}
			},
		))
	}
	for _, f := range ds.FixedFeasts {
		add(f.Code, f.Title, f.Summary)
	}
	for _, f := range ds.MovableFeasts {
		add(f.Code, f.Title, f.Summary)
	}

	return idx
}

func newEntry(base Result, title dataset.Text, fields func(lang string) []string) entry {
	e := entry{base: base, title: title, text: make(map[string]string)}
	for _, lang := range locale.Codes() {
		e.text[lang] = Normalize(lang, strings.Join(fields(lang), " "))
	}
	return e
}

func prefix(s string) string {
	r := []rune(s)
	if len(r) > summaryPrefix {
		return string(r[:summaryPrefix])
	}
	return s
}

// Search returns the page of q's matches, saints before feasts, each in
// dataset order. An empty query text matches everything.
func (idx *Index) Search(q Query) (Page, error) {
	if !locale.IsSupported(q.Lang) {
		return Page{}, fmt.Errorf("%w: %q", locale.ErrUnsupported, q.Lang)
	}

	typ := q.Type
	if typ == "" {
		typ = TypeAll
	}
	if typ != TypeAll && typ != TypeSaint && typ != TypeFeast {
		return Page{}, fmt.Errorf("%w: %q", ErrInvalidType, q.Type)
	}

	needle := Normalize(q.Lang, strings.TrimSpace(q.Text))

	var matches []Result
	collect := func(entries []entry) {
		for _, e := range entries {
			if strings.Contains(e.text[q.Lang], needle) {
				r := e.base
				r.Title = e.title.In(q.Lang)
				matches = append(matches, r)
			}
		}
	}
	if typ == TypeAll || typ == TypeSaint {
		collect(idx.saints)
	}
	if typ == TypeAll || typ == TypeFeast {
		collect(idx.feasts)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset := max(q.Offset, 0)

	page := Page{Total: len(matches), Results: []Result{}}
	if offset < len(matches) {
		page.Results = matches[offset:min(offset+limit, len(matches))]
	}
	return page, nil
}

package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog wraps a go-i18n bundle with one localizer per supported language.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	bundle     *i18n.Bundle
	localizers map[string]*i18n.Localizer
}

// NewCatalog loads the embedded message files for every supported language.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.Arabic)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	localizers := make(map[string]*i18n.Localizer)
	for _, code := range Codes() {
		path := fmt.Sprintf("locales/active.%s.json", code)
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		// Base is listed second so a message missing in code resolves from it.
		localizers[code] = i18n.NewLocalizer(bundle, code, Base)
	}

	return &Catalog{bundle: bundle, localizers: localizers}, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(fmt.Sprintf("locale: embedded catalogue is broken: %v", err))
	}
	return c
})

// Default returns the process-wide catalogue built from the embedded files.
func Default() *Catalog {
	return defaultCatalog()
}

// Lookup localizes id for lang, falling back to the base locale. The boolean
// is false when no language defines the message.
func (c *Catalog) Lookup(lang, id string, data map[string]any) (string, bool) {
	loc, ok := c.localizers[Resolve(lang)]
	if !ok {
		return "", false
	}

	msg, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return "", false
	}
	return msg, true
}

// Message is Lookup that returns the id itself when the message is unknown.
func (c *Catalog) Message(lang, id string) string {
	if msg, ok := c.Lookup(lang, id, nil); ok {
		return msg
	}
	return id
}

// MonthName returns the localized name of Coptic month 1-13.
func (c *Catalog) MonthName(lang string, month int) string {
	return c.Message(lang, fmt.Sprintf("month_%d", month))
}

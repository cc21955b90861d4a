package i18n

import (
	"embed"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.T port.
var _ output.T = (*Translator)(nil)

// Translator renders user-facing messages from the embedded go-i18n bundles.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator for the given default locale (e.g. "es").
// Only the bundled languages can serve as the default: anything else, parseable
// or not, is clamped to Spanish so lookups always land on real messages
// instead of degrading to raw keys.
func NewTranslator(defaultLocale string) *Translator {
	tag := defaultLanguageTag(defaultLocale)
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.es.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// defaultLanguageTag maps a locale string to one of the bundled languages.
// language.Parse accepts a lot of well-formed garbage ("not" is a valid
// ISO 639-3 subtag), so the base language is checked, not just the parse.
func defaultLanguageTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Spanish
	}
	base, _ := tag.Base()
	switch base.String() {
	case "es", "en":
		return tag
	default:
		return language.Spanish
	}
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("i18n: localize failed (key=%s, locales=%v): %v", key, languages, err)
		return key
	}
	return msg
}

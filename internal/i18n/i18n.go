package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var embeddedLocales embed.FS

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
	lang     string
	// messages records which message IDs each language defines, keyed by language tag.
	messages map[string]map[string]struct{}
}

// NewTranslations builds the bundle from the embedded catalogues plus any
// active.*.toml found in localesDir, which override embedded messages.
func NewTranslations(lang string, localesDir string) (*Translations, error) {
	if lang == "" {
		return nil, fmt.Errorf("language must not be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	t := &Translations{
		bundle:   bundle,
		messages: make(map[string]map[string]struct{}),
	}

	embedded, err := fs.Glob(embeddedLocales, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded locales: %w", err)
	}
	for _, file := range embedded {
		data, err := embeddedLocales.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading embedded locale %s: %w", file, err)
		}
		if err := t.parse(data, path.Base(file)); err != nil {
			return nil, err
		}
	}

	if localesDir != "" {
		files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("error reading locales: %w", err)
		}
		for _, file := range files {
			mf, err := bundle.LoadMessageFile(file)
			if err != nil {
				return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
			}
			t.record(mf)
		}
	}

	if err := t.SetLanguage(lang); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Translations) parse(data []byte, name string) error {
	mf, err := t.bundle.ParseMessageFileBytes(data, name)
	if err != nil {
		return fmt.Errorf("error loading locale file %s: %w", name, err)
	}
	t.record(mf)
	return nil
}

func (t *Translations) record(mf *i18n.MessageFile) {
	tag := mf.Tag.String()
	ids, ok := t.messages[tag]
	if !ok {
		ids = make(map[string]struct{})
		t.messages[tag] = ids
	}
	for _, m := range mf.Messages {
		ids[m.ID] = struct{}{}
	}
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			t.lang = lang
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

// Language is the active language tag.
func (t *Translations) Language() string {
	return t.lang
}

// Languages lists every language with at least one catalogue, sorted.
func (t *Translations) Languages() []string {
	langs := make([]string, 0, len(t.messages))
	for tag := range t.messages {
		langs = append(langs, tag)
	}
	sort.Strings(langs)
	return langs
}

// HasMessage reports whether lang defines messageID itself, without fallback.
func (t *Translations) HasMessage(lang, messageID string) bool {
	_, ok := t.messages[lang][messageID]
	return ok
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	cfg := &i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	}
	if count > 0 {
		cfg.PluralCount = count
	}

	localized, err := t.localize.Localize(cfg)
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

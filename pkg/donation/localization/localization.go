package localization

import (
	"embed"
	"encoding/json"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

var (
	defaultLocale = language.English

	//go:embed translations/*.json
	translationFiles embed.FS

	bundle *i18n.Bundle
)

func init() {
	var err error
	bundle, err = loadBundle()
	if err != nil {
		panic(err)
	}
}

func loadBundle() (*i18n.Bundle, error) {
	b := i18n.NewBundle(defaultLocale)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := translationFiles.ReadDir("translations")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		filePath := path.Join("translations", entry.Name())
		buf, err := translationFiles.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		if _, err := b.ParseMessageFileBytes(buf, filePath); err != nil {
			return nil, errors.Wrapf(err, "error parsing %s", filePath)
		}
	}

	return b, nil
}

// SupportedLocales returns the locales with translations available
func SupportedLocales() []language.Tag {
	return bundle.LanguageTags()
}

// LocaleFromAcceptLanguage picks the best supported locale for an
// Accept-Language header value, falling back to the default locale
func LocaleFromAcceptLanguage(header string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return defaultLocale
	}

	matcher := language.NewMatcher(SupportedLocales())
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return defaultLocale
	}
	return SupportedLocales()[index]
}

// LocalizeKey translates a key into the locale, falling back to the default
// locale when no translation exists
func LocalizeKey(locale language.Tag, key string) (string, error) {
	return LocalizeKeyWithData(locale, key, nil)
}

// LocalizeKeyWithData translates a templated key into the locale
func LocalizeKeyWithData(locale language.Tag, key string, data map[string]interface{}) (string, error) {
	langs := []string{locale.String()}
	if !isDefaultLocale(locale) {
		langs = append(langs, defaultLocale.String())
	}
	localizer := i18n.NewLocalizer(bundle, langs...)

	localized, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return "", errors.Wrapf(err, "error localizing %s", key)
	}
	return localized, nil
}

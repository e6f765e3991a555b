// Package i18n loads the namespace-per-page message catalogs and resolves the
// request locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other catalog falls back to.
const BaseLocale = "en"

// Locales lists the served locales; the first is the default and is served without a
// path prefix.
var Locales = []string{"en", "de", "fr", "it", "rm", "es", "pt", "ja"}

//go:embed locales/*/*.yaml
var embedded embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds every locale's messages grouped by namespace.
type Bundle struct {
	locales map[string]map[string]map[string]string // locale -> namespace -> key -> text
	matcher language.Matcher
	tags    []language.Tag
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}

	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s has no catalogs", BaseLocale)
	}

	for _, l := range Locales {
		if _, ok := b.locales[l]; !ok {
			continue
		}
		b.tags = append(b.tags, language.MustParse(l))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	if file.Locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, file.Locale, dirLocale)
	}
	if file.Namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, file.Namespace, fileNamespace)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: no messages", p)
	}

	nss, ok := b.locales[file.Locale]
	if !ok {
		nss = map[string]map[string]string{}
		b.locales[file.Locale] = nss
	}
	if _, dup := nss[file.Namespace]; dup {
		return fmt.Errorf("catalog %s: namespace %q defined twice", p, file.Namespace)
	}

	msgs := make(map[string]string, len(file.Messages))
	for k, v := range file.Messages {
		k = strings.TrimSpace(k)
		if k == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		if !strings.HasPrefix(k, file.Namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, k, file.Namespace+".")
		}
		msgs[k] = v
	}
	nss[file.Namespace] = msgs
	return nil
}

// Register makes every message available to x/text/message printers.
func (b *Bundle) Register() error {
	for locale, nss := range b.locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		for _, msgs := range nss {
			for k, v := range msgs {
				if err := message.SetString(tag, k, v); err != nil {
					return fmt.Errorf("register %s/%s: %w", locale, k, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale has any catalog.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// T returns the message for key in locale, falling back to the base locale and then
// to the key itself.
func (b *Bundle) T(locale, key string) string {
	if v, ok := b.lookup(locale, key); ok {
		return v
	}
	if v, ok := b.lookup(BaseLocale, key); ok {
		return v
	}
	return key
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	ns, _, ok := strings.Cut(key, ".")
	if !ok {
		return "", false
	}
	v, ok := b.locales[locale][ns][key]
	return v, ok
}

// Namespace returns the messages of one namespace for locale, with base-locale
// entries filling any gaps.
func (b *Bundle) Namespace(locale, namespace string) map[string]string {
	out := make(map[string]string)
	for k, v := range b.locales[BaseLocale][namespace] {
		out[k] = v
	}
	for k, v := range b.locales[locale][namespace] {
		out[k] = v
	}
	return out
}

// Missing lists base-locale keys that locale does not translate.
func (b *Bundle) Missing(locale string) []string {
	var out []string
	for ns, msgs := range b.locales[BaseLocale] {
		for k := range msgs {
			if _, ok := b.locales[locale][ns][k]; !ok {
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Match picks the best served locale for the given tags.
func (b *Bundle) Match(tags ...language.Tag) string {
	if len(tags) == 0 {
		return BaseLocale
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return BaseLocale
	}
	return b.tags[idx].String()
}

// MatchAcceptLanguage parses an Accept-Language header and picks a locale.
func (b *Bundle) MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return BaseLocale
	}
	return b.Match(tags...)
}

// Tag returns the language tag for a served locale.
func Tag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Supported reports whether locale is one of the served locales.
func Supported(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

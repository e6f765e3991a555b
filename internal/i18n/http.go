package i18n

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "folio_lang"
)

type ctxKey struct{}

// WithLocale stores locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// FromContext returns the request locale, or BaseLocale when none was resolved.
func FromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && l != "" {
		return l
	}
	return BaseLocale
}

// SplitPath strips a leading locale segment: "/de/cv" yields ("de", "/cv").
// Paths without a served locale prefix come back unchanged with an empty locale.
func SplitPath(p string) (string, string) {
	trimmed := strings.TrimPrefix(p, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	if !Supported(seg) {
		return "", p
	}
	return seg, "/" + rest
}

// Path prefixes p with locale unless locale is the base locale.
func Path(locale, p string) string {
	if p == "" {
		p = "/"
	}
	if locale == "" || locale == BaseLocale {
		return p
	}
	if p == "/" {
		return "/" + locale + "/"
	}
	return "/" + locale + p
}

// Resolve picks the request locale from the lang query parameter, the language cookie
// or the Accept-Language header, in that order. The bool reports whether the choice
// came from the query and should be persisted.
func (b *Bundle) Resolve(r *http.Request) (string, bool) {
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" && b.HasLocale(v) {
		return v, true
	}
	if c, err := r.Cookie(LangCookieName); err == nil && b.HasLocale(c.Value) {
		return c.Value, false
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		return b.MatchAcceptLanguage(accept), false
	}
	return BaseLocale, false
}

// SetLanguageCookie persists locale on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware strips a locale path prefix, resolves the request locale and stores it
// on the request context. A prefix always wins and is remembered in the cookie.
func (b *Bundle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale, rest := SplitPath(r.URL.Path)
		persist := locale != ""
		if locale == "" || !b.HasLocale(locale) {
			locale, persist = b.Resolve(r)
		} else {
			r2 := r.Clone(r.Context())
			r2.URL.Path = rest
			r2.URL.RawPath = ""
			r = r2
		}
		if persist {
			SetLanguageCookie(w, locale)
		}
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Locale string
	Label  string
	URL    string
	Active bool
}

var localeLabels = map[string]string{
	"en": "English",
	"de": "Deutsch",
	"fr": "Français",
	"it": "Italiano",
	"rm": "Rumantsch",
	"es": "Español",
	"pt": "Português",
	"ja": "日本語",
}

// Options lists the served locales with links to path in each of them.
func (b *Bundle) Options(active, path string) []LanguageOption {
	out := make([]LanguageOption, 0, len(Locales))
	for _, l := range Locales {
		if !b.HasLocale(l) {
			continue
		}
		out = append(out, LanguageOption{
			Locale: l,
			Label:  localeLabels[l],
			URL:    Path(l, path),
			Active: l == active,
		})
	}
	return out
}

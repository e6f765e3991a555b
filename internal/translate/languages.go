package translate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnsupportedLanguage is returned for codes outside the closed language set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// DefaultLanguage is the source language of all site copy.
const DefaultLanguage = "en"

// Language is a static descriptive record for one supported language.
type Language struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Native   string   `json:"native"`
	Flag     string   `json:"flag"`
	Region   string   `json:"region"`
	Services []string `json:"services"`
}

// Languages lists the supported languages in display order.
var Languages = []Language{
	{Code: "en", Name: "English", Native: "English", Flag: "🇬🇧", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "de", Name: "German", Native: "Deutsch", Flag: "🇨🇭", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "fr", Name: "French", Native: "Français", Flag: "🇫🇷", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "it", Name: "Italian", Native: "Italiano", Flag: "🇮🇹", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "rm", Name: "Romansh", Native: "Rumantsch", Flag: "🇨🇭", Region: "Europe", Services: []string{MyMemory, LibreTranslate, Gemini}},
	{Code: "es", Name: "Spanish", Native: "Español", Flag: "🇪🇸", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "pt", Name: "Portuguese", Native: "Português", Flag: "🇵🇹", Region: "Europe", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
	{Code: "ja", Name: "Japanese", Native: "日本語", Flag: "🇯🇵", Region: "Asia", Services: []string{Google, MyMemory, LibreTranslate, Argos, Gemini}},
}

// Lookup returns the record for code.
func Lookup(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Supported reports whether code is in the closed language set.
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// PackState describes a language pack on the settings screen.
type PackState string

const (
	PackAvailable   PackState = "available"
	PackDownloading PackState = "downloading"
	PackInstalled   PackState = "installed"
)

// LanguageStatus pairs a language with its selection and pack state.
type LanguageStatus struct {
	Language
	Selected bool      `json:"selected"`
	Pack     PackState `json:"pack"`
}

// Registry tracks the selected language and which language packs are installed.
type Registry struct {
	mu       sync.Mutex
	selected string
	packs    map[string]PackState
	delay    time.Duration
}

// NewRegistry returns a registry with the default language selected and its pack
// installed. delay is the simulated pack download time.
func NewRegistry(delay time.Duration) *Registry {
	packs := make(map[string]PackState, len(Languages))
	for _, l := range Languages {
		packs[l.Code] = PackAvailable
	}
	packs[DefaultLanguage] = PackInstalled
	return &Registry{
		selected: DefaultLanguage,
		packs:    packs,
		delay:    delay,
	}
}

// Selected returns the currently selected language.
func (r *Registry) Selected() Language {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, _ := Lookup(r.selected)
	return l
}

// Select moves the selection pointer to code.
func (r *Registry) Select(code string) error {
	if !Supported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	r.mu.Lock()
	r.selected = code
	r.mu.Unlock()
	return nil
}

// Pack returns the pack state for code.
func (r *Registry) Pack(code string) PackState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.packs[code]
}

// Download simulates fetching a language pack. It blocks for the configured delay
// unless ctx ends first, in which case the pack returns to available. A download
// already in flight for code is left alone and Download returns at once.
func (r *Registry) Download(ctx context.Context, code string) error {
	if !Supported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	r.mu.Lock()
	if st := r.packs[code]; st == PackInstalled || st == PackDownloading {
		r.mu.Unlock()
		return nil
	}
	r.packs[code] = PackDownloading
	r.mu.Unlock()

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.mu.Lock()
		r.packs[code] = PackAvailable
		r.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
	}

	r.mu.Lock()
	r.packs[code] = PackInstalled
	r.mu.Unlock()
	return nil
}

// List returns every language with its current status, in display order.
func (r *Registry) List() []LanguageStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]LanguageStatus, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, LanguageStatus{
			Language: l,
			Selected: l.Code == r.selected,
			Pack:     r.packs[l.Code],
		})
	}
	return out
}

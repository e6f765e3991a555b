// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the folio binary reads at startup.
type Config struct {
	Port     string        `env:"PORT" envDefault:"8080"`
	LogLevel string        `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	LogDev   bool          `env:"FOLIO_LOG_DEV"`
	BaseURL  string        `env:"FOLIO_BASE_URL" envDefault:"http://localhost:8080"`
	DevMode  bool          `env:"FOLIO_DEV"`
	Shutdown time.Duration `env:"FOLIO_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Translate Translate
	Reserve   Reserve
	Gemini    Gemini
	Contact   Contact
}

// Translate configures the provider chain.
type Translate struct {
	// Providers is the priority order. Unknown names are ignored.
	Providers      []string      `env:"FOLIO_TRANSLATE_PROVIDERS" envSeparator:"," envDefault:"google,mymemory,libretranslate,argos,gemini"`
	Timeout        time.Duration `env:"FOLIO_TRANSLATE_TIMEOUT" envDefault:"10s"`
	// ResolveTimeout bounds one walk of the whole chain, shared by concurrent callers.
	ResolveTimeout time.Duration `env:"FOLIO_TRANSLATE_RESOLVE_TIMEOUT" envDefault:"30s"`
	GoogleURL      string        `env:"FOLIO_GOOGLE_URL" envDefault:"https://translate.googleapis.com/translate_a/single"`
	MyMemoryURL    string        `env:"FOLIO_MYMEMORY_URL" envDefault:"https://api.mymemory.translated.net/get"`
	LibreURL       string        `env:"FOLIO_LIBRETRANSLATE_URL" envDefault:"https://libretranslate.com/translate"`
	ArgosURL       string        `env:"FOLIO_ARGOS_URL" envDefault:"https://translate.argosopentech.com/translate"`
	PackDelay      time.Duration `env:"FOLIO_PACK_DOWNLOAD_DELAY" envDefault:"1500ms"`
	RequestsPerMin int           `env:"FOLIO_TRANSLATE_RATE" envDefault:"30"`
}

// Reserve configures the square-meter prototype grid.
type Reserve struct {
	Rows      int    `env:"FOLIO_RESERVE_ROWS" envDefault:"8"`
	Cols      int    `env:"FOLIO_RESERVE_COLS" envDefault:"8"`
	CellArea  int    `env:"FOLIO_RESERVE_CELL_AREA" envDefault:"10"`
	UnitPrice int64  `env:"FOLIO_RESERVE_UNIT_PRICE" envDefault:"1"`
	Currency  string `env:"FOLIO_RESERVE_CURRENCY" envDefault:"USD"`
}

// Gemini enables the optional LLM provider. Either an API key or a GCP project is needed.
type Gemini struct {
	APIKey    string `env:"GEMINI_API_KEY"`
	ProjectID string `env:"GCP_PROJECT_ID"`
	Region    string `env:"GCP_REGION"`
	Model     string `env:"FOLIO_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Enabled reports whether enough credentials are present to build a client.
func (g Gemini) Enabled() bool {
	return g.APIKey != "" || g.ProjectID != ""
}

// Contact configures the email relay used by the contact form.
type Contact struct {
	Endpoint   string `env:"FOLIO_EMAIL_ENDPOINT" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string `env:"FOLIO_EMAIL_SERVICE_ID"`
	TemplateID string `env:"FOLIO_EMAIL_TEMPLATE_ID"`
	PublicKey  string `env:"FOLIO_EMAIL_PUBLIC_KEY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns a Config populated from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Reserve.Rows <= 0 || c.Reserve.Cols <= 0 {
		return fmt.Errorf("reserve grid must be at least 1x1, got %dx%d", c.Reserve.Rows, c.Reserve.Cols)
	}
	if c.Reserve.CellArea <= 0 {
		return fmt.Errorf("reserve cell area must be positive, got %d", c.Reserve.CellArea)
	}
	if c.Reserve.UnitPrice < 0 {
		return fmt.Errorf("reserve unit price cannot be negative, got %d", c.Reserve.UnitPrice)
	}
	return nil
}

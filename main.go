package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bodul/folio/internal/config"
	"github.com/bodul/folio/internal/contact"
	"github.com/bodul/folio/internal/content"
	"github.com/bodul/folio/internal/httpclient"
	"github.com/bodul/folio/internal/i18n"
	"github.com/bodul/folio/internal/logging"
	"github.com/bodul/folio/internal/reserve"
	"github.com/bodul/folio/internal/translate"
	"github.com/bodul/folio/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration and logger shared by every command.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio site with a translation helper and the reserve prototype",
		Long: `folio serves the portfolio site. Without a subcommand it behaves like "folio serve".

Configuration comes from the environment (PORT, FOLIO_*, GCP_PROJECT_ID, GEMINI_API_KEY).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogDev || cfg.DevMode)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override FOLIO_LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(a.serveCmd(), a.translateCmd(), a.languagesCmd(), a.reserveCmd())
	return root
}

func (a *app) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func (a *app) translateCmd() *cobra.Command {
	var from, to string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "translate TEXT",
		Short: "Translate text through the provider chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !translate.Supported(from) {
				return fmt.Errorf("%w: %q", translate.ErrUnsupportedLanguage, from)
			}
			if !translate.Supported(to) {
				return fmt.Errorf("%w: %q", translate.ErrUnsupportedLanguage, to)
			}
			resolver, err := a.newResolver(cmd.Context())
			if err != nil {
				return err
			}

			res := resolver.Translate(cmd.Context(), strings.Join(args, " "), from, to)
			a.logger.Debug("translated", zap.String("service", res.Service), zap.Bool("cached", res.Cached))
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", translate.DefaultLanguage, "source language code")
	cmd.Flags().StringVar(&to, "to", "", "target language code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *app) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages and the services that cover them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("CODE", "LANGUAGE", "NATIVE", "REGION", "SERVICES")
			for _, l := range translate.Languages {
				t.Row(l.Code, l.Name, l.Native, l.Region, strings.Join(l.Services, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func (a *app) reserveCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Run the protect-a-square-meter prototype in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !i18n.Supported(lang) {
				return fmt.Errorf("unsupported language %q", lang)
			}
			bundle, err := a.loadBundle()
			if err != nil {
				return err
			}
			m := tui.New(reserve.New(a.grid()), a.cfg.Reserve.Currency, lang, bundle.Namespace(lang, "reserve"))
			return tui.Run(cmd.Context(), m)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", i18n.BaseLocale, "interface language ("+strings.Join(i18n.Locales, ", ")+")")
	return cmd
}

// loadBundle loads the embedded catalogs and registers them with the message
// printers. Untranslated keys are logged at debug level.
func (a *app) loadBundle() (*i18n.Bundle, error) {
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if err := bundle.Register(); err != nil {
		return nil, err
	}
	for _, l := range i18n.Locales {
		if missing := bundle.Missing(l); len(missing) > 0 {
			a.logger.Debug("catalog falls back to base locale",
				zap.String("locale", l),
				zap.Int("missing", len(missing)),
				zap.Strings("keys", missing),
			)
		}
	}
	return bundle, nil
}

func (a *app) grid() reserve.Grid {
	return reserve.Grid{
		Rows:      a.cfg.Reserve.Rows,
		Cols:      a.cfg.Reserve.Cols,
		CellArea:  a.cfg.Reserve.CellArea,
		UnitPrice: a.cfg.Reserve.UnitPrice,
	}
}

// newResolver builds the provider chain. The Gemini provider is added only when
// credentials are configured.
func (a *app) newResolver(ctx context.Context) (*translate.Resolver, error) {
	tc := a.cfg.Translate
	client := httpclient.New(tc.Timeout)

	var llm translate.Provider
	if a.cfg.Gemini.Enabled() {
		g, err := translate.NewGeminiProvider(ctx, translate.GeminiConfig{
			APIKey:    a.cfg.Gemini.APIKey,
			ProjectID: a.cfg.Gemini.ProjectID,
			Region:    a.cfg.Gemini.Region,
			Model:     a.cfg.Gemini.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		llm = g
		a.logger.Info("gemini provider enabled", zap.String("model", a.cfg.Gemini.Model))
	}

	chain := translate.NewChain(tc.Providers, client, translate.Endpoints{
		Google:   tc.GoogleURL,
		MyMemory: tc.MyMemoryURL,
		Libre:    tc.LibreURL,
		Argos:    tc.ArgosURL,
	}, llm, a.logger)
	return translate.NewResolver(chain,
		translate.WithLogger(a.logger),
		translate.WithTimeout(tc.ResolveTimeout),
	), nil
}

func (a *app) serve(ctx context.Context) error {
	resolver, err := a.newResolver(ctx)
	if err != nil {
		return err
	}
	bundle, err := a.loadBundle()
	if err != nil {
		return err
	}
	site, err := content.Load()
	if err != nil {
		return err
	}

	cc := a.cfg.Contact
	mailer := contact.NewMailer(httpclient.New(a.cfg.Translate.Timeout), contact.Config{
		Endpoint:   cc.Endpoint,
		ServiceID:  cc.ServiceID,
		TemplateID: cc.TemplateID,
		PublicKey:  cc.PublicKey,
	})
	if !mailer.Enabled() {
		a.logger.Warn("contact relay not configured, contact form disabled")
	}

	srv, err := NewServer(Deps{
		Logger:         a.logger,
		Store:          NewStore(a.grid(), a.cfg.Translate.PackDelay),
		Resolver:       resolver,
		Mailer:         mailer,
		Bundle:         bundle,
		Site:           site,
		Currency:       a.cfg.Reserve.Currency,
		RequestsPerMin: a.cfg.Translate.RequestsPerMin,
	})
	if err != nil {
		return err
	}

	// Request contexts derive from ctx so open event streams end on shutdown.
	httpSrv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	a.logger.Info("server started",
		zap.String("addr", httpSrv.Addr),
		zap.String("url", a.cfg.BaseURL),
		zap.Strings("providers", resolver.Providers()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/bodul/folio/internal/contact"
	"github.com/bodul/folio/internal/content"
	"github.com/bodul/folio/internal/i18n"
	"github.com/bodul/folio/internal/logging"
	"github.com/bodul/folio/internal/reserve"
	"github.com/bodul/folio/internal/translate"
)

//go:embed web
var webFS embed.FS

const (
	maxTextLength  = 5000
	maxBodyBytes   = 64 << 10
	requestTimeout = 30 * time.Second

	sessionCookie = "folio_session"
	themeCookie   = "folio_theme"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Logger   *zap.Logger
	Store    *Store
	Resolver *translate.Resolver
	Mailer   *contact.Mailer
	Bundle   *i18n.Bundle
	Site     *content.Site
	Currency string

	// RequestsPerMin caps translate and contact requests per client IP.
	RequestsPerMin int
}

// Server is the main HTTP server.
type Server struct {
	handler  http.Handler
	logger   *zap.Logger
	store    *Store
	sse      *Broadcaster
	resolver *translate.Resolver
	mailer   *contact.Mailer
	bundle   *i18n.Bundle
	site     *content.Site
	pages    map[string]*template.Template
	currency string

	translateRL *rateLimiter
	contactRL   *rateLimiter
}

// NewServer creates a configured HTTP server.
func NewServer(d Deps) (*Server, error) {
	if d.Store == nil || d.Resolver == nil || d.Bundle == nil || d.Site == nil {
		return nil, errors.New("server: store, resolver, bundle and site are required")
	}
	rpm := d.RequestsPerMin
	if rpm <= 0 {
		rpm = 30
	}

	s := &Server{
		logger:      logging.OrNop(d.Logger),
		store:       d.Store,
		sse:         NewBroadcaster(),
		resolver:    d.Resolver,
		mailer:      d.Mailer,
		bundle:      d.Bundle,
		site:        d.Site,
		currency:    d.Currency,
		translateRL: newRateLimiter(rpm, time.Minute),
		contactRL:   newRateLimiter(5, time.Minute),
	}

	pages, err := parsePages(s.funcs())
	if err != nil {
		return nil, err
	}
	s.pages = pages
	s.handler = otelhttp.NewHandler(s.routes(), "folio")
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(s.bundle.Middleware)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealthz)

	staticDir, _ := fs.Sub(webFS, "web/static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticDir))))

	r.Route("/api", func(r chi.Router) {
		// Event streams outlive the request timeout.
		r.Get("/reserve/{id}/events", s.handleReserveEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Post("/translate", s.handleTranslate)
			r.Get("/translate/stats", s.handleTranslateStats)

			r.Get("/languages", s.handleListLanguages)
			r.Post("/languages/{code}/select", s.handleSelectLanguage)
			r.Post("/languages/{code}/download", s.handleDownloadLanguage)

			r.Post("/reserve", s.handleCreateReserve)
			r.Get("/reserve/{id}", s.handleGetReserve)
			r.Post("/reserve/{id}/{action}", s.handleReserveAction)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/", s.handleHome)
		r.Get("/projects/{slug}", s.handleProject)
		r.Get("/cv", s.handleCV)
		r.Get("/reserve", s.handleReservePage)
		r.Post("/reserve", s.handleReserveForm)
		r.Get("/settings", s.handleSettings)
		r.Post("/settings/languages", s.handleSettingsLanguage)
		r.Post("/contact", s.handleContact)
		r.Post("/preferences/theme", s.handleTheme)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'; frame-src https://www.youtube-nocookie.com")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// --- API: translation ---

type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

// POST /api/translate
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if !s.translateRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	var req translateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if msg := validateTranslate(req); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	res := s.resolver.Translate(r.Context(), req.Text, req.From, req.To)
	writeJSON(w, http.StatusOK, res)
}

func validateTranslate(req translateRequest) string {
	switch {
	case !translate.Supported(req.From):
		return fmt.Sprintf("unsupported source language %q", req.From)
	case !translate.Supported(req.To):
		return fmt.Sprintf("unsupported target language %q", req.To)
	case utf8.RuneCountInString(req.Text) > maxTextLength:
		return fmt.Sprintf("text longer than %d characters", maxTextLength)
	}
	return ""
}

// GET /api/translate/stats
func (s *Server) handleTranslateStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers":     s.resolver.Providers(),
		"stats":         s.resolver.Stats(),
		"cache_entries": s.resolver.CacheLen(),
	})
}

// --- API: languages ---

func languagesPayload(prefs *translate.Registry) map[string]any {
	return map[string]any{
		"selected":  prefs.Selected().Code,
		"languages": prefs.List(),
	}
}

// GET /api/languages
func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	prefs := s.visitor(w, r).Prefs()
	writeJSON(w, http.StatusOK, languagesPayload(prefs))
}

// POST /api/languages/{code}/select
func (s *Server) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	prefs := s.visitor(w, r).Prefs()
	if err := prefs.Select(chi.URLParam(r, "code")); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, languagesPayload(prefs))
}

// POST /api/languages/{code}/download blocks until the pack is installed.
func (s *Server) handleDownloadLanguage(w http.ResponseWriter, r *http.Request) {
	prefs := s.visitor(w, r).Prefs()
	err := prefs.Download(r.Context(), chi.URLParam(r, "code"))
	switch {
	case errors.Is(err, translate.ErrUnsupportedLanguage):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, "download interrupted", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, languagesPayload(prefs))
}

// --- API: reserve ---

type reserveResponse struct {
	ID    string        `json:"id"`
	State reserve.State `json:"state"`
	Share string        `json:"share"`
}

func (s *Server) reservePayload(id string, st reserve.State, locale string) reserveResponse {
	return reserveResponse{
		ID:    id,
		State: st,
		Share: reserve.ShareText(i18n.Tag(locale), st.Area, st.Cost, s.currency),
	}
}

// POST /api/reserve
func (s *Server) handleCreateReserve(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()
	writeJSON(w, http.StatusCreated, s.reservePayload(sess.ID, sess.State(), i18n.FromContext(r.Context())))
}

// GET /api/reserve/{id}
func (s *Server) handleGetReserve(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.reservePayload(sess.ID, sess.State(), i18n.FromContext(r.Context())))
}

// POST /api/reserve/{id}/{action}; toggle takes {"row":R,"col":C}.
func (s *Server) handleReserveAction(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	action := reserve.Action(chi.URLParam(r, "action"))
	var cell reserve.Cell
	if action == reserve.ActToggle {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&cell); err != nil {
			jsonError(w, "toggle requires {\"row\",\"col\"}", http.StatusBadRequest)
			return
		}
	}

	st, err := sess.Apply(action, cell)
	if err != nil {
		jsonError(w, err.Error(), reserveStatus(err))
		return
	}
	s.sse.Broadcast(sess.ID, st)
	writeJSON(w, http.StatusOK, s.reservePayload(sess.ID, st, i18n.FromContext(r.Context())))
}

// GET /api/reserve/{id}/events
func (s *Server) handleReserveEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Get(chi.URLParam(r, "id"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.sse.ServeSSE(w, r, sess.ID, sess.State())
}

func reserveStatus(err error) int {
	switch {
	case errors.Is(err, reserve.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, reserve.ErrEmptySelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reserve.ErrOutOfBounds), errors.Is(err, reserve.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// --- Pages ---

type pageData struct {
	Locale    string
	Path      string
	Title     string
	Dark      bool
	Languages []i18n.LanguageOption
	Site      *content.Site
	Project   *content.Project
	Contact   contactForm
	Reserve   *reserveView
	Settings  *settingsView
}

type contactForm struct {
	Sent    bool
	Error   string
	Name    string
	Email   string
	Message string
	Consent bool
}

type cellView struct {
	Key      string
	Selected bool
}

type reserveView struct {
	Session string
	State   reserve.State
	Rows    [][]cellView
	Cost    string
	Share   string
	Error   string
}

type settingsView struct {
	Languages []translate.LanguageStatus
	Text      string
	From      string
	To        string
	Result    *translate.Result
	Error     string
}

func (s *Server) newPage(r *http.Request, titleKey string) *pageData {
	locale := i18n.FromContext(r.Context())
	dark := false
	if c, err := r.Cookie(themeCookie); err == nil {
		dark = c.Value == "dark"
	}
	return &pageData{
		Locale:    locale,
		Path:      r.URL.Path,
		Title:     s.bundle.T(locale, titleKey),
		Dark:      dark,
		Languages: s.bundle.Options(locale, r.URL.Path),
		Site:      s.site,
	}
}

func (s *Server) render(w http.ResponseWriter, page string, status int, data *pageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown page template", zap.String("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	s.render(w, "notfound", http.StatusNotFound, s.newPage(r, "common.not_found.title"))
}

// GET /healthz
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.newPage(r, "common.nav.home")
	data.Contact.Sent = r.URL.Query().Get("contact") == "sent"
	s.render(w, "home", http.StatusOK, data)
}

// GET /projects/{slug}
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.site.Project(chi.URLParam(r, "slug"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	data := s.newPage(r, "projects.title")
	data.Title = p.Name
	data.Project = &p
	s.render(w, "project", http.StatusOK, data)
}

// GET /cv
func (s *Server) handleCV(w http.ResponseWriter, r *http.Request) {
	s.render(w, "cv", http.StatusOK, s.newPage(r, "cv.title"))
}

// --- Visitor session ---

// visitor returns the caller's session, starting one and setting its cookie when the
// request carries none or an expired one.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess := s.store.Get(c.Value); sess != nil {
			return sess
		}
	}
	sess := s.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Server) buildReserveView(id, locale string, st reserve.State) *reserveView {
	selected := make(map[string]bool, len(st.Selected))
	for _, c := range st.Selected {
		selected[c.Key()] = true
	}
	rows := make([][]cellView, st.Grid.Rows)
	for r := range rows {
		rows[r] = make([]cellView, st.Grid.Cols)
		for c := range rows[r] {
			key := reserve.Cell{Row: r, Col: c}.Key()
			rows[r][c] = cellView{Key: key, Selected: selected[key]}
		}
	}
	tag := i18n.Tag(locale)
	return &reserveView{
		Session: id,
		State:   st,
		Rows:    rows,
		Cost:    reserve.FormatPrice(tag, st.Cost, s.currency),
		Share:   reserve.ShareText(tag, st.Area, st.Cost, s.currency),
	}
}

// GET /reserve
func (s *Server) handleReservePage(w http.ResponseWriter, r *http.Request) {
	sess := s.visitor(w, r)
	data := s.newPage(r, "reserve.home.title")
	data.Reserve = s.buildReserveView(sess.ID, data.Locale, sess.State())
	s.render(w, "reserve", http.StatusOK, data)
}

// POST /reserve applies one form action, then redirects back to the page.
func (s *Server) handleReserveForm(w http.ResponseWriter, r *http.Request) {
	sess := s.visitor(w, r)
	data := s.newPage(r, "reserve.home.title")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		data.Reserve = s.buildReserveView(sess.ID, data.Locale, sess.State())
		data.Reserve.Error = s.bundle.T(data.Locale, "reserve.error.invalid")
		s.render(w, "reserve", http.StatusBadRequest, data)
		return
	}

	action := reserve.Action(r.PostFormValue("action"))
	var cell reserve.Cell
	if action == reserve.ActToggle {
		c, err := reserve.ParseKey(r.PostFormValue("cell"))
		if err != nil {
			data.Reserve = s.buildReserveView(sess.ID, data.Locale, sess.State())
			data.Reserve.Error = s.bundle.T(data.Locale, "reserve.error.invalid")
			s.render(w, "reserve", http.StatusBadRequest, data)
			return
		}
		cell = c
	}

	st, err := sess.Apply(action, cell)
	if err != nil {
		data.Reserve = s.buildReserveView(sess.ID, data.Locale, st)
		key := "reserve.error.invalid"
		if errors.Is(err, reserve.ErrEmptySelection) {
			key = "reserve.error.empty"
		}
		data.Reserve.Error = s.bundle.T(data.Locale, key)
		s.render(w, "reserve", reserveStatus(err), data)
		return
	}

	s.sse.Broadcast(sess.ID, st)
	http.Redirect(w, r, i18n.Path(data.Locale, "/reserve"), http.StatusSeeOther)
}

// --- Settings page ---

// GET /settings; text, from and to query parameters run a translation.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	prefs := s.visitor(w, r).Prefs()
	data := s.newPage(r, "settings.title")
	q := r.URL.Query()
	view := &settingsView{
		Languages: prefs.List(),
		Text:      q.Get("text"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}
	if view.From == "" {
		view.From = translate.DefaultLanguage
	}
	if view.To == "" {
		view.To = prefs.Selected().Code
	}
	data.Settings = view

	status := http.StatusOK
	if view.Text != "" {
		status = s.runSettingsTranslate(r, data)
	}
	s.render(w, "settings", status, data)
}

func (s *Server) runSettingsTranslate(r *http.Request, data *pageData) int {
	view := data.Settings
	req := translateRequest{Text: view.Text, From: view.From, To: view.To}
	if msg := validateTranslate(req); msg != "" {
		key := "settings.error.language"
		if translate.Supported(req.From) && translate.Supported(req.To) {
			key = "settings.error.text"
		}
		view.Error = s.bundle.T(data.Locale, key)
		return http.StatusBadRequest
	}
	if !s.translateRL.allow(clientIP(r)) {
		view.Error = s.bundle.T(data.Locale, "common.error.rate_limited")
		return http.StatusTooManyRequests
	}
	res := s.resolver.Translate(r.Context(), req.Text, req.From, req.To)
	view.Result = &res
	return http.StatusOK
}

// POST /settings/languages with code and op=select|download.
func (s *Server) handleSettingsLanguage(w http.ResponseWriter, r *http.Request) {
	locale := i18n.FromContext(r.Context())
	prefs := s.visitor(w, r).Prefs()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	code := r.PostFormValue("code")
	var err error
	switch r.PostFormValue("op") {
	case "select":
		err = prefs.Select(code)
	case "download":
		err = prefs.Download(r.Context(), code)
	default:
		err = fmt.Errorf("%w: unknown op", translate.ErrUnsupportedLanguage)
	}
	if err != nil {
		data := s.newPage(r, "settings.title")
		data.Settings = &settingsView{
			Languages: prefs.List(),
			From:      translate.DefaultLanguage,
			To:        prefs.Selected().Code,
			Error:     s.bundle.T(locale, "settings.error.language"),
		}
		s.render(w, "settings", http.StatusBadRequest, data)
		return
	}
	http.Redirect(w, r, i18n.Path(locale, "/settings"), http.StatusSeeOther)
}

// --- Forms ---

// POST /contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	data := s.newPage(r, "common.nav.home")
	data.Path = "/"
	data.Languages = s.bundle.Options(data.Locale, "/")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		data.Contact.Error = s.bundle.T(data.Locale, "common.contact.invalid")
		s.render(w, "home", http.StatusBadRequest, data)
		return
	}

	msg := contact.Message{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Body:    r.PostFormValue("message"),
		Consent: r.PostFormValue("consent") != "",
		Locale:  data.Locale,
	}
	data.Contact = contactForm{Name: msg.Name, Email: msg.Email, Message: msg.Body, Consent: msg.Consent}

	if !s.contactRL.allow(clientIP(r)) {
		data.Contact.Error = s.bundle.T(data.Locale, "common.error.rate_limited")
		s.render(w, "home", http.StatusTooManyRequests, data)
		return
	}

	err := s.mailer.Send(r.Context(), msg)
	if err == nil {
		http.Redirect(w, r, i18n.Path(data.Locale, "/")+"?contact=sent#contact", http.StatusSeeOther)
		return
	}

	status, key := http.StatusBadGateway, "common.contact.error"
	switch {
	case errors.Is(err, contact.ErrConsentRequired):
		status, key = http.StatusUnprocessableEntity, "common.contact.consent_required"
	case errors.Is(err, contact.ErrInvalidMessage):
		status, key = http.StatusUnprocessableEntity, "common.contact.invalid"
	case errors.Is(err, contact.ErrNotConfigured):
		status, key = http.StatusServiceUnavailable, "common.contact.unavailable"
	default:
		s.logger.Error("contact relay failed", zap.Error(err))
	}
	data.Contact.Error = s.bundle.T(data.Locale, key)
	s.render(w, "home", status, data)
}

// POST /preferences/theme stores the dark mode flag and returns to the page.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	locale := i18n.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	value := "light"
	if r.PostFormValue("dark") == "on" {
		value = "dark"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, i18n.Path(locale, safeReturn(r.PostFormValue("return"))), http.StatusSeeOther)
}

// safeReturn only allows local absolute paths.
func safeReturn(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	return path.Clean(p)
}

// --- Templates ---

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"t":    s.bundle.T,
		"path": i18n.Path,
		"text": func(t content.Text, locale string) string { return t.In(locale) },
		"languageName": func(code string) string {
			if name := display.Self.Name(language.Make(code)); name != "" {
				return name
			}
			return code
		},
	}
}

func parsePages(funcs template.FuncMap) (map[string]*template.Template, error) {
	names, err := fs.Glob(webFS, "web/templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob page templates: %w", err)
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("").Funcs(funcs).ParseFS(webFS, "web/templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return pages, nil
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

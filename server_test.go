package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/folio/internal/contact"
	"github.com/bodul/folio/internal/content"
	"github.com/bodul/folio/internal/i18n"
	"github.com/bodul/folio/internal/reserve"
	"github.com/bodul/folio/internal/translate"
)

type stubProvider struct {
	name  string
	out   string
	err   error
	calls atomic.Int32
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	p.calls.Add(1)
	if p.err != nil {
		return "", p.err
	}
	return p.out + ":" + text, nil
}

func newTestServer(t *testing.T, opts ...func(*Deps)) *Server {
	t.Helper()
	bundle, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	site, err := content.Load()
	require.NoError(t, err)

	d := Deps{
		Store:    NewStore(testGrid, time.Millisecond),
		Resolver: translate.NewResolver([]translate.Provider{&stubProvider{name: "stub", out: "t"}}),
		Bundle:   bundle,
		Site:     site,
		Currency: "USD",
	}
	for _, opt := range opts {
		opt(&d)
	}
	srv, err := NewServer(d)
	require.NoError(t, err)
	return srv
}

func do(srv http.Handler, method, target string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func postForm(srv http.Handler, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewServerRequiresDeps(t *testing.T) {
	_, err := NewServer(Deps{})
	require.Error(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/", nil)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for key, expected := range headers {
		if got := w.Header().Get(key); got != expected {
			t.Errorf("header %s: expected %q, got %q", key, expected, got)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestHealthz(t *testing.T) {
	w := do(newTestServer(t), "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStaticAssets(t *testing.T) {
	w := do(newTestServer(t), "GET", "/static/style.css", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
}

func TestHomePage(t *testing.T) {
	w := do(newTestServer(t), "GET", "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, `lang="en"`)
	assert.Contains(t, body, "Bodul Maric")
	assert.Contains(t, body, `hreflang="de"`)
}

func TestLocaleRouting(t *testing.T) {
	srv := newTestServer(t)

	t.Run("path prefix", func(t *testing.T) {
		w := do(srv, "GET", "/de/reserve", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `lang="de"`)
		assert.Contains(t, w.Body.String(), "Schütze einen Quadratmeter")

		c := responseCookie(w, i18n.LangCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "de", c.Value)
	})

	t.Run("missing namespace falls back to english", func(t *testing.T) {
		w := do(srv, "GET", "/ja/reserve", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `lang="ja"`)
		assert.Contains(t, w.Body.String(), "Protect a square meter")
	})

	t.Run("accept language", func(t *testing.T) {
		w := do(srv, "GET", "/cv", nil, "Accept-Language", "fr-CH,fr;q=0.9")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `lang="fr"`)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/cv", nil)
		req.Header.Set("Accept-Language", "fr")
		req.AddCookie(&http.Cookie{Name: i18n.LangCookieName, Value: "it"})
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		assert.Contains(t, w.Body.String(), `lang="it"`)
	})
}

func TestProjectPage(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "GET", "/projects/lumen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lumen.gltf")

	w = do(srv, "GET", "/projects/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestCVPage(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "GET", "/cv?lang=it", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lang="it"`)
	assert.Contains(t, w.Body.String(), "Deutsch")
	assert.Contains(t, w.Body.String(), "data-print")

	c := responseCookie(w, i18n.LangCookieName)
	require.NotNil(t, c)
	assert.Equal(t, "it", c.Value)
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "GET", "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = do(srv, "GET", "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func reserveCall(t *testing.T, srv http.Handler, id, action, body string) (*httptest.ResponseRecorder, reserveResponse) {
	t.Helper()
	target := "/api/reserve/" + id + "/" + action
	w := do(srv, "POST", target, strings.NewReader(body), "Content-Type", "application/json")
	var resp reserveResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	}
	return w, resp
}

func TestReserveAPIFlow(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "POST", "/api/reserve", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created reserveResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, reserve.Home, created.State.Screen)
	id := created.ID

	w, _ = reserveCall(t, srv, id, "toggle", `{"row":0,"col":0}`)
	assert.Equal(t, http.StatusConflict, w.Code, "toggle on home")

	w, resp := reserveCall(t, srv, id, "start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reserve.Select, resp.State.Screen)

	w, _ = reserveCall(t, srv, id, "next", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "next without cells")

	w, _ = reserveCall(t, srv, id, "toggle", `{"row":9,"col":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "out of bounds")

	w, _ = reserveCall(t, srv, id, "toggle", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "bad toggle body")

	w, _ = reserveCall(t, srv, id, "fly", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown action")

	reserveCall(t, srv, id, "toggle", `{"row":0,"col":0}`)
	_, resp = reserveCall(t, srv, id, "toggle", `{"row":1,"col":1}`)
	assert.Equal(t, 20, resp.State.Area)
	assert.Equal(t, int64(40), resp.State.Cost)
	assert.True(t, resp.State.CanNext)
	assert.Equal(t, "I just protected 20 m² ($40).", resp.Share)

	_, resp = reserveCall(t, srv, id, "next", "")
	assert.Equal(t, reserve.Summary, resp.State.Screen)

	_, resp = reserveCall(t, srv, id, "checkout", "")
	assert.Equal(t, reserve.Success, resp.State.Screen)
	require.NotNil(t, resp.State.Receipt)
	assert.Equal(t, 20, resp.State.Receipt.Area)

	_, resp = reserveCall(t, srv, id, "more", "")
	assert.Equal(t, reserve.Select, resp.State.Screen)
	assert.Empty(t, resp.State.Selected)

	w = do(srv, "GET", "/api/reserve/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(srv, "GET", "/api/reserve/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = reserveCall(t, srv, "unknown", "start", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReserveForm(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "GET", "/reserve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := responseCookie(w, sessionCookie)
	require.NotNil(t, cookie, "session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Contains(t, w.Body.String(), `data-screen="home"`)

	w = postForm(srv, "/reserve", url.Values{"action": {"start"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/reserve", w.Header().Get("Location"))

	w = postForm(srv, "/reserve", url.Values{"action": {"next"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `data-screen="select"`)

	w = postForm(srv, "/reserve", url.Values{"action": {"toggle"}, "cell": {"x"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(srv, "/de/reserve", url.Values{"action": {"toggle"}, "cell": {"2-1"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/de/reserve", w.Header().Get("Location"))

	assert.Equal(t, 1, len(srv.store.Get(cookie.Value).State().Selected))

	// An unknown cookie starts a fresh session.
	w = do(srv, "GET", "/reserve", nil, "Cookie", sessionCookie+"=stale")
	require.Equal(t, http.StatusOK, w.Code)
	fresh := responseCookie(w, sessionCookie)
	require.NotNil(t, fresh)
	assert.NotEqual(t, "stale", fresh.Value)
}

func TestTranslateAPI(t *testing.T) {
	srv := newTestServer(t)

	post := func(body string) (*httptest.ResponseRecorder, translate.Result) {
		w := do(srv, "POST", "/api/translate", strings.NewReader(body), "Content-Type", "application/json")
		var res translate.Result
		if w.Code == http.StatusOK {
			require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		}
		return w, res
	}

	_, res := post(`{"text":"Hello","from":"en","to":"en"}`)
	assert.Equal(t, translate.Result{Text: "Hello", Service: translate.ServiceIdentity}, res)

	_, res = post(`{"text":"Hello","from":"en","to":"de"}`)
	assert.Equal(t, "Hallo", res.Text)
	assert.Equal(t, translate.ServiceFallback, res.Service)

	_, res = post(`{"text":"Good evening","from":"en","to":"ja"}`)
	assert.Equal(t, "t:Good evening", res.Text)
	assert.Equal(t, "stub", res.Service)

	_, res = post(`{"text":"Good evening","from":"en","to":"ja"}`)
	assert.True(t, res.Cached)

	w, _ := post(`{"text":"Hello","from":"en","to":"xx"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = post(`{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long, _ := json.Marshal(translateRequest{Text: strings.Repeat("a", maxTextLength+1), From: "en", To: "de"})
	w, _ = post(string(long))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(srv, "GET", "/api/translate/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Providers    []string                           `json:"providers"`
		Stats        map[string]translate.ProviderStats `json:"stats"`
		CacheEntries int                                `json:"cache_entries"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, []string{"stub"}, stats.Providers)
	assert.Equal(t, 2, stats.CacheEntries)
}

func TestTranslateAllProvidersFail(t *testing.T) {
	failing := &stubProvider{name: "down", err: errors.New("boom")}
	srv := newTestServer(t, func(d *Deps) {
		d.Resolver = translate.NewResolver([]translate.Provider{failing})
	})

	w := do(srv, "POST", "/api/translate", strings.NewReader(`{"text":"Good night","from":"en","to":"fr"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var res translate.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, translate.Result{Text: "Good night", Service: translate.ServiceNone}, res)
	assert.Equal(t, int32(1), failing.calls.Load())
}

func TestTranslateRateLimit(t *testing.T) {
	srv := newTestServer(t, func(d *Deps) { d.RequestsPerMin = 2 })

	for i := range 2 {
		w := do(srv, "POST", "/api/translate", strings.NewReader(`{"text":"Hi","from":"en","to":"en"}`))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := do(srv, "POST", "/api/translate", strings.NewReader(`{"text":"Hi","from":"en","to":"en"}`))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(srv, "GET", "/settings?text=Hi&from=en&to=de", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

type languagesResponse struct {
	Selected  string                     `json:"selected"`
	Languages []translate.LanguageStatus `json:"languages"`
}

func decodeLanguages(t *testing.T, w *httptest.ResponseRecorder) languagesResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p languagesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

// startVisitor opens a session and returns the Cookie header value that carries it.
func startVisitor(t *testing.T, srv http.Handler) string {
	t.Helper()
	w := do(srv, "GET", "/api/languages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := responseCookie(w, sessionCookie)
	require.NotNil(t, c, "session cookie")
	return sessionCookie + "=" + c.Value
}

func TestLanguagesAPI(t *testing.T) {
	srv := newTestServer(t)
	visitor := startVisitor(t, srv)

	p := decodeLanguages(t, do(srv, "GET", "/api/languages", nil, "Cookie", visitor))
	assert.Equal(t, translate.DefaultLanguage, p.Selected)
	assert.Len(t, p.Languages, len(translate.Languages))

	p = decodeLanguages(t, do(srv, "POST", "/api/languages/de/select", nil, "Cookie", visitor))
	assert.Equal(t, "de", p.Selected)

	w := do(srv, "POST", "/api/languages/xx/select", nil, "Cookie", visitor)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	p = decodeLanguages(t, do(srv, "POST", "/api/languages/fr/download", nil, "Cookie", visitor))
	for _, l := range p.Languages {
		if l.Code == "fr" {
			assert.Equal(t, translate.PackInstalled, l.Pack)
		}
	}

	p = decodeLanguages(t, do(srv, "GET", "/api/languages", nil, "Cookie", visitor))
	assert.Equal(t, "de", p.Selected, "selection survives across requests")

	w = do(srv, "POST", "/api/languages/xx/download", nil, "Cookie", visitor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLanguagePreferencesArePerVisitor(t *testing.T) {
	srv := newTestServer(t)
	alice := startVisitor(t, srv)
	bob := startVisitor(t, srv)
	require.NotEqual(t, alice, bob)

	req := httptest.NewRequest("POST", "/settings/languages", strings.NewReader(url.Values{"code": {"ja"}, "op": {"select"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", alice)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	do(srv, "POST", "/api/languages/pt/download", nil, "Cookie", alice)

	p := decodeLanguages(t, do(srv, "GET", "/api/languages", nil, "Cookie", alice))
	assert.Equal(t, "ja", p.Selected)

	p = decodeLanguages(t, do(srv, "GET", "/api/languages", nil, "Cookie", bob))
	assert.Equal(t, translate.DefaultLanguage, p.Selected)
	for _, l := range p.Languages {
		if l.Code == "pt" {
			assert.Equal(t, translate.PackAvailable, l.Pack, "another visitor's download")
		}
	}

	// A visitor without cookies starts from the defaults too.
	p = decodeLanguages(t, do(srv, "GET", "/api/languages", nil))
	assert.Equal(t, translate.DefaultLanguage, p.Selected)

	w = do(srv, "GET", "/settings", nil, "Cookie", bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="en" selected>`)
	assert.NotContains(t, w.Body.String(), `<option value="ja" selected>`)
}

func TestSettingsPage(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "GET", "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rumantsch")

	w = do(srv, "GET", "/settings?"+url.Values{"text": {"Hello"}, "from": {"en"}, "to": {"de"}}.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hallo")

	w = do(srv, "GET", "/settings?text=Hello&from=en&to=xx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsLanguageForm(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(srv, "/fr/settings/languages", url.Values{"code": {"it"}, "op": {"select"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/fr/settings", w.Header().Get("Location"))
	cookie := responseCookie(w, sessionCookie)
	require.NotNil(t, cookie)
	prefs := srv.store.Get(cookie.Value).Prefs()
	assert.Equal(t, "it", prefs.Selected().Code)

	w = postForm(srv, "/settings/languages", url.Values{"code": {"pt"}, "op": {"download"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, translate.PackInstalled, prefs.Pack("pt"))

	w = postForm(srv, "/settings/languages", url.Values{"code": {"pt"}, "op": {"explode"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func validContact() url.Values {
	return url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Hello there"},
		"consent": {"on"},
	}
}

func TestContactForm(t *testing.T) {
	t.Run("consent required", func(t *testing.T) {
		form := validContact()
		form.Del("consent")
		w := postForm(newTestServer(t), "/contact", form)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Please accept the privacy notice")
	})

	t.Run("invalid email", func(t *testing.T) {
		form := validContact()
		form.Set("email", "not-an-address")
		w := postForm(newTestServer(t), "/contact", form)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		w := postForm(newTestServer(t), "/contact", validContact())
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	relay := func(t *testing.T, status int) (*Server, *atomic.Int32) {
		var hits atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(status)
		}))
		t.Cleanup(ts.Close)
		srv := newTestServer(t, func(d *Deps) {
			d.Mailer = contact.NewMailer(ts.Client(), contact.Config{
				Endpoint:   ts.URL,
				ServiceID:  "svc",
				TemplateID: "tpl",
				PublicKey:  "key",
			})
		})
		return srv, &hits
	}

	t.Run("sent", func(t *testing.T) {
		srv, hits := relay(t, http.StatusOK)
		w := postForm(srv, "/de/contact", validContact())
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/de/?contact=sent#contact", w.Header().Get("Location"))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("relay failure", func(t *testing.T) {
		srv, _ := relay(t, http.StatusInternalServerError)
		w := postForm(srv, "/contact", validContact())
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := newTestServer(t)
		var w *httptest.ResponseRecorder
		for range 6 {
			w = postForm(srv, "/contact", validContact())
		}
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestThemePreference(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(srv, "/preferences/theme", url.Values{"dark": {"on"}, "return": {"/cv"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cv", w.Header().Get("Location"))
	c := responseCookie(w, themeCookie)
	require.NotNil(t, c)
	assert.Equal(t, "dark", c.Value)

	w = do(srv, "GET", "/", nil, "Cookie", themeCookie+"=dark")
	assert.Contains(t, w.Body.String(), `data-theme="dark"`)

	w = postForm(srv, "/preferences/theme", url.Values{"return": {"//evil.example"}})
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "light", responseCookie(w, themeCookie).Value)
}

func TestSafeReturn(t *testing.T) {
	cases := map[string]string{
		"/cv":             "/cv",
		"/projects/../cv": "/cv",
		"":                "/",
		"https://evil":    "/",
		"//evil":          "/",
		`/\evil`:          "/",
	}
	for in, want := range cases {
		if got := safeReturn(in); got != want {
			t.Errorf("safeReturn(%q) = %q, want %q", in, got, want)
		}
	}
}

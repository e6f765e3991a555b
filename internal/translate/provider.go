package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bodul/folio/internal/httpclient"
)

// Provider names, also used as the Service tag on results.
const (
	Google         = "google"
	MyMemory       = "mymemory"
	LibreTranslate = "libretranslate"
	Argos          = "argos"
	Gemini         = "gemini"
)

// Provider is one remote translation service in the fallback chain.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// errEmptyTranslation marks a well-formed response without usable text.
var errEmptyTranslation = errors.New("empty translation")

// ProviderError wraps a failed attempt with the provider that produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// GoogleProvider queries the keyless gtx endpoint.
type GoogleProvider struct {
	client   *http.Client
	endpoint string
}

// NewGoogleProvider returns a provider hitting endpoint with client.
func NewGoogleProvider(client *http.Client, endpoint string) *GoogleProvider {
	return &GoogleProvider{client: client, endpoint: endpoint}
}

func (p *GoogleProvider) Name() string { return Google }

// Translate issues a query-string GET. The response is a nested array whose first
// element lists [translated, original, ...] segments.
func (p *GoogleProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from)
	q.Set("tl", to)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	body, err := httpclient.DoAndRead(p.client, req)
	if err != nil {
		return "", err
	}

	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(raw) == 0 {
		return "", errEmptyTranslation
	}
	segments, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, s := range segments {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if piece, ok := parts[0].(string); ok {
			b.WriteString(piece)
		}
	}
	return nonEmpty(b.String())
}

// MyMemoryProvider queries the MyMemory public API.
type MyMemoryProvider struct {
	client   *http.Client
	endpoint string
}

// NewMyMemoryProvider returns a provider hitting endpoint with client.
func NewMyMemoryProvider(client *http.Client, endpoint string) *MyMemoryProvider {
	return &MyMemoryProvider{client: client, endpoint: endpoint}
}

func (p *MyMemoryProvider) Name() string { return MyMemory }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

func (p *MyMemoryProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	body, err := httpclient.DoAndRead(p.client, req)
	if err != nil {
		return "", err
	}

	var resp myMemoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.ResponseStatus.String() != "200" {
		return "", fmt.Errorf("status %s: %s", resp.ResponseStatus, resp.ResponseDetails)
	}
	// Quota exhaustion comes back as a 200 with a warning in place of the text.
	if strings.HasPrefix(resp.ResponseData.TranslatedText, "MYMEMORY WARNING") {
		return "", fmt.Errorf("quota: %s", resp.ResponseData.TranslatedText)
	}
	return nonEmpty(resp.ResponseData.TranslatedText)
}

// LibreProvider speaks the LibreTranslate JSON API. Remap rewrites target codes
// the instance has no model for.
type LibreProvider struct {
	name     string
	client   *http.Client
	endpoint string
	remap    map[string]string
}

// NewLibreProvider returns a LibreTranslate-compatible provider.
func NewLibreProvider(name string, client *http.Client, endpoint string, remap map[string]string) *LibreProvider {
	return &LibreProvider{name: name, client: client, endpoint: endpoint, remap: remap}
}

// RomanshRemap sends Romansh requests as German, the closest language LibreTranslate
// ships a model for.
var RomanshRemap = map[string]string{"rm": "de"}

func (p *LibreProvider) Name() string { return p.name }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (p *LibreProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	if mapped, ok := p.remap[to]; ok {
		to = mapped
	}
	payload, err := json.Marshal(libreRequest{Q: text, Source: from, Target: to, Format: "text"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := httpclient.DoAndRead(p.client, req)
	if err != nil {
		return "", err
	}

	var resp libreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	return nonEmpty(resp.TranslatedText)
}

func nonEmpty(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errEmptyTranslation
	}
	return s, nil
}

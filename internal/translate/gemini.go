package translate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiRegion = "europe-west1"

const translatePrompt = `Translate the text between <text> tags from %s to %s.
Keep punctuation, capitalization style and any placeholders such as {name} unchanged.
Reply with the translation only, without quotes, tags or commentary.

<text>%s</text>`

// GeminiConfig selects the Gemini backend. APIKey wins over ProjectID.
type GeminiConfig struct {
	APIKey    string
	ProjectID string
	Region    string
	Model     string
}

// GeminiProvider asks a Gemini model for the translation. It is the last resort in
// the chain because it is the slowest and the only one that needs credentials.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider creates a client using an API key, or Vertex AI with Application
// Default Credentials when only a project is set.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.ProjectID != "":
		region := cfg.Region
		if region == "" {
			region = defaultGeminiRegion
		}
		cc.Project = cfg.ProjectID
		cc.Location = region
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: neither API key nor project configured")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: cfg.Model}, nil
}

func (g *GeminiProvider) Name() string { return Gemini }

// Translate sends a single-turn prompt with a low temperature.
func (g *GeminiProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	prompt := fmt.Sprintf(translatePrompt, languageName(from), languageName(to), text)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
			TopP:        genai.Ptr(float32(1)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return nonEmpty(strings.TrimSpace(resp.Text()))
}

func languageName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return code
}

package translate

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Endpoints are the base URLs of the HTTP providers.
type Endpoints struct {
	Google   string
	MyMemory string
	Libre    string
	Argos    string
}

// NewChain builds providers in the order given by names. Unknown names are logged and
// skipped; gemini is skipped when llm is nil.
func NewChain(names []string, client *http.Client, ep Endpoints, llm Provider, logger *zap.Logger) []Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]bool, len(names))
	chain := make([]Provider, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case Google:
			chain = append(chain, NewGoogleProvider(client, ep.Google))
		case MyMemory:
			chain = append(chain, NewMyMemoryProvider(client, ep.MyMemory))
		case LibreTranslate:
			chain = append(chain, NewLibreProvider(LibreTranslate, client, ep.Libre, RomanshRemap))
		case Argos:
			chain = append(chain, NewLibreProvider(Argos, client, ep.Argos, nil))
		case Gemini:
			if llm == nil {
				logger.Debug("gemini provider not configured, skipping")
				continue
			}
			chain = append(chain, llm)
		default:
			logger.Warn("unknown translation provider", zap.String("name", name))
		}
	}
	return chain
}

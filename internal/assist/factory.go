package assist

import (
	"fmt"
	"strings"

	"github.com/roach88/presente/internal/config"
)

// NewCompleter builds the completer for cfg.Provider. Missing credentials
// give a completer that fails every call with ErrMissingAPIKey; an unknown
// provider is an error.
func NewCompleter(cfg config.LLM) (Completer, error) {
	switch config.LLMProvider(strings.ToLower(string(cfg.Provider))) {
	case config.ProviderOpenAI, "":
		if cfg.Key() == "" {
			return missingKey{}, nil
		}
		return NewOpenAI(cfg.Key(), cfg.BaseURL, cfg.Model), nil
	case config.ProviderYandex:
		if cfg.YandexOAuthToken == "" || cfg.YandexFolderID == "" {
			return missingKey{}, nil
		}
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

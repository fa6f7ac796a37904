package assist

import (
	"context"
	"errors"
)

// Completer sends a prompt to a text-completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrMissingAPIKey is returned by a completer built without credentials.
var ErrMissingAPIKey = errors.New("assist: api key not configured")

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("assist: empty response")

// missingKey fails every call with ErrMissingAPIKey.
type missingKey struct{}

func (missingKey) Complete(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

// User-facing messages.
const (
	APIKeyErrorMessage     = "La clave API de Gemini no está configurada. Por favor, asegúrate de que la variable de entorno API_KEY esté definida."
	GenericAPIErrorMessage = "Ocurrió un error al contactar el servicio de IA. Intenta de nuevo más tarde."
	QuoteFallback          = "Cada paso, por pequeño que sea, es un progreso. Confía en ti."
	RolePlayFallback       = "Hmm, no estoy seguro de qué decir. ¿Podrías repetirlo?"
)

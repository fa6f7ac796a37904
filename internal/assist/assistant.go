package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/presente/internal/model"
)

// DefaultTimeout bounds every call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Assistant runs the journal's prompts through a Completer.
type Assistant struct {
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithTimeout bounds each call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the assistant's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// New returns an Assistant over c.
func New(c Completer, opts ...Option) *Assistant {
	a := &Assistant{
		completer: c,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Timeout returns the per-call bound.
func (a *Assistant) Timeout() time.Duration {
	return a.timeout
}

const quotePrompt = "Genera una frase motivacional corta y poderosa sobre la autoaceptación y la superación de la ansiedad social, en español. Máximo 20 palabras."

// MotivationalQuote returns a short motivational sentence, or QuoteFallback.
func (a *Assistant) MotivationalQuote(ctx context.Context) string {
	return a.ask(ctx, "quote", quotePrompt, QuoteFallback, QuoteFallback)
}

// CBTGuidance returns a short reflection on rec with an alternative
// perspective, or a fallback message.
func (a *Assistant) CBTGuidance(ctx context.Context, rec model.ThoughtRecord) string {
	return a.ask(ctx, "cbt_guidance", CBTPrompt(rec), APIKeyErrorMessage, GenericAPIErrorMessage)
}

// RolePlay answers as the other person in scenario, or returns a fallback.
func (a *Assistant) RolePlay(ctx context.Context, scenario, answer string) string {
	return a.ask(ctx, "role_play", RolePlayPrompt(scenario, answer), APIKeyErrorMessage, RolePlayFallback)
}

type reply struct {
	text string
	err  error
}

// ask calls the completer and maps failures: a missing key gives
// missingKeyMsg, anything else gives fallback. The call is abandoned when
// the timeout passes, whether or not the completer honours ctx.
func (a *Assistant) ask(ctx context.Context, call, prompt, missingKeyMsg, fallback string) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan reply, 1)
	go func() {
		out, err := a.completer.Complete(ctx, prompt)
		done <- reply{text: out, err: err}
	}()

	var out string
	var err error
	select {
	case r := <-done:
		out, err = r.text, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil {
		out = strings.TrimSpace(out)
		if out != "" {
			return out
		}
		err = ErrEmptyResponse
	}

	if errors.Is(err, ErrMissingAPIKey) {
		a.logger.Warn("text completion unavailable", "call", call, "error", err)
		return missingKeyMsg
	}
	a.logger.Warn("text completion failed", "call", call, "error", err)
	return fallback
}

// CBTPrompt builds the guidance prompt from a thought record.
func CBTPrompt(rec model.ThoughtRecord) string {
	input := fmt.Sprintf("Situación: %s. Pensamiento automático: %s. Emoción: %s.",
		orUnspecified(rec.Situation), rec.AutomaticThought, orUnspecified(rec.Emotion))
	return fmt.Sprintf(`El usuario está trabajando en la reestructuración cognitiva y ha proporcionado la siguiente información: "%s".
Actúa como un terapeuta de TCC amigable y comprensivo.
Ofrece una breve reflexión (2-3 frases) que valide sus sentimientos y luego sugiere una pregunta o perspectiva alternativa para ayudarle a desafiar un posible pensamiento negativo o distorsión cognitiva.
Responde en español.`, input)
}

// RolePlayPrompt builds the social-skills role-play prompt.
func RolePlayPrompt(scenario, answer string) string {
	return fmt.Sprintf(`Simula una conversación para practicar habilidades sociales.
Escenario: %s
Respuesta del usuario: "%s"
Actúa como la otra persona en la conversación. Tu respuesta debe ser breve, natural y fomentar la continuación de la interacción.
Responde en español.`, scenario, answer)
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No especificada"
	}
	return s
}

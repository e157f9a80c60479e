// Package generate produces chat replies from an ordered list of
// OpenAI compatible providers. The first provider that returns content wins.
package generate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/odit-bit/chatreply/persona"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ApologyFailed is returned when the last provider errored.
	ApologyFailed = "Извините, произошла ошибка при генерации ответа."
	// ApologyUnavailable is returned when the last provider had nothing to say.
	ApologyUnavailable = "Извините, не могу ответить сейчас."
)

type Outcome int

const (
	Replied Outcome = iota
	Unavailable
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Replied:
		return "replied"
	case Unavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

// Result is the reply text and where it came from. Provider is empty when
// every provider failed and Text is an apology.
type Result struct {
	Text     string
	Provider string
	Outcome  Outcome
}

// Completer is implemented by Client.
type Completer interface {
	Complete(ctx context.Context, p Provider, prompt string) (string, error)
}

type Generator struct {
	c            Completer
	providers    []Provider
	persona      string
	groupContext string

	attempts metric.Int64Counter
}

func New(c Completer, personaKey string, groupContext string, providers ...Provider) (*Generator, error) {
	if len(providers) == 0 {
		return nil, errors.New("generate: at least one provider is required")
	}

	meter := otel.Meter("chatreply.generate")
	attempts, err := meter.Int64Counter(
		"chatreply.generate.attempts",
		metric.WithDescription("chat-completion attempts per provider and outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		c:            c,
		providers:    providers,
		persona:      personaKey,
		groupContext: groupContext,
		attempts:     attempts,
	}, nil
}

// Reply never fails, on total failure the result carries an apology.
func (g *Generator) Reply(ctx context.Context, userText string) Result {
	prompt := persona.BuildPrompt(g.persona, g.groupContext, userText)

	var lastErr error
	for _, p := range g.providers {
		text, err := g.c.Complete(ctx, p, prompt)
		if err == nil {
			g.record(ctx, p.Name, Replied)
			return Result{Text: text, Provider: p.Name, Outcome: Replied}
		}

		outcome := Failed
		if errors.Is(err, ErrEmptyContent) {
			outcome = Unavailable
		}
		g.record(ctx, p.Name, outcome)
		slog.Warn("provider attempt failed", "provider", p.Name, "model", p.Model, "error", err)
		lastErr = err
	}

	if errors.Is(lastErr, ErrEmptyContent) {
		return Result{Text: ApologyUnavailable, Outcome: Unavailable}
	}
	return Result{Text: ApologyFailed, Outcome: Failed}
}

func (g *Generator) record(ctx context.Context, provider string, o Outcome) {
	g.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", o.String()),
	))
}

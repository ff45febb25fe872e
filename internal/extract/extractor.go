package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/petsos-dev/availability/internal/domain"
)

// CompletionClient is the slice of the OpenAI client the extractor needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Extractor struct {
	client CompletionClient
	model  string
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func New(client CompletionClient, model string, loc *time.Location, logger *slog.Logger) *Extractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Extractor{
		client: client,
		model:  model,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source. Tests use this to pin "today".
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract turns a transcript into validated slot candidates. Individual
// candidates failing normalization or validation are dropped silently; an
// empty result is a normal outcome. An error is returned only when the
// completion call itself fails or nothing array-shaped can be recovered.
func (e *Extractor) Extract(ctx context.Context, transcript string) ([]domain.Slot, error) {
	tracer := otel.Tracer("extract")
	ctx, span := tracer.Start(ctx, "extract.slots")
	defer span.End()

	today := e.now().In(e.loc)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(transcript, today, e.loc.String())},
		},
	})
	if err != nil {
		span.SetStatus(codes.Error, "completion call failed")
		return nil, fmt.Errorf("slot extraction: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		span.SetStatus(codes.Error, "empty completion")
		return nil, errors.New("slot extraction: empty response from model")
	}

	items, strategy, err := recoverItems(resp.Choices[0].Message.Content)
	if err != nil {
		span.SetStatus(codes.Error, "unparsable response")
		return nil, err
	}
	span.SetAttributes(attribute.String("extract.parse_strategy", strategy))

	var slots []domain.Slot
	for _, item := range items {
		var raw domain.RawSlot
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		slot, ok := domain.Refine(raw, today)
		if !ok {
			continue
		}
		slots = append(slots, slot)
	}

	span.SetAttributes(
		attribute.Int("extract.candidates", len(items)),
		attribute.Int("extract.accepted", len(slots)),
	)
	e.logger.Info("slots extracted", "candidates", len(items), "accepted", len(slots), "strategy", strategy)
	return slots, nil
}

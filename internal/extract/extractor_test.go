package extract

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/petsos-dev/availability/internal/domain"
)

type stubClient struct {
	content string
	err     error
}

func (s *stubClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func newTestExtractor(content string, err error) *Extractor {
	e := New(&stubClient{content: content, err: err}, "test-model", time.UTC, slog.Default())
	return e.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	})
}

func TestExtract_ValidBatch(t *testing.T) {
	e := newTestExtractor(`[
		{"date":"завтра","startTime":"10","endTime":"13","type":"URGENT"},
		{"date":"завтра","startTime":"15","endTime":"17","type":"VP"}
	]`, nil)

	slots, err := e.Extract(context.Background(), "завтра ургент з 10 до 13, і з 15 до 17 ВП")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	want0 := domain.Slot{Date: "2025-06-02", StartTime: "10:00", EndTime: "13:00", Type: domain.TypeURGENT}
	want1 := domain.Slot{Date: "2025-06-02", StartTime: "15:00", EndTime: "17:00", Type: domain.TypeVP}
	if slots[0] != want0 || slots[1] != want1 {
		t.Errorf("got %+v", slots)
	}
}

func TestExtract_PartialSuccess(t *testing.T) {
	// Mixed batch: one good, one out of window, one with a bad type, one
	// non-object. Only the good one survives; no error.
	e := newTestExtractor(`[
		{"date":"завтра","startTime":"10","endTime":"13","type":"URGENT"},
		{"date":"2026-01-01","startTime":"10","endTime":"13","type":"URGENT"},
		{"date":"завтра","startTime":"10","endTime":"13","type":"EXTRA"},
		"not an object"
	]`, nil)

	slots, err := e.Extract(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("partial success must not be an error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 surviving slot, got %d", len(slots))
	}
}

func TestExtract_EmptyResultIsNotError(t *testing.T) {
	e := newTestExtractor(`[]`, nil)
	slots, err := e.Extract(context.Background(), "нічого конкретного")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %d", len(slots))
	}
}

func TestExtract_UnparsableResponse(t *testing.T) {
	e := newTestExtractor(`I could not find any availability information.`, nil)
	_, err := e.Extract(context.Background(), "щось")
	if !errors.Is(err, ErrNoParsableStructure) {
		t.Fatalf("expected ErrNoParsableStructure, got %v", err)
	}
}

func TestExtract_CompletionFailure(t *testing.T) {
	e := newTestExtractor("", errors.New("upstream down"))
	_, err := e.Extract(context.Background(), "щось")
	if err == nil {
		t.Fatal("expected error when the completion call fails")
	}
}

func TestExtract_WrappedResponse(t *testing.T) {
	e := newTestExtractor(`{"slots":[{"date":"2025-06-02","startTime":"10:00","endTime":"13:00","type":"URGENT"}]}`, nil)
	slots, err := e.Extract(context.Background(), "завтра з 10 до 13")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}

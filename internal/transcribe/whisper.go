package transcribe

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Transcriber converts an audio file into text. Empty or whitespace-only
// output means "no usable transcript" and is returned as such, not as an
// error.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type audioClient interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Whisper transcribes via the OpenAI audio endpoint.
type Whisper struct {
	client   audioClient
	language string
}

func NewWhisper(client *openai.Client, language string) *Whisper {
	if language == "" {
		language = "uk"
	}
	return &Whisper{client: client, language: language}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	tracer := otel.Tracer("transcribe")
	ctx, span := tracer.Start(ctx, "transcribe.audio")
	defer span.End()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Language: w.language,
	})
	if err != nil {
		span.SetStatus(codes.Error, "transcription failed")
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

package openai

import (
	"context"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/metrics"
)

// Transcriber converts audio uploads to text via the Whisper API.
type Transcriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewTranscriber creates a transcription provider from a shared client.
func NewTranscriber(client *openai.Client, model string, logger *zap.Logger) *Transcriber {
	return &Transcriber{client: client, model: model, logger: logger}
}

// Transcribe implements domain.Transcriber. The verbose JSON format carries
// Whisper's detected-language hint alongside the text.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (domain.Transcript, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   audio,
		FilePath: filename,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		metrics.TranscriptionsTotal.WithLabelValues("error").Inc()
		return domain.Transcript{}, parseAPIError("transcription", err, domain.ErrTranscriptionProviderError)
	}

	metrics.TranscriptionsTotal.WithLabelValues("success").Inc()

	return domain.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}, nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/metrics"
)

// Generator produces text via the chat completions API, one-shot or streamed.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewGenerator creates a generation provider from a shared client.
func NewGenerator(client *openai.Client, model string, logger *zap.Logger) *Generator {
	return &Generator{client: client, model: model, logger: logger}
}

// Generate implements domain.Generator for one-shot completions.
func (g *Generator) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, g.request(p))
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("chat", "error").Inc()
		return "", parseAPIError("generation", err, domain.ErrGenerationFailed)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationsTotal.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationsTotal.WithLabelValues("chat", "success").Inc()
	metrics.GenerationTokensTotal.WithLabelValues("chat", "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.GenerationTokensTotal.WithLabelValues("chat", "completion").Add(float64(resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream implements domain.Generator for streamed completions.
func (g *Generator) GenerateStream(ctx context.Context, p domain.Prompt) (domain.TokenStream, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, g.request(p))
	if err != nil {
		return nil, parseAPIError("generation", err, domain.ErrGenerationFailed)
	}
	return &tokenStream{stream: stream}, nil
}

func (g *Generator) request(p domain.Prompt) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: p.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	}
}

// tokenStream adapts the provider stream to domain.TokenStream. Empty deltas
// (role frames, finish frames) are skipped so callers only see text.
type tokenStream struct {
	stream *openai.ChatCompletionStream
}

func (t *tokenStream) Recv() (string, error) {
	for {
		resp, err := t.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("stream recv: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (t *tokenStream) Close() {
	_ = t.stream.Close()
}

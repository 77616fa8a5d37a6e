package reply

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
	"github.com/pavneets956-design/Align/internal/metrics"
)

// chunkBuffer bounds how far generation may run ahead of a slow client.
const chunkBuffer = 16

// Streamer turns ranked passages into a streamed reply.
type Streamer struct {
	generator domain.Generator
}

// NewStreamer creates a Streamer backed by the given generator.
func NewStreamer(generator domain.Generator) *Streamer {
	return &Streamer{generator: generator}
}

// Stream generates the reply and emits text deltas on the returned
// channel, which is closed when the reply is complete. With no passages,
// or when the provider stream cannot be opened, the channel carries the
// target language's fallback sentence instead. Cancel ctx to abandon an
// in-flight stream.
func (s *Streamer) Stream(ctx context.Context, passages []domain.Passage, englishQuery string, target domain.Lang) <-chan string {
	out := make(chan string, chunkBuffer)

	if len(passages) == 0 {
		out <- target.FallbackSentence()
		close(out)
		return out
	}

	prompt := BuildPrompt(passages, englishQuery, target)
	stream, err := s.generator.GenerateStream(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("reply stream failed to open, using fallback",
			zap.Error(err))
		metrics.GenerationsTotal.WithLabelValues("reply", "error").Inc()
		out <- target.FallbackSentence()
		close(out)
		return out
	}

	go s.pump(ctx, stream, out)
	return out
}

func (s *Streamer) pump(ctx context.Context, stream domain.TokenStream, out chan<- string) {
	defer close(out)
	defer stream.Close()

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			metrics.GenerationsTotal.WithLabelValues("reply", "success").Inc()
			return
		}
		if err != nil {
			logger.FromContext(ctx).Warn("reply stream interrupted", zap.Error(err))
			metrics.GenerationsTotal.WithLabelValues("reply", "error").Inc()
			return
		}
		if delta == "" {
			continue
		}
		select {
		case out <- delta:
		case <-ctx.Done():
			return
		}
	}
}

package voice

import (
	"context"

	"github.com/pavneets956-design/Align/internal/domain"
)

// Normalizer turns a transcript into English query text.
type Normalizer interface {
	Normalize(ctx context.Context, transcript string, spoken domain.Lang) string
}

// SignalExtractor infers states and themes from English text.
type SignalExtractor interface {
	Extract(ctx context.Context, text string) domain.Signals
}

// Retriever fetches candidate passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) []domain.Passage
}

// CrisisGate produces the short supportive reply for crisis input.
type CrisisGate interface {
	Reply(ctx context.Context, transcript string, target domain.Lang) string
}

// ReplyStreamer generates the guidance reply as a delta channel.
type ReplyStreamer interface {
	Stream(ctx context.Context, passages []domain.Passage, englishQuery string, target domain.Lang) <-chan string
}

package domain

import (
	"context"
	"io"
)

// Prompt is a single system+user generation request.
type Prompt struct {
	System      string
	User        string
	Temperature float32
}

// Generator is the text generation contract. Generate blocks for the full
// completion; GenerateStream returns tokens as the provider emits them.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	GenerateStream(ctx context.Context, p Prompt) (TokenStream, error)
}

// TokenStream yields incremental text deltas. Recv returns io.EOF when the
// upstream completion finishes. Close releases the underlying connection and
// must be safe to call after an error.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// Transcript is the speech-to-text output. Language is the provider's
// detected-language hint and may be empty.
type Transcript struct {
	Text     string
	Language string
}

// Transcriber converts an audio upload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (Transcript, error)
}

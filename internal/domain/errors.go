package domain

import "errors"

var (
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrAudioRequired signals a request without a usable audio body.
	ErrAudioRequired = errors.New("audio required")
	// ErrEmptyTranscript signals that transcription produced no text.
	ErrEmptyTranscript = errors.New("empty transcript")
	// ErrGenerationFailed signals a generation provider failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrTranscriptionProviderError signals a transcription provider failure.
	ErrTranscriptionProviderError = errors.New("transcription provider error")
)

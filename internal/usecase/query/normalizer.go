// Package query turns a raw transcript into retrieval inputs: an
// English-normalized query text and the states/themes inferred from it.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
)

const translateSystemPrompt = "Translate into clear, neutral English. Return only the translation."

// Normalizer translates non-English transcripts into English for
// embedding and signal extraction.
type Normalizer struct {
	generator domain.Generator
}

// NewNormalizer creates a Normalizer backed by the given generator.
func NewNormalizer(generator domain.Generator) *Normalizer {
	return &Normalizer{generator: generator}
}

// Normalize returns the transcript in English. English input is
// returned unchanged without a provider call. Translation failures fall
// back to the original text so retrieval still runs.
func (n *Normalizer) Normalize(ctx context.Context, transcript string, spoken domain.Lang) string {
	if spoken == domain.LangEnglish {
		return transcript
	}

	out, err := n.generator.Generate(ctx, domain.Prompt{
		System:      translateSystemPrompt,
		User:        fmt.Sprintf("Language: %s. Text: %s", spoken, transcript),
		Temperature: 0.4,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("translation failed, using original transcript",
			zap.String("lang", string(spoken)),
			zap.Error(err))
		return transcript
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return transcript
	}
	return out
}

// Package safety screens raw transcripts for crisis language and, when
// triggered, produces a short supportive reply instead of running the
// retrieval pipeline.
package safety

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
	"github.com/pavneets956-design/Align/internal/metrics"
)

var crisisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)end my life`),
	regexp.MustCompile(`(?i)suicide`),
	regexp.MustCompile(`(?i)kill myself`),
	regexp.MustCompile(`(?i)want to die`),
	regexp.MustCompile(`(?i)self-harm`),
	regexp.MustCompile(`(?i)hurt myself`),
}

const crisisSystemPrompt = "One brief sentence in the listener's language offering compassion and suggesting immediate contact with a local professional or helpline."

// IsCrisis reports whether the raw transcript matches any crisis pattern.
// The check runs on the transcript as spoken, before any translation.
func IsCrisis(transcript string) bool {
	for _, p := range crisisPatterns {
		if p.MatchString(transcript) {
			return true
		}
	}
	return false
}

// Gate produces crisis replies via a text generator.
type Gate struct {
	generator domain.Generator
}

// NewGate creates a Gate backed by the given generator.
func NewGate(generator domain.Generator) *Gate {
	return &Gate{generator: generator}
}

// Reply returns one supportive sentence in the target language. Any
// generation failure falls back to a static sentence so a person in
// crisis never sees an error.
func (g *Gate) Reply(ctx context.Context, transcript string, target domain.Lang) string {
	metrics.CrisisTripsTotal.Inc()

	out, err := g.generator.Generate(ctx, domain.Prompt{
		System:      crisisSystemPrompt,
		User:        fmt.Sprintf("Language code %s. Transcript: %s", target, transcript),
		Temperature: 0.4,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("crisis reply generation failed, using fallback",
			zap.Error(err))
		return target.FallbackSentence()
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return target.FallbackSentence()
	}
	return out
}

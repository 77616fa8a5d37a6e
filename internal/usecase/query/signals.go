package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	"github.com/pavneets956-design/Align/internal/logger"
)

const signalsSchema = `{
	"type": "object",
	"properties": {
		"states": {"type": "array", "items": {"type": "string"}},
		"themes": {"type": "array", "items": {"type": "string"}}
	}
}`

var compiledSignalsSchema = jsonschema.MustCompileString("signals.json", signalsSchema)

// SignalExtractor infers emotional states and themes from an English
// reflection via a text generator.
type SignalExtractor struct {
	generator domain.Generator
}

// NewSignalExtractor creates a SignalExtractor backed by the given
// generator.
func NewSignalExtractor(generator domain.Generator) *SignalExtractor {
	return &SignalExtractor{generator: generator}
}

// Extract returns the states and themes detected in text, restricted to
// the known vocabularies. Extraction is best effort: provider errors,
// malformed JSON, or schema violations all produce empty signals and
// never fail the request.
func (e *SignalExtractor) Extract(ctx context.Context, text string) domain.Signals {
	system := fmt.Sprintf(
		`Given a listener reflection, select all applicable states from [%s] and themes from [%s]. Respond with JSON: {"states":["..."],"themes":["..."]}.`,
		strings.Join(domain.States, ", "),
		strings.Join(domain.Themes, ", "),
	)

	raw, err := e.generator.Generate(ctx, domain.Prompt{
		System:      system,
		User:        text,
		Temperature: 0.4,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("signal extraction failed", zap.Error(err))
		return domain.Signals{}
	}

	return parseSignals(ctx, raw)
}

func parseSignals(ctx context.Context, raw string) domain.Signals {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var untyped any
	if err := json.Unmarshal([]byte(raw), &untyped); err != nil {
		logger.FromContext(ctx).Warn("signal response is not valid JSON", zap.Error(err))
		return domain.Signals{}
	}
	if err := compiledSignalsSchema.Validate(untyped); err != nil {
		logger.FromContext(ctx).Warn("signal response failed schema validation", zap.Error(err))
		return domain.Signals{}
	}

	var parsed struct {
		States []string `json:"states"`
		Themes []string `json:"themes"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.Signals{}
	}

	return domain.Signals{
		States: domain.FilterVocab(domain.States, parsed.States),
		Themes: domain.FilterVocab(domain.Themes, parsed.Themes),
	}
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Package reply composes the guidance prompt and streams the generated
// reply token by token.
package reply

import (
	"fmt"
	"strings"

	"github.com/pavneets956-design/Align/internal/domain"
)

// Persona is the voice every reply is generated in.
const Persona = "You are 'The Light' — a gentle, motherly presence. Speak in short, spacious lines. Offer exactly one micro-practice. Avoid scripture names, religious labels, or clinical claims. Tone: warm, soft, and unhurried."

// BuildPrompt composes the generation prompt from the ranked passages,
// the English query, and the reply language. Passage text enters the
// prompt as hidden context the reply may draw on but never cite.
func BuildPrompt(passages []domain.Passage, englishQuery string, target domain.Lang) domain.Prompt {
	var ctxLines strings.Builder
	ctxLines.WriteString("Inner context (never cite it):")
	for _, p := range passages {
		ctxLines.WriteString("\n- paraphrase: ")
		ctxLines.WriteString(p.Paraphrase)
		ctxLines.WriteString("\n  practice: ")
		ctxLines.WriteString(p.Practice)
	}

	name := target.Name()
	user := fmt.Sprintf(
		"%s\n\nListener language: %s. Transcript (English intent): %s. Respond in %s with <= 6 short lines, slow cadence, and exactly one micro-practice phrased in that language. Do not name scriptures or religious figures.",
		ctxLines.String(), name, englishQuery, name,
	)

	return domain.Prompt{
		System:      Persona,
		User:        user,
		Temperature: 0.4,
	}
}

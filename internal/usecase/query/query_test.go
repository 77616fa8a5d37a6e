package query

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pavneets956-design/Align/internal/domain"
)

// --- Mocks ---

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt domain.Prompt) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	return m.generateFunc(ctx, prompt)
}

func (m *mockGenerator) GenerateStream(_ context.Context, _ domain.Prompt) (domain.TokenStream, error) {
	return nil, errors.New("not implemented")
}

// --- Normalizer tests ---

func TestNormalize_EnglishPassthrough(t *testing.T) {
	called := false
	n := NewNormalizer(&mockGenerator{
		generateFunc: func(_ context.Context, _ domain.Prompt) (string, error) {
			called = true
			return "", nil
		},
	})

	got := n.Normalize(context.Background(), "I feel restless", domain.LangEnglish)

	if got != "I feel restless" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if called {
		t.Error("generator should not be called for english input")
	}
}

func TestNormalize_TranslatesNonEnglish(t *testing.T) {
	var captured domain.Prompt
	n := NewNormalizer(&mockGenerator{
		generateFunc: func(_ context.Context, prompt domain.Prompt) (string, error) {
			captured = prompt
			return " I cannot find peace. ", nil
		},
	})

	got := n.Normalize(context.Background(), "mainu shanti nahi milti", domain.LangPunjabi)

	if got != "I cannot find peace." {
		t.Errorf("unexpected translation: %q", got)
	}
	if !strings.Contains(captured.User, "Language: pa.") {
		t.Errorf("prompt missing language: %q", captured.User)
	}
	if !strings.Contains(captured.System, "neutral English") {
		t.Errorf("unexpected system prompt: %q", captured.System)
	}
}

func TestNormalize_FallbackOnError(t *testing.T) {
	n := NewNormalizer(&mockGenerator{
		generateFunc: func(_ context.Context, _ domain.Prompt) (string, error) {
			return "", errors.New("rate limited")
		},
	})

	got := n.Normalize(context.Background(), "mujhe neend nahi aati", domain.LangHindi)

	if got != "mujhe neend nahi aati" {
		t.Errorf("expected original transcript on failure, got %q", got)
	}
}

// --- Signal extractor tests ---

func extractWith(t *testing.T, response string, err error) domain.Signals {
	t.Helper()
	e := NewSignalExtractor(&mockGenerator{
		generateFunc: func(_ context.Context, _ domain.Prompt) (string, error) {
			return response, err
		},
	})
	return e.Extract(context.Background(), "I feel anxious about everything")
}

func TestExtract_ValidResponse(t *testing.T) {
	got := extractWith(t, `{"states":["anxiety","overthinking"],"themes":["stillness"]}`, nil)

	if !reflect.DeepEqual(got.States, []string{"anxiety", "overthinking"}) {
		t.Errorf("unexpected states: %v", got.States)
	}
	if !reflect.DeepEqual(got.Themes, []string{"stillness"}) {
		t.Errorf("unexpected themes: %v", got.Themes)
	}
}

func TestExtract_DropsUnknownValues(t *testing.T) {
	got := extractWith(t, `{"states":["anxiety","despair"],"themes":["productivity"]}`, nil)

	if !reflect.DeepEqual(got.States, []string{"anxiety"}) {
		t.Errorf("unknown state not dropped: %v", got.States)
	}
	if len(got.Themes) != 0 {
		t.Errorf("unknown theme not dropped: %v", got.Themes)
	}
}

func TestExtract_NormalizesCase(t *testing.T) {
	got := extractWith(t, `{"states":[" Anxiety ","GRIEF"],"themes":[]}`, nil)

	if !reflect.DeepEqual(got.States, []string{"anxiety", "grief"}) {
		t.Errorf("case/space normalization failed: %v", got.States)
	}
}

func TestExtract_CodeFencedJSON(t *testing.T) {
	got := extractWith(t, "```json\n{\"states\":[\"grief\"],\"themes\":[\"acceptance\"]}\n```", nil)

	if !reflect.DeepEqual(got.States, []string{"grief"}) {
		t.Errorf("fenced JSON not handled: %v", got.States)
	}
}

func TestExtract_EmptyOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"provider error", "", errors.New("upstream unavailable")},
		{"malformed json", `{"states": [`, nil},
		{"prose response", "I think the listener feels anxious.", nil},
		{"wrong types", `{"states": "anxiety", "themes": 3}`, nil},
		{"null arrays", `{"states": null, "themes": null}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractWith(t, tt.response, tt.err)
			if len(got.States) != 0 || len(got.Themes) != 0 {
				t.Errorf("expected empty signals, got %+v", got)
			}
		})
	}
}

func TestExtract_PromptCarriesVocabularies(t *testing.T) {
	var captured domain.Prompt
	e := NewSignalExtractor(&mockGenerator{
		generateFunc: func(_ context.Context, prompt domain.Prompt) (string, error) {
			captured = prompt
			return `{}`, nil
		},
	})

	e.Extract(context.Background(), "reflection")

	for _, state := range domain.States {
		if !strings.Contains(captured.System, state) {
			t.Errorf("system prompt missing state %q", state)
		}
	}
	for _, theme := range domain.Themes {
		if !strings.Contains(captured.System, theme) {
			t.Errorf("system prompt missing theme %q", theme)
		}
	}
}

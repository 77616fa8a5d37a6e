package domain

import (
	"strings"
	"unicode"
)

// Lang is a supported listener language code.
type Lang string

// Supported languages. LangEnglish doubles as the pipeline's working
// language: retrieval always runs over English queries.
const (
	LangEnglish Lang = "en"
	LangHindi   Lang = "hi"
	LangPunjabi Lang = "pa"
)

// ParseLang normalizes an arbitrary language code to the closed set via
// prefix matching (regional variants collapse to their base language).
// Returns false when the code maps to nothing supported.
func ParseLang(code string) (Lang, bool) {
	lower := strings.ToLower(strings.TrimSpace(code))
	switch {
	case lower == "":
		return "", false
	case strings.HasPrefix(lower, "en"):
		return LangEnglish, true
	case strings.HasPrefix(lower, "hi"):
		return LangHindi, true
	case strings.HasPrefix(lower, "pa"), strings.HasPrefix(lower, "pu"):
		return LangPunjabi, true
	default:
		return "", false
	}
}

// DetectLang applies the script heuristic over raw text: any Gurmukhi rune
// means Punjabi, any Devanagari rune means Hindi, otherwise English.
func DetectLang(text string) Lang {
	for _, r := range text {
		if unicode.Is(unicode.Gurmukhi, r) {
			return LangPunjabi
		}
	}
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return LangHindi
		}
	}
	return LangEnglish
}

// ResolveSpoken picks the spoken language: an explicit transcription hint
// wins, then the script heuristic, then English.
func ResolveSpoken(hint, rawText string) Lang {
	if l, ok := ParseLang(hint); ok {
		return l
	}
	return DetectLang(rawText)
}

// ResolveTarget picks the reply language: an explicit caller request wins
// over the spoken language.
func ResolveTarget(explicit string, spoken Lang) Lang {
	if l, ok := ParseLang(explicit); ok {
		return l
	}
	return spoken
}

// Name returns the English name used in generation prompts.
func (l Lang) Name() string {
	switch l {
	case LangPunjabi:
		return "Punjabi"
	case LangHindi:
		return "Hindi"
	default:
		return "English"
	}
}

// FallbackSentence is the static per-language reply used when generation is
// unavailable.
func (l Lang) FallbackSentence() string {
	switch l {
	case LangPunjabi:
		return "ਸਾਹ ਨੂੰ ਹੌਲੀ ਹੌਲੀ ਲਓ, ਹੱਥ ਦਿਲ 'ਤੇ ਰੱਖੋ, ਅਤੇ ਕੁਝ ਪਲਾਂ ਬਾਅਦ ਫਿਰ ਬੁਲਾਓ।"
	case LangHindi:
		return "धीरे सांस लें, एक हाथ हृदय पर रखें, और कुछ क्षण बाद फिर से पुकारें।"
	default:
		return "Take a slow breath, hand to heart, and invite the Light again in a moment."
	}
}

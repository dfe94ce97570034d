package quality

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"go-legal-ocr/pkg/models"
)

// Evaluate compares recognized text against a reference transcription
// and reports character and word error rates. Both rates are edit
// distance divided by reference length; 0 is perfect, values above 1
// are possible when the hypothesis is much longer than the reference.
func Evaluate(reference, hypothesis string) models.AccuracyReport {
	return models.AccuracyReport{
		CharacterErrorRate: CharacterErrorRate(reference, hypothesis),
		WordErrorRate:      WordErrorRate(reference, hypothesis),
	}
}

// CharacterErrorRate is the rune-level edit distance normalized by the
// reference length.
func CharacterErrorRate(reference, hypothesis string) float64 {
	refLen := len([]rune(reference))
	if refLen == 0 {
		if hypothesis == "" {
			return 0.0
		}
		return 1.0
	}
	return float64(levenshtein.Distance(reference, hypothesis)) / float64(refLen)
}

// WordErrorRate is the token-level edit distance normalized by the
// reference token count. Tokens are mapped to single placeholder runes
// so the same edit distance routine serves both rates.
func WordErrorRate(reference, hypothesis string) float64 {
	refTokens := strings.Fields(reference)
	hypTokens := strings.Fields(hypothesis)
	if len(refTokens) == 0 {
		if len(hypTokens) == 0 {
			return 0.0
		}
		return 1.0
	}

	vocab := make(map[string]rune)
	encode := func(tokens []string) string {
		var b strings.Builder
		for _, t := range tokens {
			r, ok := vocab[t]
			if !ok {
				// Private use area keeps placeholders out of the way
				// of real text.
				r = rune(0xE000 + len(vocab))
				vocab[t] = r
			}
			b.WriteRune(r)
		}
		return b.String()
	}

	ref := encode(refTokens)
	hyp := encode(hypTokens)
	return float64(levenshtein.Distance(ref, hyp)) / float64(len(refTokens))
}

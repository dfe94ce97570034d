package correct

import (
	"strings"

	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

// CorrectPage runs the full correction chain over one recognized page
// and returns the corrected copy. The input page is not mutated.
//
// Per word: Arabic normalization, digit normalization, then dictionary
// correction. Dictionary lookups are gated to the medium confidence
// band: below it the recognition is too unreliable to trust an edit
// distance match, at or above the high threshold the word is most
// likely already right and rewriting it would do more harm than good.
func CorrectPage(page models.OCRPageResult, cfg config.Config, dict *Dictionary) models.OCRPageResult {
	corrected := page
	corrected.Lines = make([]models.OCRLine, 0, len(page.Lines))

	for _, line := range page.Lines {
		newLine := correctLine(line, cfg, dict)
		corrected.Lines = append(corrected.Lines, newLine)
	}

	corrected.Lines = MergeSplitLines(corrected.Lines)

	texts := make([]string, 0, len(corrected.Lines))
	for _, line := range corrected.Lines {
		texts = append(texts, line.Text)
	}
	corrected.RawText = strings.Join(texts, "\n")
	return corrected
}

func correctLine(line models.OCRLine, cfg config.Config, dict *Dictionary) models.OCRLine {
	words := make([]models.OCRWord, 0, len(line.Words))
	tokens := make([]string, 0, len(line.Words))

	for _, word := range line.Words {
		text := NormalizeArabic(word.Text)
		text = NormalizeDigits(text, cfg.DigitMode)

		if cfg.EnableDictionaryCorrection &&
			word.Confidence >= cfg.MediumConfidence &&
			word.Confidence < cfg.HighConfidence {
			text = dict.Correct(text, cfg.MaxLevenshteinDistance)
		}

		corrected := word
		corrected.Text = text
		words = append(words, corrected)
		tokens = append(tokens, text)
	}

	text := strings.Join(tokens, " ")
	text = FixWhitespace(text)
	text = FixIntraWordSpaces(text)
	text = ApplyLegalPatterns(text)

	out := line
	out.Words = words
	out.Text = text
	return out
}

package correct

import (
	"regexp"
	"strings"

	"go-legal-ocr/pkg/models"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([،؛.,:؟!])`)
)

// joiningLetters are Arabic letters that connect to the following
// letter. A line ending in one of these was most likely split
// mid-word by layout analysis.
const joiningLetters = "بتثجحخسشصضطظعغفقكلمنهي"

// FixWhitespace collapses runs of spaces and tabs and removes stray
// spaces before punctuation.
func FixWhitespace(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// FixIntraWordSpaces rejoins words that recognition shattered into
// single letters, a frequent failure on degraded Arabic scans. Only
// runs of three or more lone Arabic letters are joined; two adjacent
// one-letter tokens can legitimately occur.
func FixIntraWordSpaces(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return text
	}

	out := make([]string, 0, len(fields))
	i := 0
	for i < len(fields) {
		j := i
		for j < len(fields) && isSingleArabicLetter(fields[j]) {
			j++
		}
		if j-i >= 3 {
			out = append(out, strings.Join(fields[i:j], ""))
			i = j
			continue
		}
		out = append(out, fields[i])
		i++
	}
	return strings.Join(out, " ")
}

func isSingleArabicLetter(token string) bool {
	runes := []rune(token)
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	return r >= 0x0600 && r <= 0x06FF
}

// MergeSplitLines joins consecutive lines when the earlier line ends
// in a joining letter and the later line carries text, which marks a
// word broken across a visual line boundary. The merged line carries
// the mean of both confidences.
func MergeSplitLines(lines []models.OCRLine) []models.OCRLine {
	if len(lines) < 2 {
		return lines
	}

	merged := make([]models.OCRLine, 0, len(lines))
	current := lines[0]
	for _, next := range lines[1:] {
		if endsInJoiningLetter(current.Text) && strings.TrimSpace(next.Text) != "" {
			current = models.OCRLine{
				Words:      append(append([]models.OCRWord{}, current.Words...), next.Words...),
				Text:       current.Text + next.Text,
				BBox:       current.BBox,
				Confidence: (current.Confidence + next.Confidence) / 2,
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func endsInJoiningLetter(text string) bool {
	trimmed := strings.TrimRight(text, " \t")
	runes := []rune(trimmed)
	if len(runes) == 0 {
		return false
	}
	return strings.ContainsRune(joiningLetters, runes[len(runes)-1])
}

package assemble

import (
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"go-legal-ocr/internal/correct"
	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

const (
	// minPagesForHeaderFooter is the smallest document where repeated
	// first and last lines can be told apart from body text.
	minPagesForHeaderFooter = 3

	// headerFooterRatio is the fraction of pages on which a line must
	// repeat before it counts as a running header or footer.
	headerFooterRatio = 0.5
)

// AssembleDocument corrects each page, strips running headers and
// footers and combines the pages into a document result. Page
// warnings are rolled up into the document warning list.
func AssembleDocument(source, docID string, pages []models.OCRPageResult, cfg config.Config, dict *correct.Dictionary) models.OCRDocumentResult {
	doc := models.OCRDocumentResult{
		Source:     source,
		DocID:      docID,
		TotalPages: len(pages),
	}

	doc.Pages = make([]models.OCRPageResult, 0, len(pages))
	for _, page := range pages {
		cp := correct.CorrectPage(page, cfg, dict)
		doc.Pages = append(doc.Pages, cp)
		doc.Warnings = append(doc.Warnings, cp.Warnings...)
	}

	doc.Pages = removeRepeatedHeadersFooters(doc.Pages)

	texts := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		if page.RawText != "" {
			texts = append(texts, page.RawText)
		}
	}
	doc.RawText = strings.Join(texts, "\n\n")
	doc.OverallConfidence = documentConfidence(doc.Pages)
	return doc
}

// removeRepeatedHeadersFooters drops the first or last line of each
// page when the same trimmed line recurs on more than half the pages.
// At most one line is removed from each end so genuine body text that
// happens to repeat is left alone.
func removeRepeatedHeadersFooters(pages []models.OCRPageResult) []models.OCRPageResult {
	if len(pages) < minPagesForHeaderFooter {
		return pages
	}

	firstCounts := make(map[string]int)
	lastCounts := make(map[string]int)
	for _, page := range pages {
		if len(page.Lines) == 0 {
			continue
		}
		if first := strings.TrimSpace(page.Lines[0].Text); first != "" {
			firstCounts[first]++
		}
		if last := strings.TrimSpace(page.Lines[len(page.Lines)-1].Text); last != "" {
			lastCounts[last]++
		}
	}

	threshold := float64(len(pages)) * headerFooterRatio
	out := make([]models.OCRPageResult, 0, len(pages))
	for _, page := range pages {
		lines := page.Lines
		if len(lines) > 0 {
			if first := strings.TrimSpace(lines[0].Text); first != "" && float64(firstCounts[first]) > threshold {
				lines = lines[1:]
			}
		}
		if len(lines) > 0 {
			if last := strings.TrimSpace(lines[len(lines)-1].Text); last != "" && float64(lastCounts[last]) > threshold {
				lines = lines[:len(lines)-1]
			}
		}

		if len(lines) != len(page.Lines) {
			page.Lines = lines
			texts := make([]string, 0, len(lines))
			for _, line := range lines {
				texts = append(texts, line.Text)
			}
			page.RawText = strings.Join(texts, "\n")
		}
		out = append(out, page)
	}
	return out
}

// documentConfidence is the mean page confidence weighted by page text
// length, zero when no page produced text.
func documentConfidence(pages []models.OCRPageResult) float64 {
	var confs, weights []float64
	for _, page := range pages {
		n := utf8.RuneCountInString(page.RawText)
		if n == 0 {
			continue
		}
		confs = append(confs, page.Confidence)
		weights = append(weights, float64(n))
	}
	if len(confs) == 0 {
		return 0.0
	}
	return stat.Mean(confs, weights)
}

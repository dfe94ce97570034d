package assemble

import (
	"math"
	"strings"
	"testing"

	"go-legal-ocr/internal/correct"
	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

func pageWith(pageNumber int, confidence float64, lines ...string) models.OCRPageResult {
	page := models.OCRPageResult{PageNumber: pageNumber, Confidence: confidence}
	for _, text := range lines {
		words := make([]models.OCRWord, 0)
		for _, w := range strings.Fields(text) {
			words = append(words, models.OCRWord{Text: w, Confidence: confidence})
		}
		page.Lines = append(page.Lines, models.OCRLine{
			Words:      words,
			Text:       text,
			Confidence: confidence,
		})
	}
	page.RawText = strings.Join(lines, "\n")
	return page
}

func TestAssembleDocument_JoinsPages(t *testing.T) {
	cfg := config.Default().WithDictionaryCorrection(false)
	dict := correct.NewDictionary("")

	pages := []models.OCRPageResult{
		pageWith(1, 0.9, "نص الصفحة الاولى"),
		pageWith(2, 0.9, "نص الصفحة الثانية"),
	}

	doc := AssembleDocument("case-1", "abc123", pages, cfg, dict)

	if doc.DocID != "abc123" {
		t.Errorf("Expected doc ID abc123, got %q", doc.DocID)
	}
	if doc.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", doc.TotalPages)
	}
	expected := "نص الصفحة الاولى\n\nنص الصفحة الثانية"
	if doc.RawText != expected {
		t.Errorf("Expected %q, got %q", expected, doc.RawText)
	}
}

func TestAssembleDocument_SkipsEmptyPages(t *testing.T) {
	cfg := config.Default().WithDictionaryCorrection(false)
	dict := correct.NewDictionary("")

	pages := []models.OCRPageResult{
		pageWith(1, 0.9, "نص"),
		{PageNumber: 2, Warnings: []string{"no text detected on page"}},
	}

	doc := AssembleDocument("case-2", "def456", pages, cfg, dict)

	if doc.RawText != "نص" {
		t.Errorf("Expected empty page excluded from text, got %q", doc.RawText)
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0] != "no text detected on page" {
		t.Errorf("Expected page warning rolled up, got %v", doc.Warnings)
	}
}

func TestRemoveRepeatedHeadersFooters(t *testing.T) {
	header := "محكمة النقض الدائرة المدنية"
	footer := "صفحة"

	pages := []models.OCRPageResult{
		pageWith(1, 0.9, header, "متن الصفحة الاولى", footer),
		pageWith(2, 0.9, header, "متن الصفحة الثانية", footer),
		pageWith(3, 0.9, header, "متن الصفحة الثالثة", footer),
		pageWith(4, 0.9, "صفحة مختلفة تماما"),
	}

	out := removeRepeatedHeadersFooters(pages)

	for i := 0; i < 3; i++ {
		if len(out[i].Lines) != 1 {
			t.Fatalf("Page %d: expected 1 line after stripping, got %d", i+1, len(out[i].Lines))
		}
		if strings.Contains(out[i].RawText, header) || strings.HasSuffix(out[i].RawText, footer) {
			t.Errorf("Page %d: header or footer survived: %q", i+1, out[i].RawText)
		}
	}
	if len(out[3].Lines) != 1 {
		t.Errorf("Page 4: expected unique line kept, got %d lines", len(out[3].Lines))
	}
}

func TestRemoveRepeatedHeadersFooters_TooFewPages(t *testing.T) {
	header := "ترويسة مكررة"
	pages := []models.OCRPageResult{
		pageWith(1, 0.9, header, "متن"),
		pageWith(2, 0.9, header, "متن اخر"),
	}

	out := removeRepeatedHeadersFooters(pages)
	for i, page := range out {
		if len(page.Lines) != 2 {
			t.Errorf("Page %d: expected lines untouched on short document, got %d", i+1, len(page.Lines))
		}
	}
}

func TestRemoveRepeatedHeadersFooters_BelowThreshold(t *testing.T) {
	// The same first line on exactly half the pages is not enough.
	// Last lines are all distinct so only the header case is in play.
	pages := []models.OCRPageResult{
		pageWith(1, 0.9, "ترويسة", "متن اول"),
		pageWith(2, 0.9, "ترويسة", "متن ثان"),
		pageWith(3, 0.9, "سطر اخر", "متن ثالث"),
		pageWith(4, 0.9, "سطر ثالث", "متن رابع"),
	}

	out := removeRepeatedHeadersFooters(pages)
	for i, page := range out {
		if len(page.Lines) != 2 {
			t.Errorf("Page %d: expected lines kept below threshold, got %d", i+1, len(page.Lines))
		}
	}
}

func TestDocumentConfidence_WeightedByLength(t *testing.T) {
	pages := []models.OCRPageResult{
		{RawText: strings.Repeat("م", 30), Confidence: 0.9},
		{RawText: strings.Repeat("م", 10), Confidence: 0.5},
	}

	got := documentConfidence(pages)
	expected := (0.9*30 + 0.5*10) / 40
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected confidence %g, got %g", expected, got)
	}
}

func TestDocumentConfidence_NoText(t *testing.T) {
	pages := []models.OCRPageResult{
		{Confidence: 0.9},
		{Confidence: 0.5},
	}
	if got := documentConfidence(pages); got != 0.0 {
		t.Errorf("Expected 0.0 for empty document, got %g", got)
	}
}

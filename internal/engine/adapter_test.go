package engine

import (
	"context"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

// fakeEngine returns scripted results per page, in call order.
type fakeEngine struct {
	pages [][]RawLine
	errs  []error
	panic []bool
	calls int
}

func (f *fakeEngine) RecognizeImage(ctx context.Context, img image.Image, cfg config.Config) ([]RawLine, error) {
	i := f.calls
	f.calls++
	if i < len(f.panic) && f.panic[i] {
		panic("corrupt image data")
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return nil, nil
}

func (f *fakeEngine) Reset() error { return nil }

func testImages(n int) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		images[i] = image.NewGray(image.Rect(0, 0, 10, 10))
	}
	return images
}

func box() []float64 {
	return []float64{0, 0, 10, 0, 10, 10, 0, 10}
}

func TestRecognizePages_OnePerInput(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{{Text: "سطر", BBox: box(), Confidence: 0.9}},
		{{Text: "اخر", BBox: box(), Confidence: 0.8}},
	}}
	adapter := NewAdapter(eng)

	results := adapter.RecognizePages(context.Background(), testImages(2), config.Default())
	if len(results) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(results))
	}
	if results[0].PageNumber != 1 || results[1].PageNumber != 2 {
		t.Errorf("Expected sequential page numbers, got %d and %d",
			results[0].PageNumber, results[1].PageNumber)
	}
	if results[0].RawText != "سطر" || results[1].RawText != "اخر" {
		t.Errorf("Expected page texts in order, got %q and %q",
			results[0].RawText, results[1].RawText)
	}
}

func TestRecognizePages_SingleWordPerLine(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{{Text: "محكمة العدل العليا", BBox: box(), Confidence: 0.9}},
	}}
	adapter := NewAdapter(eng)

	page := adapter.RecognizePages(context.Background(), testImages(1), config.Default())[0]
	line := page.Lines[0]
	if len(line.Words) != 1 {
		t.Fatalf("Expected 1 word spanning the line, got %d", len(line.Words))
	}
	word := line.Words[0]
	if word.Text != "محكمة العدل العليا" || word.Confidence != 0.9 {
		t.Errorf("Expected word carrying the full line, got %+v", word)
	}
	if word.BBox != line.BBox {
		t.Errorf("Expected word box to match the line box, got %+v", word.BBox)
	}
	if (word.BBox[2] != models.Point{X: 10, Y: 10}) {
		t.Errorf("Expected bottom-right corner (10, 10), got %+v", word.BBox[2])
	}
}

func TestRecognizePages_NoDetections(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{nil}}
	adapter := NewAdapter(eng)

	results := adapter.RecognizePages(context.Background(), testImages(1), config.Default())
	page := results[0]

	if page.HasErrors {
		t.Error("Expected empty page without error flag")
	}
	if len(page.Warnings) != 1 || page.Warnings[0] != "no text detected on page" {
		t.Errorf("Expected empty page warning, got %v", page.Warnings)
	}
	if page.Confidence != 0.0 {
		t.Errorf("Expected zero confidence, got %g", page.Confidence)
	}
}

func TestRecognizePages_WhitespaceOnlyLines(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{{Text: "   \t", BBox: box(), Confidence: 0.9}},
	}}
	adapter := NewAdapter(eng)

	page := adapter.RecognizePages(context.Background(), testImages(1), config.Default())[0]
	if len(page.Warnings) != 1 || page.Warnings[0] != "recognition produced no text" {
		t.Errorf("Expected no-text warning, got %v", page.Warnings)
	}
	if page.HasErrors {
		t.Error("Expected no error flag for blank output")
	}
}

func TestRecognizePages_EngineErrorContained(t *testing.T) {
	eng := &fakeEngine{
		errs:  []error{errors.New("tesseract unavailable"), nil},
		pages: [][]RawLine{nil, {{Text: "نص", BBox: box(), Confidence: 0.7}}},
	}
	adapter := NewAdapter(eng)

	results := adapter.RecognizePages(context.Background(), testImages(2), config.Default())

	if !results[0].HasErrors {
		t.Error("Expected first page flagged with errors")
	}
	if len(results[0].Warnings) != 1 || !strings.HasPrefix(results[0].Warnings[0], "OCR engine error:") {
		t.Errorf("Expected engine error warning, got %v", results[0].Warnings)
	}
	if results[1].HasErrors || results[1].RawText != "نص" {
		t.Error("Expected second page to process normally after failure")
	}
}

func TestRecognizePages_PanicContained(t *testing.T) {
	eng := &fakeEngine{
		panic: []bool{true, false},
		pages: [][]RawLine{nil, {{Text: "نص", BBox: box(), Confidence: 0.7}}},
	}
	adapter := NewAdapter(eng)

	results := adapter.RecognizePages(context.Background(), testImages(2), config.Default())

	if !results[0].HasErrors {
		t.Error("Expected panicking page flagged with errors")
	}
	if results[1].HasErrors {
		t.Error("Expected batch to continue after panic")
	}
}

func TestRecognizePages_LowConfidenceWarning(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{{Text: "نص غامض", BBox: box(), Confidence: 0.3}},
	}}
	adapter := NewAdapter(eng)

	page := adapter.RecognizePages(context.Background(), testImages(1), config.Default())[0]
	if len(page.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", page.Warnings)
	}
	if !strings.HasPrefix(page.Warnings[0], "low confidence (0.30)") {
		t.Errorf("Expected low confidence warning, got %q", page.Warnings[0])
	}
}

func TestRecognizePages_ConfidenceClamped(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{
			{Text: "فوق", BBox: box(), Confidence: 1.7},
			{Text: "تحت", BBox: box(), Confidence: -0.2},
		},
	}}
	adapter := NewAdapter(eng)

	page := adapter.RecognizePages(context.Background(), testImages(1), config.Default())[0]
	if page.Lines[0].Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %g", page.Lines[0].Confidence)
	}
	if page.Lines[1].Confidence != 0.0 {
		t.Errorf("Expected confidence clamped to 0.0, got %g", page.Lines[1].Confidence)
	}
}

func TestRecognizePages_MalformedBBox(t *testing.T) {
	eng := &fakeEngine{pages: [][]RawLine{
		{{Text: "نص", BBox: []float64{1, 2, 3}, Confidence: 0.9}},
	}}
	adapter := NewAdapter(eng)

	page := adapter.RecognizePages(context.Background(), testImages(1), config.Default())[0]
	for _, p := range page.Lines[0].BBox {
		if p.X != 0 || p.Y != 0 {
			t.Errorf("Expected zero box for malformed geometry, got %+v", page.Lines[0].BBox)
		}
	}
}

func TestPageConfidence_WeightedByRuneCount(t *testing.T) {
	lines := []models.OCRLine{
		{Text: "مم", Confidence: 0.8}, // 2 runes
		{Text: "م", Confidence: 0.5},       // 1 rune
	}

	got := PageConfidence(lines)
	expected := (0.8*2 + 0.5*1) / 3
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected %g, got %g", expected, got)
	}
}

func TestPageConfidence_Empty(t *testing.T) {
	if got := PageConfidence(nil); got != 0.0 {
		t.Errorf("Expected 0.0 for no lines, got %g", got)
	}
	if got := PageConfidence([]models.OCRLine{{Text: "", Confidence: 0.9}}); got != 0.0 {
		t.Errorf("Expected 0.0 for empty text, got %g", got)
	}
}

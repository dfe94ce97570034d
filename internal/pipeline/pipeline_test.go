package pipeline

import (
	"context"
	"image"
	"math"
	"strings"
	"testing"

	"go-legal-ocr/internal/correct"
	"go-legal-ocr/internal/engine"
	"go-legal-ocr/pkg/config"
)

// stubEngine returns the same lines for every page.
type stubEngine struct {
	lines  []engine.RawLine
	resets int
}

func (s *stubEngine) RecognizeImage(ctx context.Context, img image.Image, cfg config.Config) ([]engine.RawLine, error) {
	if img == nil {
		panic("nil image")
	}
	return s.lines, nil
}

func (s *stubEngine) Reset() error {
	s.resets++
	return nil
}

func whitePage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func quietConfig() config.Config {
	// Geometry stages add nothing on synthetic blanks and slow tests down.
	return config.Default().
		WithResolutionCheck(false).
		WithDeskew(false).
		WithBorderRemoval(false).
		WithContrastEnhancement(false).
		WithPreprocessWorkers(2)
}

func newTestOrchestrator(eng engine.Engine) *Orchestrator {
	return NewOrchestrator(eng, correct.NewDictionary(""), quietConfig())
}

func TestProcessDocument_EndToEnd(t *testing.T) {
	eng := &stubEngine{lines: []engine.RawLine{
		{Text: "محكمة النقض", BBox: []float64{0, 0, 10, 0, 10, 10, 0, 10}, Confidence: 0.9},
	}}
	o := newTestOrchestrator(eng)
	defer o.Close()

	result := o.ProcessDocument(context.Background(), Document{
		Source: "case-7",
		DocID:  "doc-7",
		Images: []image.Image{whitePage(), whitePage()},
	})

	if result.DocID != "doc-7" {
		t.Errorf("Expected doc ID preserved, got %q", result.DocID)
	}
	if result.TotalPages != 2 {
		t.Errorf("Expected 2 pages, got %d", result.TotalPages)
	}
	if !strings.Contains(result.RawText, "محكمة النقض") {
		t.Errorf("Expected recognized text in document, got %q", result.RawText)
	}
	if math.Abs(result.OverallConfidence-0.9) > 1e-9 {
		t.Errorf("Expected confidence 0.9, got %g", result.OverallConfidence)
	}
}

func TestProcessDocument_GeneratesDocID(t *testing.T) {
	eng := &stubEngine{}
	o := newTestOrchestrator(eng)
	defer o.Close()

	result := o.ProcessDocument(context.Background(), Document{
		Images: []image.Image{whitePage()},
	})

	if len(result.DocID) != 8 {
		t.Errorf("Expected 8-character generated doc ID, got %q", result.DocID)
	}
}

func TestProcessDocument_PanicContained(t *testing.T) {
	eng := &stubEngine{}
	o := newTestOrchestrator(eng)
	defer o.Close()

	// A nil page image panics inside recognition; the document must
	// come back as a failed result, not a crash.
	result := o.ProcessDocument(context.Background(), Document{
		DocID:  "bad-doc",
		Images: []image.Image{nil},
	})

	if result.DocID != "bad-doc" {
		t.Errorf("Expected doc ID on failed result, got %q", result.DocID)
	}
	for _, page := range result.Pages {
		if !page.HasErrors {
			t.Error("Expected page-level error containment for nil image")
		}
	}
}

func TestFailedDocument_ZeroPages(t *testing.T) {
	result := failedDocument("case-9", "dead-doc", "processing failed: boom")

	if result.TotalPages != 0 || len(result.Pages) != 0 {
		t.Errorf("Expected zero-page placeholder, got %+v", result)
	}
	if result.OverallConfidence != 0.0 {
		t.Errorf("Expected zero confidence, got %g", result.OverallConfidence)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "processing failed: boom" {
		t.Errorf("Expected failure warning, got %v", result.Warnings)
	}
}

func TestProcessDocument_ConfigOverride(t *testing.T) {
	eng := &stubEngine{lines: []engine.RawLine{
		{Text: "رقم 123", BBox: []float64{0, 0, 10, 0, 10, 10, 0, 10}, Confidence: 0.95},
	}}
	o := newTestOrchestrator(eng)
	defer o.Close()

	override := quietConfig().WithDigitMode(config.DigitsArabicIndic)
	result := o.ProcessDocument(context.Background(), Document{
		DocID:  "digits",
		Images: []image.Image{whitePage()},
		Config: &override,
	})

	if !strings.Contains(result.RawText, "١٢٣") {
		t.Errorf("Expected arabic-indic digits under override, got %q", result.RawText)
	}
}

func TestProcessBatch_Continues(t *testing.T) {
	eng := &stubEngine{lines: []engine.RawLine{
		{Text: "نص", BBox: []float64{0, 0, 10, 0, 10, 10, 0, 10}, Confidence: 0.9},
	}}
	o := newTestOrchestrator(eng)
	defer o.Close()

	results := o.ProcessBatch(context.Background(), []Document{
		{DocID: "ok-1", Images: []image.Image{whitePage()}},
		{DocID: "broken", Images: []image.Image{nil}},
		{DocID: "ok-2", Images: []image.Image{whitePage()}},
	})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].RawText == "" || results[2].RawText == "" {
		t.Error("Expected healthy documents to produce text")
	}
	if results[1].DocID != "broken" {
		t.Errorf("Expected failed document in its slot, got %q", results[1].DocID)
	}
}

func TestReset_ResetsEngine(t *testing.T) {
	eng := &stubEngine{}
	o := newTestOrchestrator(eng)
	defer o.Close()

	if err := o.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if eng.resets != 1 {
		t.Errorf("Expected 1 engine reset, got %d", eng.resets)
	}
}

package engine

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"go-legal-ocr/internal/logger"
	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

// Adapter converts raw engine output into page results with stable
// geometry, clamped confidences and diagnostic warnings. Engine
// failures, including panics, are contained per page so one corrupt
// scan cannot take down a batch.
type Adapter struct {
	engine Engine
}

// NewAdapter wraps an OCR engine.
func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// RecognizePages runs the engine over each page image in order. The
// returned slice always has one entry per input page; a page that
// failed carries HasErrors and an explanatory warning instead of text.
func (a *Adapter) RecognizePages(ctx context.Context, images []image.Image, cfg config.Config) []models.OCRPageResult {
	results := make([]models.OCRPageResult, len(images))
	for i, img := range images {
		results[i] = a.recognizePage(ctx, i+1, img, cfg)
	}
	return results
}

func (a *Adapter) recognizePage(ctx context.Context, pageNumber int, img image.Image, cfg config.Config) (result models.OCRPageResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("page", pageNumber).
				Error(fmt.Sprintf("OCR engine panicked: %v", r))
			result = errorPage(pageNumber, fmt.Sprintf("OCR engine error: %v", r))
		}
	}()

	raw, err := a.engine.RecognizeImage(ctx, img, cfg)
	if err != nil {
		logger.WithError(err).WithField("page", pageNumber).Error("OCR engine failed")
		return errorPage(pageNumber, fmt.Sprintf("OCR engine error: %v", err))
	}

	if len(raw) == 0 {
		return emptyPage(pageNumber, "no text detected on page")
	}

	page := models.OCRPageResult{PageNumber: pageNumber}
	for _, line := range raw {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		confidence := clampConfidence(line.Confidence)
		if confidence < cfg.MediumConfidence {
			page.Warnings = append(page.Warnings,
				fmt.Sprintf("low confidence (%.2f) for: '%.50s'", confidence, text))
		}

		corners := cornerPoints(line.BBox)
		page.Lines = append(page.Lines, models.OCRLine{
			Words:      []models.OCRWord{{Text: text, BBox: corners, Confidence: confidence}},
			Text:       text,
			Confidence: confidence,
			BBox:       corners,
		})
	}

	if len(page.Lines) == 0 {
		return emptyPage(pageNumber, "recognition produced no text")
	}

	var texts []string
	for _, line := range page.Lines {
		texts = append(texts, line.Text)
	}
	page.RawText = strings.Join(texts, "\n")
	page.Confidence = PageConfidence(page.Lines)
	return page
}

// PageConfidence is the mean line confidence weighted by text length,
// so a long confident paragraph outweighs a noisy one-word smudge.
// Pages with no measurable text score zero.
func PageConfidence(lines []models.OCRLine) float64 {
	var confs, weights []float64
	for _, line := range lines {
		n := utf8.RuneCountInString(line.Text)
		if n == 0 {
			continue
		}
		confs = append(confs, line.Confidence)
		weights = append(weights, float64(n))
	}
	if len(confs) == 0 {
		return 0.0
	}
	return stat.Mean(confs, weights)
}

// cornerPoints converts a flat coordinate list into four corner
// points. Anything but exactly four coordinate pairs yields a zero
// box.
func cornerPoints(bbox []float64) [4]models.Point {
	var corners [4]models.Point
	if len(bbox) != 8 {
		return corners
	}
	for i := 0; i < 4; i++ {
		corners[i] = models.Point{X: bbox[2*i], Y: bbox[2*i+1]}
	}
	return corners
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func errorPage(pageNumber int, warning string) models.OCRPageResult {
	return models.OCRPageResult{
		PageNumber: pageNumber,
		Warnings:   []string{warning},
		HasErrors:  true,
	}
}

func emptyPage(pageNumber int, warning string) models.OCRPageResult {
	return models.OCRPageResult{
		PageNumber: pageNumber,
		Warnings:   []string{warning},
	}
}

package engine

import (
	"context"
	"image"

	"go-legal-ocr/pkg/config"
)

// RawLine is a single recognized text line as reported by an OCR
// backend, before any normalization or correction.
type RawLine struct {
	// Text is the recognized content of the line.
	Text string

	// BBox holds the four corner coordinates of the line as
	// [x0 y0 x1 y1 x2 y2 x3 y3], clockwise from the top-left. A
	// backend that cannot produce geometry may leave it empty or
	// malformed; consumers substitute a zero box.
	BBox []float64

	// Confidence is the backend's estimate in [0, 1].
	Confidence float64
}

// Engine abstracts an OCR backend. Implementations are expected to be
// safe for use from a single goroutine; the orchestrator serializes
// calls.
type Engine interface {
	// RecognizeImage detects and recognizes all text lines on one
	// page image.
	RecognizeImage(ctx context.Context, img image.Image, cfg config.Config) ([]RawLine, error)

	// Reset releases backend resources. The engine may be used again
	// after a reset; resources are reacquired lazily.
	Reset() error
}

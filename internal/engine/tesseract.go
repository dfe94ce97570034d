package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"go-legal-ocr/pkg/config"
)

// TesseractEngine recognizes text through a local Tesseract
// installation. The client is created lazily on first use and reused
// across pages; Reset tears it down.
type TesseractEngine struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

// NewTesseractEngine creates an engine that has not yet attached to
// Tesseract. No resources are held until the first recognition call.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{}
}

func (e *TesseractEngine) ensureClient(language string) (*gosseract.Client, error) {
	if e.client != nil && e.language == language {
		return e.client, nil
	}
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting tesseract language %q: %w", language, err)
	}
	e.client = client
	e.language = language
	return client, nil
}

// RecognizeImage runs layout analysis over the page, then recognizes
// each detected line individually so that per-line confidences and
// geometry survive.
func (e *TesseractEngine) RecognizeImage(ctx context.Context, img image.Image, cfg config.Config) ([]RawLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := e.ensureClient(cfg.Language)
	if err != nil {
		return nil, err
	}

	pageBytes, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(pageBytes); err != nil {
		return nil, fmt.Errorf("loading page into tesseract: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("detecting text lines: %w", err)
	}

	lines := make([]RawLine, 0, len(boxes))
	for _, box := range boxes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := e.recognizeLine(client, img, box.Box)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// recognizeLine crops a detected line region and recognizes it in
// single-line mode. Line confidence is the mean of word confidences.
func (e *TesseractEngine) recognizeLine(client *gosseract.Client, img image.Image, region image.Rectangle) (RawLine, error) {
	crop := cropImage(img, region)
	cropBytes, err := encodePNG(crop)
	if err != nil {
		return RawLine{}, err
	}

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return RawLine{}, fmt.Errorf("setting line segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(cropBytes); err != nil {
		return RawLine{}, fmt.Errorf("loading line into tesseract: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return RawLine{}, fmt.Errorf("recognizing line: %w", err)
	}

	confidence := 0.0
	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil && len(words) > 0 {
		var sum float64
		for _, w := range words {
			sum += w.Confidence
		}
		confidence = sum / float64(len(words)) / 100
	}

	x0, y0 := float64(region.Min.X), float64(region.Min.Y)
	x1, y1 := float64(region.Max.X), float64(region.Max.Y)
	return RawLine{
		Text:       text,
		BBox:       []float64{x0, y0, x1, y0, x1, y1, x0, y1},
		Confidence: confidence,
	}, nil
}

// Reset closes the underlying client. A later recognition call will
// reattach.
func (e *TesseractEngine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	e.language = ""
	return err
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

func cropImage(img image.Image, region image.Rectangle) image.Image {
	region = region.Intersect(img.Bounds())
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok && !region.Empty() {
		return s.SubImage(region)
	}
	return img
}

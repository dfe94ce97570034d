package preprocess

import (
	"image"
	"image/draw"
	"math"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"go-legal-ocr/internal/logger"
	"go-legal-ocr/pkg/config"
)

const (
	// a4HeightInches is the reference page height used to estimate DPI
	// when an image carries no resolution metadata.
	a4HeightInches = 11.69

	// maxUpscaleFactor caps how far a low-resolution scan is enlarged.
	maxUpscaleFactor = 3.0

	// minUsefulUpscale skips upscaling when the gain would be marginal.
	minUsefulUpscale = 1.05
)

// Preprocess runs the configured enhancement stages over a scanned page
// and returns the cleaned image. Stages that are disabled in cfg are
// skipped; each stage receives the output of the previous one.
func Preprocess(img image.Image, cfg config.Config) image.Image {
	out := img

	if cfg.EnableResolutionCheck {
		out = checkAndUpscale(out, cfg.MinDPI)
	}
	if cfg.EnableDeskew {
		out = deskew(out)
	}
	if cfg.EnableBorderRemoval {
		out = removeBorders(out)
	}
	if cfg.EnableContrastEnhancement {
		out = enhanceContrast(out)
	}
	if cfg.EnableDenoise {
		out = denoise(out)
	}

	return out
}

// checkAndUpscale estimates the effective DPI of a page scan against an
// A4 reference height and enlarges the image when it falls below the
// configured minimum. The scale factor is capped so extremely small
// thumbnails do not balloon into huge buffers.
func checkAndUpscale(img image.Image, minDPI int) image.Image {
	bounds := img.Bounds()
	height := bounds.Dy()
	if height <= 0 {
		return img
	}

	estimatedDPI := float64(height) / a4HeightInches
	targetDPI := float64(minDPI)
	if estimatedDPI >= targetDPI {
		return img
	}

	factor := targetDPI / estimatedDPI
	if factor > maxUpscaleFactor {
		factor = maxUpscaleFactor
	}
	if factor <= minUsefulUpscale {
		return img
	}

	newW := int(math.Round(float64(bounds.Dx()) * factor))
	newH := int(math.Round(float64(height) * factor))

	logger.WithFields(logrus.Fields{
		"estimated_dpi": estimatedDPI,
		"factor":        factor,
		"new_width":     newW,
		"new_height":    newH,
	}).Debug("Upscaling low-resolution page")

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// toGray converts any image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

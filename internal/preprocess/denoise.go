package preprocess

import (
	"image"
	"image/color"
	"math"
)

const (
	// denoiseStrength controls how aggressively similar patches are
	// averaged together.
	denoiseStrength = 10.0

	denoisePatchSize  = 7
	denoiseWindowSize = 21
)

// denoise smooths sensor and compression noise with a non-local means
// filter over the luma channel, carrying chroma through unchanged the
// same way enhanceContrast does. It is expensive and off by default;
// it only earns its cost on photographed (rather than flatbed) pages.
func denoise(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < denoiseWindowSize || h < denoiseWindowSize {
		return img
	}

	src := make([]float64, w*h)
	cb := make([]uint8, w*h)
	cr := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			yy, ycb, ycr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			src[y*w+x] = float64(yy)
			cb[y*w+x] = ycb
			cr[y*w+x] = ycr
		}
	}

	halfPatch := denoisePatchSize / 2
	halfWindow := denoiseWindowSize / 2
	h2 := denoiseStrength * denoiseStrength

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, weightSum float64

			y0, y1 := max(y-halfWindow, halfPatch), min(y+halfWindow, h-1-halfPatch)
			x0, x1 := max(x-halfWindow, halfPatch), min(x+halfWindow, w-1-halfPatch)

			for ny := y0; ny <= y1; ny++ {
				for nx := x0; nx <= x1; nx++ {
					d := patchDistance(src, w, h, x, y, nx, ny, halfPatch)
					wgt := math.Exp(-d / h2)
					sum += wgt * src[ny*w+nx]
					weightSum += wgt
				}
			}

			i := y*w + x
			v := src[i]
			if weightSum > 0 {
				v = sum / weightSum
			}
			r, g, b := color.YCbCrToRGB(uint8(v+0.5), cb[i], cr[i])
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return dst
}

// patchDistance is the mean squared difference between two patches,
// clamped at the image edges.
func patchDistance(src []float64, w, h, x1, y1, x2, y2, half int) float64 {
	var sum float64
	n := 0
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			ay, ax := y1+dy, x1+dx
			by, bx := y2+dy, x2+dx
			if ay < 0 || ay >= h || ax < 0 || ax >= w || by < 0 || by >= h || bx < 0 || bx >= w {
				continue
			}
			d := src[ay*w+ax] - src[by*w+bx]
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

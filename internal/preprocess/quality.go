package preprocess

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"
)

const (
	// blurVarianceThreshold is the Laplacian variance below which a
	// page is flagged as blurry.
	blurVarianceThreshold = 100.0

	darkBrightnessThreshold   = 80.0
	brightBrightnessThreshold = 220.0
)

// Report summarizes scan quality measurements for a single page.
type Report struct {
	LaplacianVar float64 `json:"laplacian_var"`
	Brightness   float64 `json:"brightness"`
	Blurry       bool    `json:"blurry"`
	TooDark      bool    `json:"too_dark"`
	TooBright    bool    `json:"too_bright"`
}

// Assess measures sharpness and exposure of a page scan. The Laplacian
// variance is a standard focus measure: crisp text produces strong
// second derivatives at glyph edges, defocused text does not.
func Assess(img image.Image) Report {
	gray := toGray(img)
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pixels := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			pixels = append(pixels, float64(row[x]))
		}
	}
	if len(pixels) == 0 {
		return Report{}
	}

	lap := make([]float64, 0, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := pixels[y*w+x]
			v := pixels[(y-1)*w+x] + pixels[(y+1)*w+x] + pixels[y*w+x-1] + pixels[y*w+x+1] - 4*c
			lap = append(lap, v)
		}
	}

	report := Report{
		Brightness: stat.Mean(pixels, nil),
	}
	if len(lap) > 1 {
		report.LaplacianVar = stat.Variance(lap, nil)
	}

	report.Blurry = report.LaplacianVar < blurVarianceThreshold
	report.TooDark = report.Brightness < darkBrightnessThreshold
	report.TooBright = report.Brightness > brightBrightnessThreshold

	return report
}

// Warnings renders human-readable warnings for the page, or nil when
// the scan looks fine.
func (r Report) Warnings(pageNumber int) []string {
	var warnings []string
	if r.Blurry {
		warnings = append(warnings, fmt.Sprintf("page %d appears blurry (focus measure %.1f)", pageNumber, r.LaplacianVar))
	}
	if r.TooDark {
		warnings = append(warnings, fmt.Sprintf("page %d is underexposed (brightness %.1f)", pageNumber, r.Brightness))
	}
	if r.TooBright {
		warnings = append(warnings, fmt.Sprintf("page %d is overexposed (brightness %.1f)", pageNumber, r.Brightness))
	}
	return warnings
}

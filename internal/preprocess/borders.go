package preprocess

import (
	"image"
	"image/draw"

	"github.com/sirupsen/logrus"

	"go-legal-ocr/internal/logger"
)

const (
	// borderBinarizeThreshold separates page content from the dark
	// scanner bed in the inverted image.
	borderBinarizeThreshold = 64

	// minContentAreaRatio is the fraction of the frame the detected
	// content region must cover before cropping is trusted.
	minContentAreaRatio = 0.5

	// borderPadding keeps a small margin around the cropped content.
	borderPadding = 5
)

// removeBorders crops away dark scanner borders by locating the
// largest bright connected region and keeping a padded bounding box
// around it. If the region covers less than half the frame the crop is
// considered unreliable and the image is returned unchanged.
func removeBorders(img image.Image) image.Image {
	gray := toGray(img)
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}

	// Bright pixels (paper) become foreground.
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			mask[y*w+x] = 255-row[x] < borderBinarizeThreshold
		}
	}

	rect, area := largestComponentRect(mask, w, h)
	if area == 0 {
		return img
	}
	if float64(rect.Dx()*rect.Dy()) < minContentAreaRatio*float64(w*h) {
		return img
	}

	x0 := rect.Min.X - borderPadding
	y0 := rect.Min.Y - borderPadding
	x1 := rect.Max.X + borderPadding
	y1 := rect.Max.Y + borderPadding
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	if x0 == 0 && y0 == 0 && x1 == w && y1 == h {
		return img
	}

	logger.WithFields(logrus.Fields{
		"crop_width":  x1 - x0,
		"crop_height": y1 - y0,
	}).Debug("Cropping scanner borders")

	crop := image.Rect(x0, y0, x1, y1).Add(bounds.Min)
	dst := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(dst, dst.Bounds(), img, crop.Min, draw.Src)
	return dst
}

// largestComponentRect finds the bounding box of the largest
// 4-connected foreground component in the mask and that component's
// pixel count.
func largestComponentRect(mask []bool, w, h int) (image.Rectangle, int) {
	visited := make([]bool, len(mask))
	queue := make([]int, 0, 1024)

	var best image.Rectangle
	bestCount := 0

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}

		visited[start] = true
		queue = append(queue[:0], start)
		count := 0
		minX, minY := w, h
		maxX, maxY := 0, 0

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			count++

			x, y := idx%w, idx/w
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			if x > 0 && mask[idx-1] && !visited[idx-1] {
				visited[idx-1] = true
				queue = append(queue, idx-1)
			}
			if x < w-1 && mask[idx+1] && !visited[idx+1] {
				visited[idx+1] = true
				queue = append(queue, idx+1)
			}
			if y > 0 && mask[idx-w] && !visited[idx-w] {
				visited[idx-w] = true
				queue = append(queue, idx-w)
			}
			if y < h-1 && mask[idx+w] && !visited[idx+w] {
				visited[idx+w] = true
				queue = append(queue, idx+w)
			}
		}

		if count > bestCount {
			bestCount = count
			best = image.Rect(minX, minY, maxX+1, maxY+1)
		}
	}

	return best, bestCount
}

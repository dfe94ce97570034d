package preprocess

import (
	"image"
	"image/color"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"go-legal-ocr/internal/logger"
)

const (
	// darkThreshold separates ink pixels from paper for skew estimation.
	darkThreshold = 128

	// minDarkPixels is the minimum ink mass required before a skew
	// estimate is considered meaningful.
	minDarkPixels = 50

	// maxCorrectableSkew bounds the rotation applied during deskew.
	// Larger angles usually indicate a landscape scan or a detection
	// failure, not genuine skew.
	maxCorrectableSkew = 15.0

	// minCorrectableSkew avoids resampling for imperceptible tilts.
	minCorrectableSkew = 0.1
)

type point struct {
	x, y float64
}

// deskew estimates the dominant text angle from the minimum-area
// rectangle around dark pixels and rotates the page upright. Blank or
// nearly blank pages are returned unchanged.
func deskew(img image.Image) image.Image {
	gray := toGray(img)
	pts := darkPoints(gray)
	if len(pts) < minDarkPixels {
		return img
	}

	hull := convexHull(pts)
	if len(hull) < 3 {
		return img
	}

	angle := normalizeSkewAngle(minAreaRectAngle(hull))
	abs := math.Abs(angle)
	if abs > maxCorrectableSkew || abs < minCorrectableSkew {
		return img
	}

	logger.WithField("angle", angle).Debug("Correcting page skew")

	return rotateExpand(img, -angle)
}

// darkPoints collects coordinates of ink pixels.
func darkPoints(gray *image.Gray) []point {
	bounds := gray.Bounds()
	pts := make([]point, 0, 1024)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := gray.Pix[(y-bounds.Min.Y)*gray.Stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if row[x-bounds.Min.X] < darkThreshold {
				pts = append(pts, point{float64(x), float64(y)})
			}
		}
	}
	return pts
}

func cross(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

// convexHull computes the convex hull with the monotone chain
// algorithm. The result is in counter-clockwise order without the
// repeated endpoint.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}

	sorted := make([]point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x != sorted[j].x {
			return sorted[i].x < sorted[j].x
		}
		return sorted[i].y < sorted[j].y
	})

	hull := make([]point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// minAreaRectAngle finds the orientation of the minimum-area bounding
// rectangle of a convex hull using rotating calipers over hull edges.
// The returned angle is in degrees.
func minAreaRectAngle(hull []point) float64 {
	bestArea := math.Inf(1)
	bestAngle := 0.0

	for i := 0; i < len(hull); i++ {
		j := (i + 1) % len(hull)
		edge := point{hull[j].x - hull[i].x, hull[j].y - hull[i].y}
		length := math.Hypot(edge.x, edge.y)
		if length == 0 {
			continue
		}

		ux, uy := edge.x/length, edge.y/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.x*ux + p.y*uy
			v := -p.x*uy + p.y*ux
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestAngle = math.Atan2(uy, ux) * 180 / math.Pi
		}
	}

	return bestAngle
}

// normalizeSkewAngle maps a rectangle orientation into (-45, 45] so
// that it represents the smallest rotation back to horizontal.
func normalizeSkewAngle(angle float64) float64 {
	a := math.Mod(angle, 90)
	if a > 45 {
		a -= 90
	} else if a <= -45 {
		a += 90
	}
	return a
}

// rotateExpand rotates an image by the given angle in degrees around
// its center, expanding the canvas so no content is clipped. Exposed
// regions are filled with white to match paper background.
func rotateExpand(img image.Image, degrees float64) image.Image {
	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	absSin, absCos := math.Abs(sin), math.Abs(cos)

	newW := int(math.Ceil(w*absCos + h*absSin))
	newH := int(math.Ceil(w*absSin + h*absCos))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	cx := w/2 + float64(bounds.Min.X)
	cy := h/2 + float64(bounds.Min.Y)
	ncx := float64(newW) / 2
	ncy := float64(newH) / 2

	m := f64.Aff3{
		cos, -sin, ncx - cos*cx + sin*cy,
		sin, cos, ncy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, m, img, bounds, xdraw.Over, nil)
	return dst
}

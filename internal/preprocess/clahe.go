package preprocess

import (
	"image"
	"image/color"
)

const (
	// claheClipLimit caps per-bin histogram counts relative to the
	// uniform level before equalization.
	claheClipLimit = 2.0

	claheTilesX = 8
	claheTilesY = 8
)

// enhanceContrast applies contrast-limited adaptive histogram
// equalization to the luma channel, leaving chroma untouched. Faded
// stamps and light pencil annotations become legible without blowing
// out already dark ink.
func enhanceContrast(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < claheTilesX || h < claheTilesY {
		return img
	}

	// Split into luma plus chroma so equalization does not shift hue.
	luma := make([]uint8, w*h)
	cb := make([]uint8, w*h)
	cr := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			yy, ycb, ycr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			luma[y*w+x] = yy
			cb[y*w+x] = ycb
			cr[y*w+x] = ycr
		}
	}

	luts := buildTileLUTs(luma, w, h)
	equalized := applyTileLUTs(luma, w, h, luts)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, b := color.YCbCrToRGB(equalized[i], cb[i], cr[i])
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return dst
}

// buildTileLUTs computes one clipped-equalization lookup table per
// tile of the luma plane.
func buildTileLUTs(luma []uint8, w, h int) [][256]uint8 {
	tileW := (w + claheTilesX - 1) / claheTilesX
	tileH := (h + claheTilesY - 1) / claheTilesY

	luts := make([][256]uint8, claheTilesX*claheTilesY)
	for ty := 0; ty < claheTilesY; ty++ {
		for tx := 0; tx < claheTilesX; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}

			var hist [256]int
			total := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[luma[y*w+x]]++
					total++
				}
			}
			if total == 0 {
				continue
			}

			// Clip the histogram and redistribute the excess evenly.
			clip := int(claheClipLimit * float64(total) / 256)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			share := excess / 256
			for i := range hist {
				hist[i] += share
			}

			cdf := 0
			lut := &luts[ty*claheTilesX+tx]
			for i := 0; i < 256; i++ {
				cdf += hist[i]
				lut[i] = uint8(255 * cdf / total)
			}
		}
	}
	return luts
}

// applyTileLUTs maps each pixel through the four surrounding tile
// LUTs with bilinear interpolation, avoiding visible tile seams.
func applyTileLUTs(luma []uint8, w, h int, luts [][256]uint8) []uint8 {
	tileW := (w + claheTilesX - 1) / claheTilesX
	tileH := (h + claheTilesY - 1) / claheTilesY

	out := make([]uint8, len(luma))
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(fy)
		if fy < 0 {
			ty0 = 0
			fy = 0
		}
		ty1 := ty0 + 1
		if ty1 >= claheTilesY {
			ty1 = claheTilesY - 1
		}
		if ty0 >= claheTilesY {
			ty0 = claheTilesY - 1
		}
		wy := fy - float64(ty0)
		if ty0 == ty1 {
			wy = 0
		}

		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(fx)
			if fx < 0 {
				tx0 = 0
				fx = 0
			}
			tx1 := tx0 + 1
			if tx1 >= claheTilesX {
				tx1 = claheTilesX - 1
			}
			if tx0 >= claheTilesX {
				tx0 = claheTilesX - 1
			}
			wx := fx - float64(tx0)
			if tx0 == tx1 {
				wx = 0
			}

			v := luma[y*w+x]
			tl := float64(luts[ty0*claheTilesX+tx0][v])
			tr := float64(luts[ty0*claheTilesX+tx1][v])
			bl := float64(luts[ty1*claheTilesX+tx0][v])
			br := float64(luts[ty1*claheTilesX+tx1][v])

			top := tl + (tr-tl)*wx
			bottom := bl + (br-bl)*wx
			out[y*w+x] = uint8(top + (bottom-top)*wy + 0.5)
		}
	}
	return out
}

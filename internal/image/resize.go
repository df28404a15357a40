package image

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// MaxDimension is the longest side an image is scaled to before sampling.
const MaxDimension = 480

// FitSize scales w x h so the longer side is at most maxDim, keeping the
// aspect ratio. Sizes already within bounds are returned unchanged.
func FitSize(w, h, maxDim int) (int, int) {
	if max(w, h) <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, int(math.Round(float64(h) * float64(maxDim) / float64(w)))
	}
	return int(math.Round(float64(w) * float64(maxDim) / float64(h))), maxDim
}

// Downscale returns img scaled to fit within maxDim on its longer side.
// The result is always an *image.NRGBA anchored at the origin, so its Pix
// slice is a row-major RGBA buffer.
func Downscale(img image.Image, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxDim)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// PixelBuffer flattens img into non-premultiplied RGBA bytes in row-major
// order, four bytes per pixel. The result may share memory with img.
func PixelBuffer(img image.Image) []uint8 {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == 4*b.Dx() {
		return n.Pix[:4*b.Dx()*b.Dy()]
	}

	buf := make([]uint8, 0, 4*b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}

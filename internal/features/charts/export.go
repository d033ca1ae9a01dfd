package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// TightBounds returns the smallest rectangle holding every pixel that differs
// from bg, grown by pad pixels and clipped to the image. A blank image keeps
// its full bounds.
func TightBounds(img image.Image, bg color.Color, pad int) image.Rectangle {
	b := img.Bounds()
	br, bgc, bb, ba := bg.RGBA()

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bgc && bl == bb && a == ba {
				continue
			}
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
		}
	}
	if maxX < minX {
		return b
	}

	return image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad).Intersect(b)
}

// Resize scales the sr region of src to a size x size image with Catmull-Rom
// resampling.
func Resize(src image.Image, sr image.Rectangle, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)
	return dst
}

// EncodePNG encodes img at best compression.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Export crops the rendered figure to its content, resizes it to the final
// square size and encodes it.
func Export(img image.Image, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	pad := int(opts.Theme.FigurePadPt * opts.DPI / 72)

	bounds := TightBounds(img, opts.Theme.Background, pad)
	resized := Resize(img, bounds, opts.Size)
	return EncodePNG(resized)
}

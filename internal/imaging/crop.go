package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/pkg/errors"
)

// Crop copies a rectangular region out of img.
//
// The copy is sample-exact: variant, depth and max-value are kept and no
// resampling takes place.
func Crop(img *netpbm.Image, r Region) (*netpbm.Image, error) {
	if err := r.validate(img); err != nil {
		return nil, errors.Wrap(err, "invalid crop region")
	}

	out := netpbm.NewImage(img.Variant, img.Depth, r.X2-r.X1, r.Y2-r.Y1)
	out.MaxValue = img.MaxValue

	bpp := img.Channels() * img.Depth.BytesPerSample()
	srcStride := img.Stride()
	dstStride := out.Stride()
	for y := 0; y < out.Height; y++ {
		src := img.Pix[(r.Y1+y)*srcStride+r.X1*bpp:]
		copy(out.Pix[y*dstStride:(y+1)*dstStride], src[:dstStride])
	}
	return out, nil
}

// CropQuadrant crops a named region: top-left, top-right, bottom-left,
// bottom-right, top-half, bottom-half, left-half, right-half or center (the
// middle 50% in each direction).
func CropQuadrant(img *netpbm.Image, region string) (*netpbm.Image, error) {
	w := img.Width
	h := img.Height
	midX := w / 2
	midY := h / 2

	var r Region
	switch region {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		qW := w / 4
		qH := h / 4
		r = Region{qW, qH, w - qW, h - qH}
	default:
		return nil, errors.Errorf("unknown region: %s", region)
	}

	return Crop(img, r)
}

// Resize scales img to width x height. A zero width or height keeps the
// aspect ratio.
//
// Bitmaps are resized with nearest-neighbour sampling so they stay black and
// white; other variants use Lanczos. Resampling works on 8-bit channels, so a
// 16-bit result carries 8 bits of precision and the result's max-value is the
// depth's full range.
func Resize(img *netpbm.Image, width, height int) (*netpbm.Image, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, errors.Errorf("invalid size %dx%d", width, height)
	}

	filter := imaging.Lanczos
	if img.Variant == netpbm.Bitmap {
		filter = imaging.NearestNeighbor
	}
	resized := imaging.Resize(img, width, height, filter)
	return netpbm.FromImage(resized, img.Variant, img.Depth), nil
}

// Transform operations accepted by Transform.
const (
	FlipHorizontal = "flip_h"
	FlipVertical   = "flip_v"
	Rotate90       = "rotate90"
	Rotate180      = "rotate180"
	Rotate270      = "rotate270"
	Transpose      = "transpose"
)

// maxIndexPixels is the largest image an index map can address.
const maxIndexPixels = 1 << 24

// Transform flips or rotates img. Rotations are counter-clockwise.
//
// The geometry is computed by disintegration/imaging on an index map, one
// pixel per source pixel holding its position, and the samples are then
// copied by index. Every variant and depth therefore comes through unchanged.
func Transform(img *netpbm.Image, op string) (*netpbm.Image, error) {
	var fn func(image.Image) *image.NRGBA
	switch op {
	case FlipHorizontal:
		fn = imaging.FlipH
	case FlipVertical:
		fn = imaging.FlipV
	case Rotate90:
		fn = imaging.Rotate90
	case Rotate180:
		fn = imaging.Rotate180
	case Rotate270:
		fn = imaging.Rotate270
	case Transpose:
		fn = imaging.Transpose
	default:
		return nil, errors.Errorf("unknown transform: %s", op)
	}
	if img.Width*img.Height > maxIndexPixels {
		return nil, errors.Errorf("image too large to transform: %dx%d", img.Width, img.Height)
	}

	moved := fn(indexMap(img.Width, img.Height))
	b := moved.Bounds()

	out := netpbm.NewImage(img.Variant, img.Depth, b.Dx(), b.Dy())
	out.MaxValue = img.MaxValue
	bpp := img.Channels() * img.Depth.BytesPerSample()
	for i := 0; i < b.Dx()*b.Dy(); i++ {
		p := moved.Pix[i*4:]
		src := int(p[0])<<16 | int(p[1])<<8 | int(p[2])
		copy(out.Pix[i*bpp:(i+1)*bpp], img.Pix[src*bpp:(src+1)*bpp])
	}
	return out, nil
}

// indexMap returns an opaque image whose pixel at (x, y) encodes y*width+x in
// its red, green and blue channels, high byte first.
func indexMap(width, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		m.Pix[i*4] = uint8(i >> 16)
		m.Pix[i*4+1] = uint8(i >> 8)
		m.Pix[i*4+2] = uint8(i)
		m.Pix[i*4+3] = 0xff
	}
	return m
}

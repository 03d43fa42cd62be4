package netpbm

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Image is a decoded netpbm raster.
type Image struct {
	Width   int
	Height  int
	Variant Variant
	Depth   Depth

	// MaxValue is the header max-value the samples are relative to. Zero means
	// the depth's maximum (255 or 65535). It is ignored for bitmaps.
	MaxValue int

	// Pix holds Width*Height*Channels samples in row-major order, two bytes
	// high byte first per sample when Depth is Sixteen. Bitmap samples are one
	// byte each, 1 for black and 0 for white.
	Pix []byte
}

// NewImage allocates a zeroed image. Bitmaps are always Eight.
func NewImage(v Variant, d Depth, width, height int) *Image {
	if v == Bitmap {
		d = Eight
	}
	img := &Image{Width: width, Height: height, Variant: v, Depth: d}
	img.Pix = make([]byte, img.expectedLen())
	return img
}

// Channels returns the number of samples per pixel.
func (img *Image) Channels() int {
	return img.Variant.Channels()
}

// Stride returns the number of bytes in one row of Pix.
func (img *Image) Stride() int {
	return img.Width * img.Channels() * img.Depth.BytesPerSample()
}

func (img *Image) expectedLen() int {
	return img.Stride() * img.Height
}

// Max returns the value a full-intensity sample has.
func (img *Image) Max() int {
	if img.Variant == Bitmap {
		return 1
	}
	if img.MaxValue > 0 {
		return img.MaxValue
	}
	return img.Depth.MaxValue()
}

// Validate checks the image invariants Encode relies on.
func (img *Image) Validate() error {
	if !img.Variant.valid() {
		return errors.Wrapf(ErrUnsupportedType, "variant %d", img.Variant)
	}
	if img.Width < 0 || img.Height < 0 {
		return errors.Wrapf(ErrHeaderValue, "dimensions %dx%d", img.Width, img.Height)
	}
	if img.Variant == Bitmap && img.Depth != Eight {
		return errors.Wrap(ErrPixelCount, "bitmaps hold one byte per pixel")
	}
	if want := img.expectedLen(); len(img.Pix) != want {
		return errors.Wrapf(ErrPixelCount, "have %d bytes, want %d", len(img.Pix), want)
	}
	if img.Variant != Bitmap && img.MaxValue != 0 {
		if img.MaxValue < 0 || img.MaxValue > 65535 || depthForMaxValue(img.MaxValue) != img.Depth {
			return errors.Wrapf(ErrBadMaxValue, "%d with %s samples", img.MaxValue, img.Depth)
		}
	}
	return nil
}

// Header returns the header that describes img in the given mode.
func (img *Image) Header(m Mode) Header {
	mv := 1
	if img.Variant != Bitmap {
		mv = img.Max()
	}
	return Header{
		Width:    img.Width,
		Height:   img.Height,
		MaxValue: mv,
		Variant:  img.Variant,
		Mode:     m,
		Depth:    img.Depth,
	}
}

func (img *Image) offset(x, y, c int) int {
	return ((y*img.Width+x)*img.Channels() + c) * img.Depth.BytesPerSample()
}

// Sample returns channel c of the pixel at (x, y).
func (img *Image) Sample(x, y, c int) uint16 {
	i := img.offset(x, y, c)
	if img.Depth == Sixteen {
		return uint16(img.Pix[i])<<8 | uint16(img.Pix[i+1])
	}
	return uint16(img.Pix[i])
}

// SetSample stores channel c of the pixel at (x, y).
func (img *Image) SetSample(x, y, c int, v uint16) {
	i := img.offset(x, y, c)
	if img.Depth == Sixteen {
		img.Pix[i] = byte(v >> 8)
		img.Pix[i+1] = byte(v)
		return
	}
	img.Pix[i] = byte(v)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	out := *img
	out.Pix = append([]byte(nil), img.Pix...)
	return &out
}

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model {
	switch {
	case img.Variant == Pixmap && img.Depth == Sixteen:
		return color.RGBA64Model
	case img.Variant == Pixmap:
		return color.RGBAModel
	case img.Depth == Sixteen:
		return color.Gray16Model
	}
	return color.GrayModel
}

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// At implements image.Image. Samples are scaled from the image's max-value to
// the full range of the returned color.
func (img *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return img.ColorModel().Convert(color.Transparent)
	}
	top := uint32(img.Max())
	switch img.Variant {
	case Bitmap:
		if img.Pix[y*img.Width+x] != 0 {
			return color.Gray{Y: 0}
		}
		return color.Gray{Y: 0xff}
	case Graymap:
		v := uint32(img.Sample(x, y, 0))
		if img.Depth == Sixteen {
			return color.Gray16{Y: uint16(rescale(v, top, 0xffff))}
		}
		return color.Gray{Y: uint8(rescale(v, top, 0xff))}
	}
	r := uint32(img.Sample(x, y, 0))
	g := uint32(img.Sample(x, y, 1))
	b := uint32(img.Sample(x, y, 2))
	if img.Depth == Sixteen {
		return color.RGBA64{
			R: uint16(rescale(r, top, 0xffff)),
			G: uint16(rescale(g, top, 0xffff)),
			B: uint16(rescale(b, top, 0xffff)),
			A: 0xffff,
		}
	}
	return color.RGBA{
		R: uint8(rescale(r, top, 0xff)),
		G: uint8(rescale(g, top, 0xff)),
		B: uint8(rescale(b, top, 0xff)),
		A: 0xff,
	}
}

// rescale maps v from [0, from] to [0, to], rounding to nearest and clamping
// samples that exceed from.
func rescale(v, from, to uint32) uint32 {
	if from == to {
		return v
	}
	if v >= from {
		return to
	}
	return uint32((uint64(v)*uint64(to) + uint64(from)/2) / uint64(from))
}

// FromImage converts any image into a netpbm image of the given variant and
// depth. Bitmap pixels darker than mid-gray become 1.
func FromImage(src image.Image, v Variant, d Depth) *Image {
	b := src.Bounds()
	img := NewImage(v, d, b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			switch v {
			case Bitmap:
				if color.GrayModel.Convert(c).(color.Gray).Y < 0x80 {
					img.Pix[y*img.Width+x] = 1
				}
			case Graymap:
				g := color.Gray16Model.Convert(c).(color.Gray16)
				img.SetSample(x, y, 0, narrow(g.Y, img.Depth))
			case Pixmap:
				n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				img.SetSample(x, y, 0, narrow(n.R, img.Depth))
				img.SetSample(x, y, 1, narrow(n.G, img.Depth))
				img.SetSample(x, y, 2, narrow(n.B, img.Depth))
			}
		}
	}
	return img
}

func narrow(v uint16, d Depth) uint16 {
	if d == Eight {
		return v >> 8
	}
	return v
}

// ConvertDepth returns a copy of img with samples rescaled to d. The result's
// MaxValue is the full range of d. Bitmaps are copied unchanged.
func (img *Image) ConvertDepth(d Depth) *Image {
	if img.Variant == Bitmap {
		return img.Clone()
	}
	out := NewImage(img.Variant, d, img.Width, img.Height)
	from := uint32(img.Max())
	to := uint32(d.MaxValue())
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			for c := 0; c < img.Channels(); c++ {
				v := rescale(uint32(img.Sample(x, y, c)), from, to)
				out.SetSample(x, y, c, uint16(v))
			}
		}
	}
	return out
}

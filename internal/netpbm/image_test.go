package netpbm

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lmittmann/ppm"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name    string
		v       Variant
		d       Depth
		wantLen int
	}{
		{"bitmap", Bitmap, Eight, 12},
		{"bitmap ignores 16-bit", Bitmap, Sixteen, 12},
		{"graymap 16-bit", Graymap, Sixteen, 24},
		{"pixmap", Pixmap, Eight, 36},
		{"pixmap 16-bit", Pixmap, Sixteen, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(tt.v, tt.d, 4, 3)
			if len(img.Pix) != tt.wantLen {
				t.Errorf("len(Pix): got %d, want %d", len(img.Pix), tt.wantLen)
			}
			if err := img.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestSampleAccessors(t *testing.T) {
	img := NewImage(Pixmap, Sixteen, 2, 2)
	img.SetSample(1, 1, 2, 0xabcd)
	if got := img.Sample(1, 1, 2); got != 0xabcd {
		t.Errorf("Sample: got %#x, want 0xabcd", got)
	}
	// Last sample of a 2x2 16-bit pixmap is at bytes 22 and 23.
	if img.Pix[22] != 0xab || img.Pix[23] != 0xcd {
		t.Errorf("bytes: got %#x %#x, want big endian", img.Pix[22], img.Pix[23])
	}
}

func TestImageAt(t *testing.T) {
	t.Run("bitmap", func(t *testing.T) {
		img := NewImage(Bitmap, Eight, 2, 1)
		img.Pix[0] = 1
		if got := img.At(0, 0); got != (color.Gray{Y: 0}) {
			t.Errorf("set pixel: got %v, want black", got)
		}
		if got := img.At(1, 0); got != (color.Gray{Y: 0xff}) {
			t.Errorf("clear pixel: got %v, want white", got)
		}
	})

	t.Run("graymap scales by max value", func(t *testing.T) {
		img := NewImage(Graymap, Eight, 3, 1)
		img.MaxValue = 15
		copy(img.Pix, []byte{0, 15, 5})
		want := []color.Gray{{Y: 0}, {Y: 255}, {Y: 85}}
		for x, w := range want {
			if got := img.At(x, 0); got != w {
				t.Errorf("At(%d, 0): got %v, want %v", x, got, w)
			}
		}
	})

	t.Run("pixmap 16-bit", func(t *testing.T) {
		img := NewImage(Pixmap, Sixteen, 1, 1)
		img.SetSample(0, 0, 0, 0xffff)
		img.SetSample(0, 0, 2, 0x1234)
		want := color.RGBA64{R: 0xffff, G: 0, B: 0x1234, A: 0xffff}
		if got := img.At(0, 0); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		img := NewImage(Pixmap, Eight, 1, 1)
		if got := img.At(5, 5); got != (color.RGBA{}) {
			t.Errorf("got %v, want zero color", got)
		}
	})
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.Set(10, 10, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	src.Set(11, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	t.Run("pixmap", func(t *testing.T) {
		img := FromImage(src, Pixmap, Eight)
		if diff := cmp.Diff([]byte{200, 100, 50, 255, 255, 255}, img.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pixmap 16-bit", func(t *testing.T) {
		img := FromImage(src, Pixmap, Sixteen)
		if got := img.Sample(0, 0, 0); got != 200*0x101 {
			t.Errorf("red: got %d, want %d", got, 200*0x101)
		}
	})

	t.Run("bitmap", func(t *testing.T) {
		img := FromImage(src, Bitmap, Eight)
		if diff := cmp.Diff([]byte{1, 0}, img.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("through image.Image and back", func(t *testing.T) {
		orig := shapeImage(t, shapes[2], Pixmap, Eight)
		back := FromImage(orig, Pixmap, Eight)
		back.MaxValue = orig.MaxValue
		if diff := cmp.Diff(orig, back); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestConvertDepth(t *testing.T) {
	img := NewImage(Graymap, Eight, 3, 1)
	copy(img.Pix, []byte{0, 128, 255})

	wide := img.ConvertDepth(Sixteen)
	if wide.MaxValue != 0 && wide.MaxValue != 65535 {
		t.Errorf("MaxValue: got %d", wide.MaxValue)
	}
	want := []uint16{0, 128 * 257, 65535}
	for x, w := range want {
		if got := wide.Sample(x, 0, 0); got != w {
			t.Errorf("Sample(%d): got %d, want %d", x, got, w)
		}
	}

	narrow := wide.ConvertDepth(Eight)
	if diff := cmp.Diff(img.Pix, narrow.Pix); diff != "" {
		t.Errorf("narrowing mismatch (-want +got):\n%s", diff)
	}
}

func TestImageDecodeRegistered(t *testing.T) {
	for _, m := range []Mode{ASCII, Binary} {
		src := shapeImage(t, shapes[1], Graymap, Eight)
		data, err := Encode(src, m)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		got, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: image.Decode failed: %v", m, err)
		}
		if format != "pgm" {
			t.Errorf("format: got %q, want pgm", format)
		}
		if got.Bounds() != src.Bounds() {
			t.Errorf("bounds: got %v, want %v", got.Bounds(), src.Bounds())
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: image.DecodeConfig failed: %v", m, err)
		}
		if format != "pgm" || cfg.Width != 10 || cfg.Height != 9 || cfg.ColorModel != color.GrayModel {
			t.Errorf("config: got %q %dx%d %v", format, cfg.Width, cfg.Height, cfg.ColorModel)
		}
	}
}

func TestPixmapInterop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 50), G: uint8(y * 80), B: uint8(x + y), A: 255})
		}
	}

	t.Run("decode foreign encoding", func(t *testing.T) {
		var buf bytes.Buffer
		if err := ppm.Encode(&buf, src); err != nil {
			t.Fatalf("ppm.Encode failed: %v", err)
		}
		img, err := Decode(buf.Bytes())
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(FromImage(src, Pixmap, Eight).Pix, img.Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("foreign decoder reads ours", func(t *testing.T) {
		data, err := Encode(FromImage(src, Pixmap, Eight), Binary)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := ppm.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ppm.Decode failed: %v", err)
		}
		if diff := cmp.Diff(src.Pix, got.(*image.RGBA).Pix); diff != "" {
			t.Errorf("pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("foreign encoder accepts our image", func(t *testing.T) {
		img := FromImage(src, Pixmap, Eight)
		var buf bytes.Buffer
		if err := ppm.Encode(&buf, img); err != nil {
			t.Fatalf("ppm.Encode failed: %v", err)
		}
		want, err := Encode(img, Binary)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
			t.Errorf("encoding mismatch (-want +got):\n%s", diff)
		}
	})
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
)

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		name string
		want imaging.Format
	}{
		{"png", imaging.PNG},
		{".JPG", imaging.JPEG},
		{"jpeg", imaging.JPEG},
		{"gif", imaging.GIF},
		{"tif", imaging.TIFF},
		{"bmp", imaging.BMP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExportFormat(tt.name)
			if err != nil {
				t.Fatalf("ParseExportFormat failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, name := range []string{"pgm", "webp", ""} {
		if _, err := ParseExportFormat(name); err == nil {
			t.Errorf("ParseExportFormat(%q) should fail", name)
		}
	}
}

func TestExport_Formats(t *testing.T) {
	img := patternPixmap(40, 30)

	for _, format := range []imaging.Format{imaging.PNG, imaging.JPEG, imaging.GIF, imaging.BMP, imaging.TIFF} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Export(&buf, img, format, ExportOptions{}); err != nil {
				t.Fatalf("Export failed: %v", err)
			}

			decoded, err := imaging.Decode(&buf)
			if err != nil {
				t.Fatalf("failed to decode export: %v", err)
			}
			if b := decoded.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
				t.Errorf("dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
			}
		})
	}
}

func TestExport_PNGKeeps16Bit(t *testing.T) {
	img := netpbm.NewImage(netpbm.Graymap, netpbm.Sixteen, 2, 1)
	img.SetSample(0, 0, 0, 0x1234)

	var buf bytes.Buffer
	if err := Export(&buf, img, imaging.PNG, ExportOptions{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	gray, ok := decoded.(*image.Gray16)
	if !ok {
		t.Fatalf("decoded type: got %T, want *image.Gray16", decoded)
	}
	if got := gray.Gray16At(0, 0).Y; got != 0x1234 {
		t.Errorf("sample: got %#x, want 0x1234", got)
	}
}

func TestExport_BitmapColors(t *testing.T) {
	img := netpbm.NewImage(netpbm.Bitmap, netpbm.Eight, 2, 1)
	img.Pix[0] = 1

	var buf bytes.Buffer
	if err := Export(&buf, img, imaging.PNG, ExportOptions{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if got := color.GrayModel.Convert(decoded.At(0, 0)).(color.Gray).Y; got != 0 {
		t.Errorf("set bit: got gray %d, want 0", got)
	}
	if got := color.GrayModel.Convert(decoded.At(1, 0)).(color.Gray).Y; got != 255 {
		t.Errorf("clear bit: got gray %d, want 255", got)
	}
}

func TestExport_TIFFCompression(t *testing.T) {
	img := solidPixmap(64, 64, color.RGBA{200, 100, 50, 255})

	var deflated, raw bytes.Buffer
	if err := Export(&deflated, img, imaging.TIFF, ExportOptions{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := Export(&raw, img, imaging.TIFF, ExportOptions{Uncompressed: true}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if deflated.Len() >= raw.Len() {
		t.Errorf("deflated tiff (%d bytes) should be smaller than uncompressed (%d bytes)",
			deflated.Len(), raw.Len())
	}
}

func TestExport_InvalidQuality(t *testing.T) {
	img := solidPixmap(4, 4, color.RGBA{})

	for _, q := range []int{-1, 101} {
		if err := Export(&bytes.Buffer{}, img, imaging.JPEG, ExportOptions{Quality: q}); err == nil {
			t.Errorf("quality %d should be rejected", q)
		}
	}
}

func TestExport_InvalidImage(t *testing.T) {
	img := netpbm.NewImage(netpbm.Pixmap, netpbm.Eight, 4, 4)
	img.Pix = img.Pix[:5]

	if err := Export(&bytes.Buffer{}, img, imaging.PNG, ExportOptions{}); err == nil {
		t.Error("Export should fail for an image with missing samples")
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	img := patternPixmap(20, 10)

	path := filepath.Join(dir, "out.png")
	if err := ExportFile(img, path, ExportOptions{}); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	back, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	if b := back.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("dimensions: got %dx%d, want 20x10", b.Dx(), b.Dy())
	}

	bad := filepath.Join(dir, "out.xyz")
	if err := ExportFile(img, bad, ExportOptions{}); err == nil {
		t.Error("ExportFile should fail for an unknown extension")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed export should not create a file")
	}
}

func TestPreview(t *testing.T) {
	img := patternPixmap(100, 100)

	result, err := Preview(img, 0)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	pngImg, err := png.Decode(bytes.NewReader(decoded))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	r, g, b, _ := pngImg.At(25, 25).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("top-left color: got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}
}

func TestPreview_ScalesDown(t *testing.T) {
	img := solidPixmap(200, 100, color.RGBA{0, 0, 255, 255})

	result, err := Preview(img, 50)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Width != 50 || result.Height != 25 {
		t.Errorf("dimensions: got %dx%d, want 50x25", result.Width, result.Height)
	}
}

func TestImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.png")
	if err := ExportFile(patternPixmap(10, 10), path, ExportOptions{}); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	img, err := Import(path, netpbm.Pixmap, netpbm.Eight, DefaultBitmapThreshold)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if img.Width != 10 || img.Height != 10 {
		t.Fatalf("dimensions: got %dx%d, want 10x10", img.Width, img.Height)
	}

	got, err := SampleColor(img, 7, 2)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if got.Hex != "#00FF00" {
		t.Errorf("top-right color: got %s, want #00FF00", got.Hex)
	}
}

func TestImport_NonExistent(t *testing.T) {
	if _, err := Import("/nonexistent/image.png", netpbm.Pixmap, netpbm.Eight, 128); err == nil {
		t.Error("Import should fail for non-existent file")
	}
}

func TestConvert(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.Black)
	src.Set(1, 0, color.White)

	t.Run("bitmap", func(t *testing.T) {
		img, err := Convert(src, netpbm.Bitmap, netpbm.Eight, DefaultBitmapThreshold)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if img.Pix[0] != 1 || img.Pix[1] != 0 {
			t.Errorf("bits: got %v, want [1 0]", img.Pix)
		}
	})

	t.Run("16-bit graymap", func(t *testing.T) {
		img, err := Convert(src, netpbm.Graymap, netpbm.Sixteen, 0)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if img.Sample(0, 0, 0) != 0 || img.Sample(1, 0, 0) != 0xffff {
			t.Errorf("samples: got %d, %d, want 0, 65535", img.Sample(0, 0, 0), img.Sample(1, 0, 0))
		}
	})

	t.Run("16-bit pixmap", func(t *testing.T) {
		src16 := image.NewRGBA64(image.Rect(0, 0, 1, 1))
		src16.Set(0, 0, color.RGBA64{R: 0x1234, G: 0x5678, B: 0x9abc, A: 0xffff})

		img, err := Convert(src16, netpbm.Pixmap, netpbm.Sixteen, 0)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if img.Sample(0, 0, 0) != 0x1234 || img.Sample(0, 0, 2) != 0x9abc {
			t.Errorf("samples: got %#x, %#x, want 0x1234, 0x9abc", img.Sample(0, 0, 0), img.Sample(0, 0, 2))
		}
	})
}

func TestConvert_Invalid(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))

	if _, err := Convert(src, netpbm.Bitmap, netpbm.Eight, 300); err == nil {
		t.Error("Convert should reject threshold above 255")
	}
	if _, err := Convert(image.NewRGBA(image.Rectangle{}), netpbm.Pixmap, netpbm.Eight, 0); err == nil {
		t.Error("Convert should reject an empty image")
	}
	if _, err := Convert(src, netpbm.Variant(99), netpbm.Eight, 0); err == nil {
		t.Error("Convert should reject an unknown variant")
	}
}

func TestRecode(t *testing.T) {
	gray := netpbm.NewImage(netpbm.Graymap, netpbm.Eight, 2, 1)
	gray.SetSample(0, 0, 0, 128)
	gray.SetSample(1, 0, 0, 10)

	t.Run("same variant and depth", func(t *testing.T) {
		got, err := Recode(gray, netpbm.Graymap, netpbm.Eight, 0)
		if err != nil {
			t.Fatalf("Recode failed: %v", err)
		}
		if got != gray {
			t.Error("Recode should return the image unchanged")
		}
	})

	t.Run("widen depth", func(t *testing.T) {
		got, err := Recode(gray, netpbm.Graymap, netpbm.Sixteen, 0)
		if err != nil {
			t.Fatalf("Recode failed: %v", err)
		}
		if got.Depth != netpbm.Sixteen || got.Sample(0, 0, 0) != 32896 {
			t.Errorf("got %s sample %d, want 16-bit sample 32896", got.Depth, got.Sample(0, 0, 0))
		}
	})

	t.Run("to bitmap", func(t *testing.T) {
		got, err := Recode(gray, netpbm.Bitmap, netpbm.Sixteen, 64)
		if err != nil {
			t.Fatalf("Recode failed: %v", err)
		}
		if got.Variant != netpbm.Bitmap || got.Depth != netpbm.Eight {
			t.Fatalf("got %s/%s, want bitmap/8-bit", got.Variant, got.Depth)
		}
		if got.Pix[0] != 0 || got.Pix[1] != 1 {
			t.Errorf("bits: got %v, want [0 1]", got.Pix)
		}
	})

	t.Run("to pixmap", func(t *testing.T) {
		got, err := Recode(gray, netpbm.Pixmap, netpbm.Eight, 0)
		if err != nil {
			t.Fatalf("Recode failed: %v", err)
		}
		if got.Sample(0, 0, 0) != 128 || got.Sample(0, 0, 2) != 128 {
			t.Errorf("samples: got %d, %d, want 128, 128", got.Sample(0, 0, 0), got.Sample(0, 0, 2))
		}
	})
}

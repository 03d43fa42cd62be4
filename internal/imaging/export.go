package imaging

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is used when an export does not name a quality.
const DefaultJPEGQuality = 90

// ExportOptions tune conversion to common raster formats.
type ExportOptions struct {
	// Quality is the JPEG quality, 1-100. Zero selects DefaultJPEGQuality.
	Quality int
	// Uncompressed writes TIFF strips without deflate compression.
	Uncompressed bool
}

// ParseExportFormat maps a format name or file extension ("png", ".jpg",
// "tiff") to an encoder format.
func ParseExportFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(strings.ToLower(name), "."))
	if err != nil {
		return 0, errors.Errorf("unsupported export format: %s", name)
	}
	return f, nil
}

// Export writes img to w as PNG, JPEG, GIF, BMP or TIFF.
//
// PNG and TIFF keep 16-bit samples; the other formats are 8 bits per channel.
// Bitmaps are written as black and white grayscale.
func Export(w io.Writer, img *netpbm.Image, format imaging.Format, opts ExportOptions) error {
	if err := img.Validate(); err != nil {
		return err
	}

	switch format {
	case imaging.BMP:
		return errors.Wrap(bmp.Encode(w, img), "failed to encode bmp")
	case imaging.TIFF:
		to := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
		if opts.Uncompressed {
			to = &tiff.Options{Compression: tiff.Uncompressed}
		}
		return errors.Wrap(tiff.Encode(w, img, to), "failed to encode tiff")
	}

	quality := opts.Quality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return errors.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}
	return errors.Wrapf(imaging.Encode(w, img, format, imaging.JPEGQuality(quality)),
		"failed to encode %s", strings.ToLower(format.String()))
}

// ExportFile writes img to path, choosing the format from the extension.
func ExportFile(img *netpbm.Image, path string, opts ExportOptions) (err error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return errors.Errorf("unsupported export format: %s", path)
	}

	var buf bytes.Buffer
	if err := Export(&buf, img, format, opts); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if _, err := buf.WriteTo(bw); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return errors.Wrap(bw.Flush(), "failed to write file")
}

// PreviewResult contains a PNG rendition of an image for display.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders img as a base64 PNG. When maxSize is positive, images larger
// than maxSize in either direction are scaled down to fit, keeping the aspect
// ratio.
func Preview(img *netpbm.Image, maxSize int) (*PreviewResult, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	width, height := img.Width, img.Height
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		fitted := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
		width, height = fitted.Bounds().Dx(), fitted.Bounds().Dy()
		if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
			return nil, errors.Wrap(err, "failed to encode preview")
		}
	} else if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "failed to encode preview")
	}

	return &PreviewResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/pkg/errors"
)

// DefaultBitmapThreshold splits black from white when importing as a bitmap.
const DefaultBitmapThreshold = 128

// Import reads a PNG, JPEG, GIF, BMP or TIFF file and converts it to the given
// netpbm variant and depth. EXIF orientation is applied.
func Import(path string, variant netpbm.Variant, depth netpbm.Depth, threshold int) (*netpbm.Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	return Convert(src, variant, depth, threshold)
}

// Convert turns any image into a netpbm image.
//
// Bitmaps are produced by thresholding: pixels whose brightness is below
// threshold (0-255) become black. Graymaps use weighted luminance. Pixmaps
// keep the source colors, at 16 bits when depth is Sixteen.
func Convert(src image.Image, variant netpbm.Variant, depth netpbm.Depth, threshold int) (*netpbm.Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, errors.New("source image is empty")
	}

	switch variant {
	case netpbm.Bitmap:
		if threshold < 0 || threshold > 255 {
			return nil, errors.Errorf("threshold must be between 0 and 255, got %d", threshold)
		}
		mask := segment.Threshold(src, uint8(threshold))
		out := netpbm.NewImage(netpbm.Bitmap, netpbm.Eight, b.Dx(), b.Dy())
		for y := 0; y < out.Height; y++ {
			row := mask.Pix[y*mask.Stride : y*mask.Stride+out.Width]
			for x, v := range row {
				if v == 0 {
					out.Pix[y*out.Width+x] = 1
				}
			}
		}
		return out, nil
	case netpbm.Graymap:
		return netpbm.FromImage(effect.Grayscale(src), netpbm.Graymap, depth), nil
	case netpbm.Pixmap:
		return netpbm.FromImage(src, netpbm.Pixmap, depth), nil
	}
	return nil, errors.Wrapf(netpbm.ErrUnsupportedType, "variant %d", variant)
}

// Recode converts img to another variant or depth.
//
// Within a variant the samples are rescaled exactly to the new depth, or the
// image is returned unchanged when the depth already matches. Changing the
// variant goes through Convert.
func Recode(img *netpbm.Image, variant netpbm.Variant, depth netpbm.Depth, threshold int) (*netpbm.Image, error) {
	if variant == netpbm.Bitmap {
		depth = netpbm.Eight
	}
	if variant != img.Variant {
		return Convert(img, variant, depth, threshold)
	}
	if depth == img.Depth {
		return img, nil
	}
	return img.ConvertDepth(depth), nil
}

package imaging

import (
	"bytes"
	"math"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// DefaultCompareTolerance is the CIEDE2000 distance below which two pixels
// count as the same color. Go-colorful scales lightness to 0-1, so 0.01 is
// one just-noticeable difference.
const DefaultCompareTolerance = 0.01

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CompareResult contains image comparison information.
type CompareResult struct {
	// Identical is true when both images have the same variant, depth,
	// max-value, dimensions and samples, so they encode to the same bytes.
	Identical       bool    `json:"identical"`
	SameSize        bool    `json:"same_size"`
	Size1           Size    `json:"size1"`
	Size2           Size    `json:"size2"`
	TotalPixels     int     `json:"total_pixels"`
	PixelsDifferent int     `json:"pixels_different"`
	SimilarityScore float64 `json:"similarity_score"`
	AverageDeltaE   float64 `json:"average_delta_e"`
	MaxDeltaE       float64 `json:"max_delta_e"`
}

// Compare compares two images as displayed colors.
//
// Only the overlapping top-left area is compared when the sizes differ. Pixels
// are converted to colors first, so a graymap and a pixmap holding the same
// grays compare as equal while not Identical. A pixel differs when its
// CIEDE2000 distance exceeds tolerance.
func Compare(a, b *netpbm.Image, tolerance float64) (*CompareResult, error) {
	if tolerance < 0 {
		return nil, errors.Errorf("tolerance must not be negative, got %g", tolerance)
	}

	minW := a.Width
	if b.Width < minW {
		minW = b.Width
	}
	minH := a.Height
	if b.Height < minH {
		minH = b.Height
	}

	res := &CompareResult{
		Identical: a.Variant == b.Variant && a.Depth == b.Depth && a.Max() == b.Max() &&
			a.Width == b.Width && a.Height == b.Height && bytes.Equal(a.Pix, b.Pix),
		SameSize:    a.Width == b.Width && a.Height == b.Height,
		Size1:       Size{a.Width, a.Height},
		Size2:       Size{b.Width, b.Height},
		TotalPixels: minW * minH,
	}
	if res.TotalPixels == 0 {
		res.SimilarityScore = 1
		return res, nil
	}

	var total float64
	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			c1, _ := colorful.MakeColor(a.At(x, y))
			c2, _ := colorful.MakeColor(b.At(x, y))
			d := c1.DistanceCIEDE2000(c2)
			total += d
			if d > res.MaxDeltaE {
				res.MaxDeltaE = d
			}
			if d > tolerance {
				res.PixelsDifferent++
			}
		}
	}

	res.SimilarityScore = math.Round((1-float64(res.PixelsDifferent)/float64(res.TotalPixels))*1000) / 1000
	res.AverageDeltaE = math.Round(total/float64(res.TotalPixels)*10000) / 10000
	res.MaxDeltaE = math.Round(res.MaxDeltaE*10000) / 10000
	return res, nil
}

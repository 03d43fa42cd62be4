package imaging

import (
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult describes one pixel both as stored and as displayed.
//
// Samples are the raw values from the file, relative to MaxValue: one value
// for bitmaps and graymaps, three for pixmaps. Bitmap samples are 1 for black.
// Hex, RGB and HSL are the displayed color after scaling to 8 bits.
type ColorResult struct {
	Samples  []uint16 `json:"samples"`
	MaxValue int      `json:"max_value"`
	Hex      string   `json:"hex"` // "#RRGGBB"
	RGB      RGBColor `json:"rgb"`
	HSL      HSLColor `json:"hsl"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// # Coordinate System
//
// Coordinates are 0-based with origin at top-left:
//   - Valid X range: 0 to width-1
//   - Valid Y range: 0 to height-1
func SampleColor(img *netpbm.Image, x, y int) (*ColorResult, error) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, errors.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	samples := make([]uint16, img.Channels())
	for c := range samples {
		samples[c] = img.Sample(x, y, c)
	}

	col, _ := colorful.MakeColor(img.At(x, y))
	return &ColorResult{
		Samples:  samples,
		MaxValue: img.Max(),
		Hex:      hexOf(col),
		RGB:      rgbOf(col),
		HSL:      hslOf(col),
	}, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// On error no partial results are returned.
//
// # Example
//
//	points := []imaging.LabeledPoint{
//	    {X: 10, Y: 20, Label: "background"},
//	    {X: 50, Y: 100, Label: "text"},
//	}
//	result, err := imaging.SampleColorsMulti(img, points)
func SampleColorsMulti(img *netpbm.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to sample point (%d,%d)", p.X, p.Y)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

func (r Region) validate(img *netpbm.Image) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > img.Width || r.Y2 > img.Height {
		return errors.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, img.Width, img.Height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return errors.Errorf("invalid region: x1 must be < x2 and y1 must be < y2")
	}
	return nil
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from an image or region.
//
// # Color Quantization
//
// Similar colors are grouped by rounding each 8-bit component down to a
// multiple of 16, so #F0F0F0 and #FAFAFA count as the same color. Bitmaps have
// at most two colors and are never merged.
func DominantColors(img *netpbm.Image, count int, region *Region) (*DominantColorsResult, error) {
	r := Region{X2: img.Width, Y2: img.Height}
	if region != nil {
		if err := region.validate(img); err != nil {
			return nil, err
		}
		r = *region
	}

	colorCounts := make(map[RGBColor]int)
	totalPixels := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			col, _ := colorful.MakeColor(img.At(x, y))
			c := rgbOf(col)
			c = RGBColor{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
			colorCounts[c]++
			totalPixels++
		}
	}

	colors := make([]ColorFrequency, 0, len(colorCounts))
	for c, cnt := range colorCounts {
		colors = append(colors, ColorFrequency{
			Hex:        hexOf(colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}),
			Percentage: float64(cnt) / float64(totalPixels) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

func hexOf(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

func rgbOf(c colorful.Color) RGBColor {
	r, g, b := c.Clamped().RGB255()
	return RGBColor{R: r, G: g, B: b}
}

func hslOf(c colorful.Color) HSLColor {
	h, s, l := c.Clamped().Hsl()
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

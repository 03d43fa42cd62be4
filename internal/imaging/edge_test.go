package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
)

// stepGraymap returns a graymap that is black left of column split and
// white from it on.
func stepGraymap(width, height, split int) *netpbm.Image {
	img := netpbm.NewImage(netpbm.Graymap, netpbm.Eight, width, height)
	for y := 0; y < height; y++ {
		for x := split; x < width; x++ {
			img.SetSample(x, y, 0, 255)
		}
	}
	return img
}

func countSet(img *netpbm.Image) int {
	n := 0
	for _, v := range img.Pix {
		if v == 1 {
			n++
		}
	}
	return n
}

func TestEdgeMap(t *testing.T) {
	img := stepGraymap(100, 100, 50)

	result, err := EdgeMap(img, DefaultEdgeRadius, DefaultEdgeThreshold)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.Variant != netpbm.Bitmap {
		t.Errorf("variant: got %s, want bitmap", result.Variant)
	}

	// The bright side of the step lights up.
	for y := 0; y < 100; y++ {
		if result.Pix[y*100+50] != 1 {
			t.Fatalf("row %d: edge at x=50 not detected", y)
		}
	}
	if got := countSet(result); got != 100 {
		t.Errorf("edge pixels: got %d, want 100", got)
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	img := solidPixmap(50, 50, color.RGBA{128, 128, 128, 255})

	result, err := EdgeMap(img, DefaultEdgeRadius, DefaultEdgeThreshold)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}

	// Borders included: pixels beyond the edge repeat it.
	if got := countSet(result); got != 0 {
		t.Errorf("uniform image should have no edges, got %d edge pixels", got)
	}
}

func TestEdgeMap_Thresholds(t *testing.T) {
	// A faint step from 100 to 120 responds with 3*20 = 60.
	img := netpbm.NewImage(netpbm.Graymap, netpbm.Eight, 20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := uint16(100)
			if x >= 10 {
				v = 120
			}
			img.SetSample(x, y, 0, v)
		}
	}

	tests := []struct {
		name      string
		threshold int
		wantEdges bool
	}{
		{"low threshold keeps faint edge", 30, true},
		{"high threshold drops faint edge", 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EdgeMap(img, 1, tt.threshold)
			if err != nil {
				t.Fatalf("EdgeMap failed: %v", err)
			}
			if got := countSet(result) > 0; got != tt.wantEdges {
				t.Errorf("edges found: got %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestEdgeMap_Bitmap(t *testing.T) {
	// A black square on white.
	img := netpbm.NewImage(netpbm.Bitmap, netpbm.Eight, 12, 12)
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.Pix[y*12+x] = 1
		}
	}

	result, err := EdgeMap(img, 1, DefaultEdgeThreshold)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if result.Pix[4*12+3] != 1 {
		t.Error("outline left of the square not detected")
	}
	if result.Pix[0] != 0 {
		t.Error("corner far from the square should not be an edge")
	}
}

func TestEdgeMap_InvalidParameters(t *testing.T) {
	img := solidPixmap(5, 5, color.RGBA{128, 128, 128, 255})

	tests := []struct {
		name      string
		radius    float64
		threshold int
	}{
		{"zero radius", 0, 64},
		{"negative radius", -1, 64},
		{"zero threshold", 1, 0},
		{"threshold too large", 1, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EdgeMap(img, tt.radius, tt.threshold); err == nil {
				t.Error("EdgeMap should fail for invalid parameters")
			}
		})
	}
}

func TestEdgeMap_SmallImage(t *testing.T) {
	img := solidPixmap(1, 1, color.RGBA{128, 128, 128, 255})

	result, err := EdgeMap(img, 2, DefaultEdgeThreshold)
	if err != nil {
		t.Fatalf("EdgeMap failed: %v", err)
	}
	if result.Width != 1 || result.Height != 1 {
		t.Errorf("dimensions: got %dx%d, want 1x1", result.Width, result.Height)
	}
}

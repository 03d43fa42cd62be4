package pnmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/pkg/errors"
)

// testImage returns a small 16-bit pixmap with distinct samples.
func testImage(t *testing.T) *netpbm.Image {
	t.Helper()
	img := netpbm.NewImage(netpbm.Pixmap, netpbm.Sixteen, 4, 3)
	img.MaxValue = 1023
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			for c := 0; c < 3; c++ {
				img.SetSample(x, y, c, uint16((y*4+x)*3+c))
			}
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		mode     netpbm.Mode
		wantComp Compression
	}{
		{"plain binary", "out.ppm", netpbm.Binary, None},
		{"plain ascii", "out.ppm", netpbm.ASCII, None},
		{"gzip", "out.ppm.gz", netpbm.Binary, Gzip},
		{"zstd", "out.ppm.zst", netpbm.Binary, Zstd},
		{"zstd ascii", "out.ppm.zst", netpbm.ASCII, Zstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			img := testImage(t)

			if err := Save(path, img, tt.mode); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(img, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read back: %v", err)
			}
			if c := Detect(raw); c != tt.wantComp {
				t.Errorf("stored compression: got %v, want %v", c, tt.wantComp)
			}

			h, c, err := LoadHeader(path)
			if err != nil {
				t.Fatalf("LoadHeader failed: %v", err)
			}
			if c != tt.wantComp {
				t.Errorf("LoadHeader compression: got %v, want %v", c, tt.wantComp)
			}
			if h.Width != 4 || h.Height != 3 || h.MaxValue != 1023 || h.Mode != tt.mode {
				t.Errorf("header: got %+v", h)
			}
		})
	}
}

func TestLoadDetectsCompressionRegardlessOfName(t *testing.T) {
	dir := t.TempDir()
	data, err := netpbm.Encode(testImage(t), netpbm.Binary)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	packed, err := Compress(data, Zstd)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	path := filepath.Join(dir, "misnamed.ppm")
	if err := os.WriteFile(path, packed, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if c != Zstd {
		t.Errorf("compression: got %v, want zstd", c)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.pgm")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.pgm")
	if err := os.WriteFile(bad, []byte("GIF89a"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, netpbm.ErrNotNetpbm) {
		t.Errorf("expected ErrNotNetpbm, got %v", err)
	}
	if _, _, err := LoadHeader(bad); !errors.Is(err, netpbm.ErrNotNetpbm) {
		t.Errorf("LoadHeader: expected ErrNotNetpbm, got %v", err)
	}

	empty := filepath.Join(dir, "empty.pgm")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, _, err := LoadHeader(empty); !errors.Is(err, netpbm.ErrNotNetpbm) {
		t.Errorf("empty file: expected ErrNotNetpbm, got %v", err)
	}
}

func TestSaveRejectsWideASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.pbm")
	img := netpbm.NewImage(netpbm.Bitmap, netpbm.Eight, 160, 1)

	if err := Save(path, img, netpbm.ASCII); !errors.Is(err, netpbm.ErrWidthTooWide) {
		t.Fatalf("expected ErrWidthTooWide, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not have been created")
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"a.pgm", None},
		{"a.pgm.gz", Gzip},
		{"a.PPM.GZ", Gzip},
		{"a.pbm.zst", Zstd},
		{"a.zstd", Zstd},
	}
	for _, tt := range tests {
		if got := ForPath(tt.path); got != tt.want {
			t.Errorf("ForPath(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
	if got := TrimCompressionExt("dir/a.pgm.zst"); got != "dir/a.pgm" {
		t.Errorf("TrimCompressionExt: got %q", got)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	data := []byte("P2\n2 1\n255\n1 2\n")
	for _, c := range []Compression{None, Gzip, Zstd} {
		packed, err := Compress(data, c)
		if err != nil {
			t.Fatalf("%v: Compress failed: %v", c, err)
		}
		if Detect(packed) != c {
			t.Errorf("%v: Detect got %v", c, Detect(packed))
		}
		got, err := Decompress(packed, c)
		if err != nil {
			t.Fatalf("%v: Decompress failed: %v", c, err)
		}
		if string(got) != string(data) {
			t.Errorf("%v: got %q", c, got)
		}
	}
}

package imaging

import (
	"os"
	"sync"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/ironsheep/netpbm-tools/internal/pnmfile"
	"github.com/pkg/errors"
)

// ImageCache provides thread-safe caching of decoded netpbm images to avoid
// redundant disk reads.
//
// The cache stores *netpbm.Image values keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy
// without disk I/O. Callers must treat cached images as read-only; operations
// in this package always return new images.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// A 16-bit pixmap takes six bytes per pixel, so long-running processes handling
// large scans should evict images they are done with.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/scan.pgm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use img...
//	cache.Evict("/path/to/scan.pgm") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*netpbm.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*netpbm.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The file may be any of the six netpbm encodings, optionally gzip or zstd
// compressed. The image is cached using the exact path string provided.
// Different paths to the same file (e.g., relative vs absolute) result in
// separate cache entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error wrapping a netpbm sentinel if the contents do not decode
func (c *ImageCache) Load(path string) (*netpbm.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := pnmfile.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load image")
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Put stores img under path, replacing any cached entry.
func (c *ImageCache) Put(path string, img *netpbm.Image) {
	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*netpbm.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a netpbm file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "pbm", "pgm" or "ppm".
	Format string `json:"format"`

	// Encoding is "ascii" or "binary".
	Encoding string `json:"encoding"`

	// ColorDepth indicates the bit depth per sample: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// MaxValue is the header max-value; 1 for bitmaps.
	MaxValue int `json:"max_value"`

	// Channels is 1 for bitmaps and graymaps, 3 for pixmaps.
	Channels int `json:"channels"`

	// Compression is "none", "gzip" or "zstd".
	Compression string `json:"compression"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo returns metadata about a netpbm file.
//
// Only the header is read, so this is cheap even for large images and does
// not populate the cache. The format and encoding come from the magic number,
// not the file extension.
func LoadImageInfo(path string) (*ImageInfo, error) {
	h, comp, err := pnmfile.LoadHeader(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	return &ImageInfo{
		Width:         h.Width,
		Height:        h.Height,
		Format:        h.Variant.Extension(),
		Encoding:      h.Mode.String(),
		ColorDepth:    h.Depth.String(),
		MaxValue:      h.MaxValue,
		Channels:      h.Variant.Channels(),
		Compression:   comp.String(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image. The image is loaded into
// the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	return &DimensionsResult{
		Width:  img.Width,
		Height: img.Height,
	}, nil
}

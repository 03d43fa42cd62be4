// Package imaging provides the image operations behind the netpbm tools.
//
// Every operation takes and returns *netpbm.Image. Sampling, cropping and
// flipping or rotating are sample-exact; resizing, edge maps, previews and
// conversion to and from other formats go through the imaging, bild and
// x/image libraries at 8 or 16 bits per channel. Coordinates are 0-based with
// (0,0) at the top-left corner, X increasing rightward and Y downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Operations never modify their
// input and always return new images, so cached images may be shared.
//
// # Color Representation
//
// Colors are returned in several forms:
//   - Samples: the raw values from the file, relative to the image max-value
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// Bitmap samples follow the netpbm convention: 1 is black and 0 is white.
package imaging

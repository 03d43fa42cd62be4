// Package netpbm encodes and decodes the netpbm family of raster formats.
//
// Three variants are supported, each in a plain (ASCII) and a raw (binary)
// encoding:
//
//	P1 / P4  PBM  bitmap   1 bit per pixel, 1 = black
//	P2 / P5  PGM  graymap  one sample per pixel
//	P3 / P6  PPM  pixmap   three interleaved samples per pixel (R, G, B)
//
// Graymaps and pixmaps carry a max-value field; a max-value above 255 selects
// 16-bit samples, stored big-endian.
//
// # Decoding
//
// Decode takes a whole file image in memory. The header is scanned by a small
// state machine that skips '#' comments and stops after exactly one separator
// byte following the last field, so Header.DataOffset always points at the first
// pixel byte:
//
//	img, err := netpbm.Decode(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(img.Width, img.Height, img.Variant, img.Depth)
//
// # Encoding
//
// Encode writes the magic number, "width height\n", the max-value line for
// graymaps and pixmaps, then the pixel data. Plain encodings write one image row
// per line and refuse rows whose digits exceed 70 characters.
//
// # Sample Layout
//
// Image.Pix holds Width*Height*Channels samples in row-major order. Bitmap
// samples are one byte each (0 or 1). Graymap and pixmap samples are one byte,
// or two bytes high byte first when Depth is Sixteen.
//
// # Interop
//
// *Image implements image.Image, and the package registers "pbm", "pgm" and
// "ppm" with the image package so image.Decode recognises all six magics.
package netpbm

package netpbm

import (
	"bufio"
	"image"
	"io"
)

func init() {
	for _, v := range []Variant{Bitmap, Graymap, Pixmap} {
		for _, m := range []Mode{ASCII, Binary} {
			magic := v.Magic(m)
			image.RegisterFormat(v.Extension(), string(magic[:]), DecodeImage, DecodeConfig)
		}
	}
}

// DecodeImage reads a whole netpbm file from r. It satisfies the decoder
// signature of image.RegisterFormat.
func DecodeImage(r io.Reader) (image.Image, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeConfig reads only the header from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	h, err := ReadHeader(br)
	if err != nil {
		return image.Config{}, err
	}
	model := (&Image{Variant: h.Variant, Depth: h.Depth}).ColorModel()
	return image.Config{ColorModel: model, Width: h.Width, Height: h.Height}, nil
}

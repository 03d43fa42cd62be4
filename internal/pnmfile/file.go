package pnmfile

import (
	"bufio"
	"io"
	"os"

	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ReadFile returns the decompressed contents of path and the compression it
// was stored with.
func ReadFile(path string) ([]byte, Compression, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, None, errors.Wrap(err, "failed to read file")
	}
	c := Detect(raw)
	data, err := Decompress(raw, c)
	if err != nil {
		return nil, c, err
	}
	return data, c, nil
}

// WriteFile writes data to path, compressed as the file name asks.
func WriteFile(path string, data []byte) (err error) {
	data, err = Compress(data, ForPath(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err = f.Write(data); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}

// Load reads and decodes the netpbm file at path.
func Load(path string) (*netpbm.Image, error) {
	data, _, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := netpbm.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return img, nil
}

// Save encodes img in the given mode and writes it to path.
func Save(path string, img *netpbm.Image, mode netpbm.Mode) error {
	data, err := netpbm.Encode(img, mode)
	if err != nil {
		return errors.Wrap(err, "failed to encode image")
	}
	return WriteFile(path, data)
}

// LoadHeader reads only as much of path as the header needs. Compressed files
// are decompressed as a stream up to the end of the header.
func LoadHeader(path string) (h netpbm.Header, c Compression, err error) {
	f, err := os.Open(path)
	if err != nil {
		return netpbm.Header{}, None, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	br := bufio.NewReader(f)
	lead, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return netpbm.Header{}, None, errors.Wrap(err, "failed to read file")
	}
	c = Detect(lead)

	var r io.ByteReader = br
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return netpbm.Header{}, c, errors.Wrap(err, "failed to open gzip stream")
		}
		defer zr.Close()
		r = bufio.NewReader(zr)
	case Zstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return netpbm.Header{}, c, errors.Wrap(err, "failed to open zstd stream")
		}
		defer zr.Close()
		r = bufio.NewReader(zr)
	}

	h, err = netpbm.ReadHeader(r)
	if err != nil {
		return netpbm.Header{}, c, errors.Wrapf(err, "failed to read header of %s", path)
	}
	return h, c, nil
}

package pnmfile

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Compression identifies the container a netpbm file is stored in.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return "none"
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect reports the compression of data from its leading bytes.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	}
	return None
}

// ForPath picks the compression implied by a file name's suffix.
func ForPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	}
	return None
}

// TrimCompressionExt strips a compression suffix, so "a.pgm.gz" gives "a.pgm".
func TrimCompressionExt(path string) string {
	if ForPath(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// --- zstd helpers ---

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// Decompress undoes c on data. None returns data unchanged.
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case Zstd:
		dec := zstdDecPool.Get().(*zstd.Decoder)
		out, err := dec.DecodeAll(data, nil)
		zstdDecPool.Put(dec)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decompress zstd data")
		}
		return out, nil
	case Gzip:
		return gunzip(data)
	}
	return data, nil
}

// Compress applies c to data. None returns data unchanged.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case Zstd:
		enc := zstdEncPool.Get().(*zstd.Encoder)
		out := enc.EncodeAll(data, nil)
		zstdEncPool.Put(enc)
		return out, nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(data)
		err = multierr.Append(err, zw.Close())
		if err != nil {
			return nil, errors.Wrap(err, "failed to gzip data")
		}
		return buf.Bytes(), nil
	}
	return data, nil
}

func gunzip(data []byte) (out []byte, err error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open gzip stream")
	}
	defer func() {
		err = multierr.Append(err, zr.Close())
	}()
	out, err = io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress gzip data")
	}
	return out, nil
}

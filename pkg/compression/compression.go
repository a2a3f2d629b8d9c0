// Package compression wraps dataset file streams in the codec selected by
// configuration or detected from the file extension.
//
// # Basic Usage
//
//	alg, base := compression.FromExtension("cities.json.zst")
//	r, err := compression.NewReader(f, alg)
//	defer r.Close()
//
//	w, err := compression.NewWriter(out, compression.LZ4)
//	defer w.Close()
//
// # Algorithm Selection
//
// Speed (fastest to slowest): LZ4 > Snappy/S2 > Zstd > Gzip/Deflate
// Compression ratio (best to worst): Zstd > Gzip/Deflate > Snappy/S2 > LZ4
package compression

import (
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents raw deflate compression
	Deflate Algorithm = "deflate"
)

var extensions = map[Algorithm]string{
	Gzip:    ".gz",
	Snappy:  ".sz",
	LZ4:     ".lz4",
	Zstd:    ".zst",
	S2:      ".s2",
	Deflate: ".deflate",
}

// ParseAlgorithm resolves an algorithm name. The empty string means None.
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if alg == "" || alg == None {
		return None, nil
	}
	if _, ok := extensions[alg]; !ok {
		return "", errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm %q", name).
			WithDetail("algorithm", name)
	}
	return alg, nil
}

// Extension returns the file suffix for alg, "" for None
func (a Algorithm) Extension() string {
	return extensions[a]
}

// FromExtension detects the algorithm from the last suffix of path and
// returns it with the suffix stripped. Unknown suffixes mean None.
func FromExtension(path string) (Algorithm, string) {
	lower := strings.ToLower(path)
	for alg, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return alg, path[:len(path)-len(ext)]
		}
	}
	return None, path
}

// NewReader returns a reader decompressing r with alg. Closing it releases
// the decoder but never closes r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open gzip stream")
		}
		return zr, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open zstd stream")
		}
		return zr.IOReadCloser(), nil
	case Deflate:
		return flate.NewReader(r), nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm %q", alg)
}

// NewWriter returns a writer compressing into w with alg. Close must be
// called to flush the stream; it never closes w.
func NewWriter(w io.Writer, alg Algorithm) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create zstd writer")
		}
		return zw, nil
	case Deflate:
		fw, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create deflate writer")
		}
		return fw, nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm %q", alg)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

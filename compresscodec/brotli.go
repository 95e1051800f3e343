package compresscodec

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli wraps andybalholm/brotli, matching the teacher's compress/brotli
// sub-package and its github.com/andybalholm/brotli dependency.
type Brotli struct {
	// Quality is passed to brotli.NewWriterLevel; zero uses brotli.DefaultCompression.
	Quality int
}

func (c Brotli) quality() int {
	if c.Quality == 0 {
		return brotli.DefaultCompression
	}
	return c.Quality
}

func (c Brotli) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w := brotli.NewWriterLevel(buf, c.quality())
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Brotli) Decode(dst, src []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

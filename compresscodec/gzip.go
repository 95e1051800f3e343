package compresscodec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip wraps klauspost/compress's drop-in gzip, matching the teacher's
// compress/gzip sub-package and its github.com/klauspost/compress
// dependency.
type Gzip struct {
	// Level is passed to gzip.NewWriterLevel; zero uses gzip.DefaultCompression.
	Level int
}

func (c Gzip) level() int {
	if c.Level == 0 {
		return gzip.DefaultCompression
	}
	return c.Level
}

func (c Gzip) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w, err := gzip.NewWriterLevel(buf, c.level())
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Gzip) Decode(dst, src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

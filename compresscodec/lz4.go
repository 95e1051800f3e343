package compresscodec

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Level mirrors the teacher's own compress/lz4.Level vocabulary
// (compress/compress_test.go: lz4.Fastest, lz4.Fast, lz4.Level1...Level9).
type Level int

const (
	Fastest Level = iota
	Fast
	Level1
	Level2
	Level3
	Level4
	Level5
	Level6
	Level7
	Level8
	Level9
)

func (l Level) lz4Level() lz4.CompressionLevel {
	switch l {
	case Fast:
		return lz4.Fast
	case Level1:
		return lz4.Level1
	case Level2:
		return lz4.Level2
	case Level3:
		return lz4.Level3
	case Level4:
		return lz4.Level4
	case Level5:
		return lz4.Level5
	case Level6:
		return lz4.Level6
	case Level7:
		return lz4.Level7
	case Level8:
		return lz4.Level8
	case Level9:
		return lz4.Level9
	default:
		return lz4.Fast
	}
}

// LZ4 wraps pierrec/lz4/v4, matching the teacher's compress/lz4 sub-package
// and its github.com/pierrec/lz4/v4 dependency.
type LZ4 struct {
	Level Level
}

func (c LZ4) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w := lz4.NewWriter(buf)
	if err := w.Apply(lz4.CompressionLevelOption(c.Level.lz4Level())); err != nil {
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

func (c LZ4) Decode(dst, src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

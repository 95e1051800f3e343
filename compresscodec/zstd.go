package compresscodec

import (
	"github.com/klauspost/compress/zstd"
)

// Zstd wraps klauspost/compress/zstd, matching the teacher's compress/zstd
// sub-package and its github.com/klauspost/compress dependency.
//
// Unlike Gzip/Brotli/LZ4, zstd's encoder/decoder are expensive to construct,
// so one of each is kept alive for the codec's lifetime rather than built
// per call.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (c *Zstd) Encode(dst, src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, dst[:0]), nil
}

func (c *Zstd) Decode(dst, src []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, dst[:0])
}

// Close releases the encoder/decoder's background resources.
func (c *Zstd) Close() {
	c.enc.Close()
	c.dec.Close()
}

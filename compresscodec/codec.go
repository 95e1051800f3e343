// Package compresscodec gives Carpet's in-memory sink a plug-in point for
// compressing binary-blob leaves (BinaryString/OpaqueBinary/EnumLike), the
// one piece of Parquet's page-compression concern the core can exercise
// without reimplementing page/row-group layout (see DESIGN.md).
package compresscodec

// Codec compresses and decompresses a block of bytes. dst, when non-nil, is
// reused as the output buffer the way the teacher's own compress.Codec does
// (compress/compress_test.go: "buffer, err = test.codec.Encode(buffer[:0],
// testdata)").
type Codec interface {
	Encode(dst, src []byte) ([]byte, error)
	Decode(dst, src []byte) ([]byte, error)
}

package compress

import (
	"github.com/klauspost/compress/zstd"
)

// Shared stateless encoder/decoder; EncodeAll/DecodeAll on a nil-writer
// encoder are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Zstd compresses blobs with Zstandard. It is the default: member row
// sets and measure vectors are highly repetitive and compress well at
// the default level without hurting load time.
type Zstd struct{}

// Compress compresses data.
func (Zstd) Compress(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decompresses data.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(data, nil)
}

// Name returns the unique name of the compressor ("zstd").
func (Zstd) Name() string { return "zstd" }

// Package compress provides the general-purpose compression applied to
// snapshot blobs (serialized row sets and measure vectors).
//
// Like the metadata codec, the compressor is a compatibility boundary:
// its name is recorded in the snapshot header and load resolves the
// decompressor by that name.
package compress

// Compressor compresses and decompresses blob payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// Default is the compressor used when none is configured.
var Default Compressor = Zstd{}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "none":
		return None{}, true
	default:
		return nil, false
	}
}

// None is the identity compressor.
type None struct{}

// Compress returns data unchanged.
func (None) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns the unique name of the compressor ("none").
func (None) Name() string { return "none" }

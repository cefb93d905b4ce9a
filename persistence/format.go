// Package persistence implements the snapshot container: a single binary
// file holding everything needed to reconstruct a built engine — the
// per-dimension member row sets, the raw measure vectors, and a
// self-describing metadata blob — without access to the original table.
package persistence

import (
	"errors"

	"github.com/hupe1980/nanocube/rowset"
)

const (
	// MagicNumber identifies NanoCube snapshot files (ASCII: "NCB1").
	MagicNumber = 0x4E434231
	// Version is the current file format version (v1.0.0). Unknown
	// versions are rejected outright; there is no best-effort parsing.
	Version = 0x00010000

	// Backend tags recorded in the header.
	BackendBitmap      = 1
	BackendSortedArray = 2
)

var (
	ErrInvalidMagic      = errors.New("invalid magic number")
	ErrInvalidVersion    = errors.New("unsupported format version")
	ErrInvalidBackend    = errors.New("unrecognized backend tag")
	ErrUnknownCodec      = errors.New("unknown metadata codec")
	ErrUnknownCompressor = errors.New("unknown blob compressor")
	ErrChecksumMismatch  = errors.New("blob checksum mismatch")
	ErrTruncated         = errors.New("truncated snapshot")
)

// FileHeader is the fixed little-endian header at the start of every
// snapshot file. Strings are zero-padded ASCII.
type FileHeader struct {
	Magic          uint32
	Version        uint32
	Backend        uint8
	Pad            [3]byte
	Rows           uint64
	BlobCount      uint32
	Checksum       uint32 // CRC32 (IEEE) over the blob section
	CodecName      [8]byte
	CompressorName [8]byte
	Reserved       [16]byte
}

func backendTag(kind rowset.Kind) uint8 {
	if kind == rowset.KindSortedArray {
		return BackendSortedArray
	}
	return BackendBitmap
}

func backendKind(tag uint8) (rowset.Kind, error) {
	switch tag {
	case BackendBitmap:
		return rowset.KindBitmap, nil
	case BackendSortedArray:
		return rowset.KindSortedArray, nil
	default:
		return rowset.KindInvalid, ErrInvalidBackend
	}
}

func padName(s string) [8]byte {
	var out [8]byte
	copy(out[:], s)
	return out
}

func unpadName(b [8]byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

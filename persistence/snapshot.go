package persistence

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/nanocube/codec"
	"github.com/hupe1980/nanocube/compress"
	"github.com/hupe1980/nanocube/index"
	"github.com/hupe1980/nanocube/member"
	"github.com/hupe1980/nanocube/rowset"
)

// Snapshot is the complete persisted state of a built engine.
type Snapshot struct {
	Backend    rowset.Kind
	Rows       int
	Dimensions []*index.Dimension
	Measures   []*index.Measure
}

// snapshotMeta is blob 0: the self-describing metadata record. Each member
// and measure entry names the blob holding its serialized payload.
type snapshotMeta struct {
	Backend    string          `json:"backend"`
	Rows       int             `json:"rows"`
	Dimensions []dimensionMeta `json:"dimensions"`
	Measures   []measureMeta   `json:"measures"`
}

type dimensionMeta struct {
	Name    string       `json:"name"`
	Members []memberMeta `json:"members"`
}

type memberMeta struct {
	Value member.Value `json:"value"`
	Blob  uint32       `json:"blob"`
}

type measureMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Blob uint32 `json:"blob"`
}

// Write serializes the snapshot: a fixed header, then a length-prefixed
// sequence of blobs. Blob 0 is the metadata record; blobs 1..M hold one
// compressed row set per distinct member across all dimensions; the
// trailing blobs hold the compressed raw measure vectors.
func Write(w io.Writer, snap *Snapshot, c codec.Codec, comp compress.Compressor) error {
	if c == nil {
		c = codec.Default
	}
	if comp == nil {
		comp = compress.Default
	}

	meta := snapshotMeta{
		Backend: snap.Backend.String(),
		Rows:    snap.Rows,
	}

	// Blob 0 is reserved for metadata; payload blobs start at 1.
	blobs := [][]byte{nil}

	for _, d := range snap.Dimensions {
		dm := dimensionMeta{Name: d.Name()}
		for _, v := range d.Members() {
			raw, err := d.RowsFor(v).Marshal()
			if err != nil {
				return fmt.Errorf("dimension %q member %q: %w", d.Name(), v.Key(), err)
			}
			packed, err := comp.Compress(raw)
			if err != nil {
				return fmt.Errorf("dimension %q member %q: %w", d.Name(), v.Key(), err)
			}
			dm.Members = append(dm.Members, memberMeta{Value: v, Blob: uint32(len(blobs))})
			blobs = append(blobs, packed)
		}
		meta.Dimensions = append(meta.Dimensions, dm)
	}

	for _, m := range snap.Measures {
		packed, err := comp.Compress(measureBytes(m))
		if err != nil {
			return fmt.Errorf("measure %q: %w", m.Name(), err)
		}
		meta.Measures = append(meta.Measures, measureMeta{
			Name: m.Name(),
			Type: m.Kind().String(),
			Blob: uint32(len(blobs)),
		})
		blobs = append(blobs, packed)
	}

	metaBlob, err := c.Marshal(meta)
	if err != nil {
		return fmt.Errorf("snapshot metadata: %w", err)
	}
	blobs[0] = metaBlob

	crc := crc32.NewIEEE()
	for _, b := range blobs {
		_, _ = crc.Write(b)
	}

	header := FileHeader{
		Magic:          MagicNumber,
		Version:        Version,
		Backend:        backendTag(snap.Backend),
		Rows:           uint64(snap.Rows),
		BlobCount:      uint32(len(blobs)),
		Checksum:       crc.Sum32(),
		CodecName:      padName(c.Name()),
		CompressorName: padName(comp.Name()),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}

	for _, b := range blobs {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Read deserializes a snapshot. The file is fully self-describing: the
// codec and compressor are resolved from the header, and an unknown
// magic, version, or backend tag fails fast before any blob is touched.
func Read(r io.Reader) (*Snapshot, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	kind, err := backendKind(header.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: got %d", err, header.Backend)
	}
	c, ok := codec.ByName(unpadName(header.CodecName))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, unpadName(header.CodecName))
	}
	comp, ok := compress.ByName(unpadName(header.CompressorName))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, unpadName(header.CompressorName))
	}

	blobs := make([][]byte, header.BlobCount)
	crc := crc32.NewIEEE()
	for i := range blobs {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: blob %d: %w", ErrTruncated, i, err)
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("%w: blob %d: %w", ErrTruncated, i, err)
		}
		_, _ = crc.Write(b)
		blobs[i] = b
	}
	if crc.Sum32() != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	var meta snapshotMeta
	if err := c.Unmarshal(blobs[0], &meta); err != nil {
		return nil, fmt.Errorf("snapshot metadata: %w", err)
	}
	if metaKind, err := rowset.ParseKind(meta.Backend); err != nil || metaKind != kind {
		return nil, fmt.Errorf("%w: header says %s, metadata says %q", ErrInvalidBackend, kind, meta.Backend)
	}

	snap := &Snapshot{Backend: kind, Rows: int(header.Rows)}

	for ord, dm := range meta.Dimensions {
		members := make([]member.Value, len(dm.Members))
		sets := make([]rowset.Set, len(dm.Members))
		for i, mm := range dm.Members {
			if int(mm.Blob) >= len(blobs) {
				return nil, fmt.Errorf("%w: dimension %q references blob %d of %d", ErrTruncated, dm.Name, mm.Blob, len(blobs))
			}
			raw, err := comp.Decompress(blobs[mm.Blob])
			if err != nil {
				return nil, fmt.Errorf("dimension %q blob %d: %w", dm.Name, mm.Blob, err)
			}
			s, err := rowset.Unmarshal(kind, raw)
			if err != nil {
				return nil, fmt.Errorf("dimension %q blob %d: %w", dm.Name, mm.Blob, err)
			}
			members[i] = mm.Value
			sets[i] = s
		}
		d, err := index.RestoreDimension(dm.Name, ord, kind, members, sets)
		if err != nil {
			return nil, err
		}
		snap.Dimensions = append(snap.Dimensions, d)
	}

	for _, mm := range meta.Measures {
		if int(mm.Blob) >= len(blobs) {
			return nil, fmt.Errorf("%w: measure %q references blob %d of %d", ErrTruncated, mm.Name, mm.Blob, len(blobs))
		}
		raw, err := comp.Decompress(blobs[mm.Blob])
		if err != nil {
			return nil, fmt.Errorf("measure %q blob %d: %w", mm.Name, mm.Blob, err)
		}
		kind, err := index.ParseNumericKind(mm.Type)
		if err != nil {
			return nil, fmt.Errorf("measure %q: %w", mm.Name, err)
		}
		m, err := restoreMeasure(mm.Name, kind, raw)
		if err != nil {
			return nil, fmt.Errorf("measure %q: %w", mm.Name, err)
		}
		snap.Measures = append(snap.Measures, m)
	}

	return snap, nil
}

// measureBytes encodes a measure vector as fixed-width little-endian.
func measureBytes(m *index.Measure) []byte {
	out := make([]byte, 8*m.Len())
	if m.Kind() == index.Int64 {
		for i, v := range m.Int64s() {
			binary.LittleEndian.PutUint64(out[8*i:], uint64(v))
		}
		return out
	}
	for i, v := range m.Float64s() {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(v))
	}
	return out
}

func restoreMeasure(name string, kind index.NumericKind, raw []byte) (*index.Measure, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("%w: vector has %d bytes", ErrTruncated, len(raw))
	}
	n := len(raw) / 8
	if kind == index.Int64 {
		values := make([]int64, n)
		for i := range values {
			values[i] = int64(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return index.RestoreIntMeasure(name, values), nil
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return index.RestoreFloatMeasure(name, values), nil
}

package nanocube

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/nanocube/blobstore"
	"github.com/hupe1980/nanocube/persistence"
	"github.com/hupe1980/nanocube/resource"
)

// Save writes the engine to a local snapshot file. The write is atomic:
// a failed save never leaves a partial file behind.
func (nc *NanoCube) Save(path string) error {
	return nc.SaveContext(context.Background(), path)
}

// SaveContext is Save with a context for IO throttling and logging.
func (nc *NanoCube) SaveContext(ctx context.Context, path string) error {
	start := time.Now()

	err := persistence.SaveToFile(path, func(w io.Writer) error {
		return nc.writeSnapshot(ctx, w)
	})

	nc.metrics.RecordSave(time.Since(start), err)
	nc.logger.LogSave(ctx, path, err)
	return err
}

// Load reads a snapshot file into a ready-to-query engine. The row-set
// backend is taken from the file; WithBackend is ignored here.
func Load(path string, optFns ...Option) (*NanoCube, error) {
	return LoadContext(context.Background(), path, optFns...)
}

// LoadContext is Load with a context for IO throttling and logging.
func LoadContext(ctx context.Context, path string, optFns ...Option) (*NanoCube, error) {
	start := time.Now()
	o := applyOptions(optFns)

	var nc *NanoCube
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var err error
		nc, err = readSnapshot(ctx, r, o)
		return err
	})

	o.metrics.RecordLoad(time.Since(start), err)
	o.logger.LogLoad(ctx, path, err)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

// SaveTo writes the engine to a named blob in the given store. On error
// the partial blob is aborted, so a failed save is never visible.
func (nc *NanoCube) SaveTo(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	err := nc.saveTo(ctx, store, name)

	nc.metrics.RecordSave(time.Since(start), err)
	nc.logger.LogSave(ctx, name, err)
	return err
}

func (nc *NanoCube) saveTo(ctx context.Context, store blobstore.BlobStore, name string) error {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create blob %q: %w", name, err)
	}

	if err := nc.writeSnapshot(ctx, wb); err != nil {
		_ = wb.Abort()
		return err
	}
	if err := wb.Close(); err != nil {
		_ = wb.Abort()
		return fmt.Errorf("finalize blob %q: %w", name, err)
	}
	return nil
}

// LoadFrom reads a named blob from the given store into a ready-to-query
// engine.
func LoadFrom(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*NanoCube, error) {
	start := time.Now()
	o := applyOptions(optFns)

	nc, err := loadFrom(ctx, store, name, o)

	o.metrics.RecordLoad(time.Since(start), err)
	o.logger.LogLoad(ctx, name, err)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

func loadFrom(ctx context.Context, store blobstore.BlobStore, name string, o options) (*NanoCube, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open blob %q: %w", name, err)
	}
	defer blob.Close()

	r, err := blob.Reader(ctx)
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", name, err)
	}
	defer r.Close()

	return readSnapshot(ctx, r, o)
}

func (nc *NanoCube) writeSnapshot(ctx context.Context, w io.Writer) error {
	snap := &persistence.Snapshot{
		Backend:    nc.backend,
		Rows:       nc.rows,
		Dimensions: nc.dimensions,
		Measures:   nc.measures,
	}
	return persistence.Write(throttledWriter{ctx: ctx, w: w, rc: nc.rc}, snap, nc.opts.codec, nc.opts.compressor)
}

func readSnapshot(ctx context.Context, r io.Reader, o options) (*NanoCube, error) {
	snap, err := persistence.Read(throttledReader{ctx: ctx, r: r, rc: o.rc})
	if err != nil {
		return nil, err
	}
	// The backend travels with the snapshot; an option-supplied backend
	// never overrides it.
	return assemble(o, o.rc, snap.Backend, snap.Rows, snap.Dimensions, snap.Measures), nil
}

// throttledWriter paces writes through the resource controller's IO
// limiter. A nil controller passes through untouched.
type throttledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *resource.Controller
}

func (t throttledWriter) Write(p []byte) (int, error) {
	if err := t.rc.AcquireIO(t.ctx, len(p)); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}

type throttledReader struct {
	ctx context.Context
	r   io.Reader
	rc  *resource.Controller
}

func (t throttledReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		if aerr := t.rc.AcquireIO(t.ctx, n); aerr != nil {
			return n, aerr
		}
	}
	return n, err
}

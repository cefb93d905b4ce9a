package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore implements BlobStore on the local filesystem. Writes go to a
// temp file and are renamed into place on Close, so readers never observe
// a partial snapshot.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at the given directory, creating
// it if necessary.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open opens an existing blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	fi, err := os.Stat(s.path(name))
	if err != nil {
		return nil, err
	}
	return &localBlob{path: s.path(name), size: fi.Size()}, nil
}

// Create creates a blob for writing.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	_ = tmp.Chmod(0644)
	return &localWritableBlob{f: tmp, tmpName: tmp.Name(), finalName: path}, nil
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List returns all blob names with the given prefix, sorted.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type localBlob struct {
	path string
	size int64
}

func (b *localBlob) Size() int64 { return b.size }

func (b *localBlob) Reader(_ context.Context) (io.ReadCloser, error) {
	return os.Open(b.path)
}

func (b *localBlob) Close() error { return nil }

type localWritableBlob struct {
	f         *os.File
	tmpName   string
	finalName string
	done      bool
}

func (b *localWritableBlob) Write(p []byte) (int, error) { return b.f.Write(p) }

func (b *localWritableBlob) Close() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.f.Sync(); err != nil {
		_ = b.f.Close()
		_ = os.Remove(b.tmpName)
		return err
	}
	if err := b.f.Close(); err != nil {
		_ = os.Remove(b.tmpName)
		return err
	}
	return os.Rename(b.tmpName, b.finalName)
}

func (b *localWritableBlob) Abort() error {
	if b.done {
		return nil
	}
	b.done = true
	_ = b.f.Close()
	return os.Remove(b.tmpName)
}

package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
)

// FileStore keeps the account list in a local file.
type FileStore struct {
	path   string
	prefix uint16
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at given path.
func NewFileStore(path string, prefix uint16) *FileStore {
	return &FileStore{path: path, prefix: prefix}
}

func (s *FileStore) Load(ctx context.Context) ([]linker.AccountLink, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "account file %s", s.path)
		}
		return nil, errors.Wrapf(errors.ErrInvalidState, "read %s: %s", s.path, err)
	}
	links, err := Unmarshal(raw)
	return links, errors.Wrap(err, s.path)
}

// Save writes the account list next to the destination first and renames
// it into place, so a reader never observes a partially written file.
func (s *FileStore) Save(ctx context.Context, links []linker.AccountLink) error {
	raw, err := Marshal(links, s.prefix)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "create temporary file: %s", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrInvalidState, "write %s: %s", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrInvalidState, "sync %s: %s", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "close %s: %s", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "chmod %s: %s", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "rename to %s: %s", s.path, err)
	}
	return nil
}

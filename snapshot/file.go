/*
DESCRIPTION
  file.go provides FileStore, which keeps a single snapshot in a file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package snapshot

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps the latest snapshot in the file at Path, replacing it on
// every save.
type FileStore struct {
	Path string
}

// Save writes s to the file. The file is replaced whole, so a failed save
// leaves the previous snapshot in place.
func (f FileStore) Save(s *Snapshot) error {
	blob, err := encode(s)
	if err != nil {
		return errors.Wrap(err, "could not encode snapshot")
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*")
	if err != nil {
		return errors.Wrap(err, "could not create snapshot file")
	}
	_, err = tmp.Write(blob)
	if err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "could not write snapshot file")
	}
	err = os.Rename(tmp.Name(), f.Path)
	if err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "could not replace snapshot file")
	}
	return nil
}

// Load reads the snapshot in the file, or returns ErrNotFound if there is
// no file.
func (f FileStore) Load() (*Snapshot, error) {
	blob, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read snapshot file")
	}
	var s Snapshot
	err = decode(blob, &s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode snapshot file %s", f.Path)
	}
	return &s, nil
}

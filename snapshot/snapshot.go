/*
DESCRIPTION
  snapshot.go provides Snapshot, a persisted mixture model, and its gob and
  gzip encoding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package snapshot saves and loads mixture models so that a stream can
// resume without relearning its background.
package snapshot

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/bgs/bgs"
)

// ErrNotFound is returned when a store holds no snapshot.
var ErrNotFound = errors.New("no snapshot")

// Snapshot is a mixture model with the algorithm and parameters that
// produced it.
type Snapshot struct {
	ID             int64 // Assigned by the store, if it numbers snapshots.
	TakenUnixNanos int64
	Kind           bgs.Kind
	Params         bgs.Params
	Model          *bgs.Model
	Reason         string
}

// Store persists snapshots.
type Store interface {
	// Save stores s, setting its ID if the store numbers snapshots.
	Save(s *Snapshot) error

	// Load returns the most recently saved snapshot, or ErrNotFound.
	Load() (*Snapshot, error)
}

// Take returns a snapshot of the current model of g.
func Take(g *bgs.GMM, reason string) (*Snapshot, error) {
	m := g.Model()
	if m == nil {
		return nil, errors.New("algorithm has no model yet")
	}
	return &Snapshot{
		TakenUnixNanos: time.Now().UnixNano(),
		Kind:           g.Kind(),
		Params:         g.Params(),
		Model:          m,
		Reason:         reason,
	}, nil
}

// Restore replaces the model of g with the model of s. The snapshot must come
// from the same algorithm.
func (s *Snapshot) Restore(g *bgs.GMM) error {
	if s.Kind != g.Kind() {
		return errors.Errorf("snapshot of %s model cannot restore %s", s.Kind, g.Kind())
	}
	return g.Restore(s.Model)
}

// Taken returns the time the snapshot was taken.
func (s *Snapshot) Taken() time.Time { return time.Unix(0, s.TakenUnixNanos) }

// Encode compresses m using gob encoding and gzip compression.
func Encode(m *bgs.Model) ([]byte, error) {
	return encode(m)
}

// Decode decompresses and decodes a model from a gob and gzip blob.
func Decode(blob []byte) (*bgs.Model, error) {
	var m bgs.Model
	err := decode(blob, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	err := gob.NewEncoder(gz).Encode(v)
	if err != nil {
		gz.Close()
		return nil, errors.Wrap(err, "could not encode")
	}
	err = gz.Close()
	if err != nil {
		return nil, errors.Wrap(err, "could not compress")
	}
	return buf.Bytes(), nil
}

func decode(blob []byte, v any) error {
	if len(blob) == 0 {
		return errors.New("empty blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return errors.Wrap(err, "failed to create gzip reader")
	}
	defer gz.Close()
	err = gob.NewDecoder(gz).Decode(v)
	if err != nil {
		return errors.Wrap(err, "failed to decode")
	}
	return nil
}

/*
DESCRIPTION
  sqlite.go provides SQLiteStore, which keeps every snapshot as a row of a
  SQLite database.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package snapshot

import (
	"database/sql"
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/utils/logging"
)

// schema.sql creates the bg_snapshot table.
//
//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps snapshots in the bg_snapshot table of a SQLite database.
type SQLiteStore struct {
	*sql.DB
	log logging.Logger
}

// OpenSQLite opens, creating if needed, the database at path.
func OpenSQLite(l logging.Logger, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open snapshot database")
	}

	_, err = db.Exec(schemaSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create snapshot schema")
	}

	l.Info("initialised snapshot database", "path", path)
	return &SQLiteStore{DB: db, log: l}, nil
}

// Insert persists s into the bg_snapshot table and returns the new id.
func (st *SQLiteStore) Insert(s *Snapshot) (int64, error) {
	if s == nil || s.Model == nil {
		return 0, errors.New("snapshot has no model")
	}
	params, err := json.Marshal(s.Params)
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal params")
	}
	blob, err := Encode(s.Model)
	if err != nil {
		return 0, errors.Wrap(err, "could not encode model")
	}

	const stmt = `INSERT INTO bg_snapshot (taken_unix_nanos, algorithm, width, height, channels, max_modes, params_json, model_blob, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := st.Exec(stmt, s.TakenUnixNanos, s.Kind.String(), s.Model.Width, s.Model.Height, s.Model.Channels, s.Model.MaxModes, string(params), blob, s.Reason)
	if err != nil {
		return 0, errors.Wrap(err, "could not insert snapshot")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "could not get snapshot id")
	}
	st.log.Debug("inserted snapshot", "id", id, "bytes", len(blob), "reason", s.Reason)
	return id, nil
}

// Latest returns the most recently taken snapshot, or ErrNotFound.
func (st *SQLiteStore) Latest() (*Snapshot, error) {
	const query = `SELECT id, taken_unix_nanos, algorithm, width, height, channels, max_modes, params_json, model_blob, reason
		FROM bg_snapshot ORDER BY taken_unix_nanos DESC, id DESC LIMIT 1`
	var (
		s                        Snapshot
		algorithm, params        string
		w, h, channels, maxModes int
		blob                     []byte
	)
	err := st.QueryRow(query).Scan(&s.ID, &s.TakenUnixNanos, &algorithm, &w, &h, &channels, &maxModes, &params, &blob, &s.Reason)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not query snapshot")
	}

	s.Kind, err = bgs.ParseKind(algorithm)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %d", s.ID)
	}
	err = json.Unmarshal([]byte(params), &s.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal params of snapshot %d", s.ID)
	}
	s.Model, err = Decode(blob)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode model of snapshot %d", s.ID)
	}
	if s.Model.Width != w || s.Model.Height != h || s.Model.Channels != channels || s.Model.MaxModes != maxModes {
		return nil, errors.Errorf("snapshot %d model does not match its recorded dimensions", s.ID)
	}
	return &s, nil
}

// Save implements Store.
func (st *SQLiteStore) Save(s *Snapshot) error {
	id, err := st.Insert(s)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// Load implements Store.
func (st *SQLiteStore) Load() (*Snapshot, error) { return st.Latest() }

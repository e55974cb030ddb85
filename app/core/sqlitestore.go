package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS maps (
	id        INTEGER PRIMARY KEY,
	parent_id INTEGER,
	content   TEXT NOT NULL DEFAULT '',
	image     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS markers (
	id            INTEGER PRIMARY KEY,
	map_id        INTEGER NOT NULL,
	target_map_id INTEGER NOT NULL,
	x             REAL NOT NULL,
	y             REAL NOT NULL,
	image         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS markers_by_map ON markers(map_id);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStore keeps a project in a single SQLite database.
type SQLiteStore struct {
	Path string

	db *sql.DB
}

// sqlID converts an id to an SQLite INTEGER, which is signed.
func sqlID[T ~uint64](id T) (int64, error) {
	if uint64(id) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrIDRange, uint64(id))
	}
	return int64(id), nil
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, newStoreError("open", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		db.Close()
		return nil, newStoreError("open", path, fmt.Errorf("failed to set PRAGMA: %w", err))
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, newStoreError("open", path, fmt.Errorf("failed to initialize schema: %w", err))
	}
	return &SQLiteStore{Path: path, db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Project, error) {
	p := NewProject()

	rows, err := s.db.QueryContext(ctx, "SELECT id, parent_id, content, image FROM maps")
	if err != nil {
		return nil, newStoreError("load", s.Path, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id      int64
			parent  sql.NullInt64
			content string
			image   string
		)
		if err := rows.Scan(&id, &parent, &content, &image); err != nil {
			return nil, newStoreError("load", s.Path, fmt.Errorf("failed to scan map: %w", err))
		}
		if id < 0 || (parent.Valid && parent.Int64 < 0) {
			return nil, newStoreError("load", s.Path, fmt.Errorf("%w: map %d", ErrIDRange, id))
		}
		m := NewMap(MapID(id), image)
		m.Info.Content = content
		if parent.Valid {
			pid := MapID(parent.Int64)
			m.Parent = &pid
		}
		p.AddMap(m)
	}
	if err := rows.Err(); err != nil {
		return nil, newStoreError("load", s.Path, err)
	}

	mrows, err := s.db.QueryContext(ctx, "SELECT id, map_id, target_map_id, x, y, image FROM markers")
	if err != nil {
		return nil, newStoreError("load", s.Path, err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var (
			id, host, target int64
			x, y             float64
			image            string
		)
		if err := mrows.Scan(&id, &host, &target, &x, &y, &image); err != nil {
			return nil, newStoreError("load", s.Path, fmt.Errorf("failed to scan marker: %w", err))
		}
		if id < 0 || host < 0 || target < 0 {
			return nil, newStoreError("load", s.Path, fmt.Errorf("%w: marker %d", ErrIDRange, id))
		}
		m, ok := p.Maps[MapID(host)]
		if !ok {
			continue
		}
		m.Markers[MarkerID(id)] = &Marker{
			Target:   MapID(target),
			Position: V2{X: float32(x), Y: float32(y)},
			Image:    image,
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, newStoreError("load", s.Path, err)
	}

	var current string
	err = s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'current_map'").Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, newStoreError("load", s.Path, err)
	}
	stored, perr := strconv.ParseUint(current, 10, 64)
	haveStored := err == nil && perr == nil
	if err := pickCurrent(p, MapID(stored), haveStored); err != nil {
		return nil, newStoreError("load", s.Path, err)
	}
	return p, nil
}

// Save replaces the stored project in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, p *Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newStoreError("save", s.Path, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM markers", "DELETE FROM maps"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return newStoreError("save", s.Path, err)
		}
	}

	for _, id := range p.SortedMapIDs() {
		m := p.Maps[id]
		hostID, err := sqlID(id)
		if err != nil {
			return newStoreError("save", s.Path, fmt.Errorf("map %d: %w", id, err))
		}
		var parent sql.NullInt64
		if m.Parent != nil {
			pid, err := sqlID(*m.Parent)
			if err != nil {
				return newStoreError("save", s.Path, fmt.Errorf("map %d parent: %w", id, err))
			}
			parent = sql.NullInt64{Int64: pid, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO maps (id, parent_id, content, image) VALUES (?, ?, ?, ?)",
			hostID, parent, m.Info.Content, m.Image,
		)
		if err != nil {
			return newStoreError("save", s.Path, fmt.Errorf("map %d: %w", id, err))
		}
		for _, mid := range m.SortedMarkerIDs() {
			mk := m.Markers[mid]
			markerID, err := sqlID(mid)
			if err != nil {
				return newStoreError("save", s.Path, fmt.Errorf("marker %d: %w", mid, err))
			}
			target, err := sqlID(mk.Target)
			if err != nil {
				return newStoreError("save", s.Path, fmt.Errorf("marker %d target: %w", mid, err))
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO markers (id, map_id, target_map_id, x, y, image) VALUES (?, ?, ?, ?, ?, ?)",
				markerID, hostID, target, mk.Position.X, mk.Position.Y, mk.Image,
			)
			if err != nil {
				return newStoreError("save", s.Path, fmt.Errorf("marker %d: %w", mid, err))
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('current_map', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		strconv.FormatUint(uint64(p.Current), 10),
	)
	if err != nil {
		return newStoreError("save", s.Path, err)
	}

	if err := tx.Commit(); err != nil {
		return newStoreError("save", s.Path, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

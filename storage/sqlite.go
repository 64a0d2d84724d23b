package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"tidbyt.dev/ttgraph/model"
)

type SQLiteConfig struct {
	OnDisk bool
	Path   string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

type SQLiteGraphWriter struct {
	tx           *sql.Tx
	stationQuery *sql.Stmt
	edgeQuery    *sql.Stmt
	timeQuery    *sql.Stmt
}

// Creates a new SQLite Storage. Without config, or with OnDisk unset,
// the database lives in memory.
func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	path := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		path = cfg[0].Path
	}

	sourceName := ":memory:"
	if onDisk {
		if path == "" {
			return nil, fmt.Errorf("on disk storage requires a path")
		}
		sourceName = path
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    lat REAL NOT NULL,
    lon REAL NOT NULL,
PRIMARY KEY (id)
);

CREATE TABLE IF NOT EXISTS edges (
    from_id INTEGER NOT NULL,
    to_id INTEGER NOT NULL,
PRIMARY KEY (from_id, to_id)
);

CREATE TABLE IF NOT EXISTS edge_times (
    from_id INTEGER NOT NULL,
    to_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    departure INTEGER NOT NULL,
    arrival INTEGER NOT NULL,
PRIMARY KEY (from_id, to_id, seq)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk: onDisk,
			Path:   path,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetWriter() (GraphWriter, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	for _, table := range []string{"edge_times", "edges", "stations"} {
		_, err = tx.Exec("DELETE FROM " + table)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	w := &SQLiteGraphWriter{tx: tx}

	w.stationQuery, err = tx.Prepare(`
INSERT INTO stations (id, name, lat, lon)
VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("preparing station insert: %w", err)
	}

	w.edgeQuery, err = tx.Prepare(`
INSERT INTO edges (from_id, to_id)
VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("preparing edge insert: %w", err)
	}

	w.timeQuery, err = tx.Prepare(`
INSERT INTO edge_times (from_id, to_id, seq, departure, arrival)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("preparing edge time insert: %w", err)
	}

	return w, nil
}

func (s *SQLiteStorage) Stations() ([]*model.Station, error) {
	rows, err := s.db.Query(`
SELECT id, name, lat, lon
FROM stations
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	stations := []*model.Station{}
	for rows.Next() {
		st := &model.Station{}
		err := rows.Scan(&st.ID, &st.Name, &st.Lat, &st.Lon)
		if err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, st)
	}

	return stations, rows.Err()
}

func (s *SQLiteStorage) EdgeTimes() ([]EdgeTime, error) {
	rows, err := s.db.Query(`
SELECT t.from_id, t.to_id, t.seq, t.departure, t.arrival
FROM edge_times t
JOIN edges e ON e.from_id = t.from_id AND e.to_id = t.to_id
ORDER BY e.rowid, t.seq`)
	if err != nil {
		return nil, fmt.Errorf("querying edge times: %w", err)
	}
	defer rows.Close()

	times := []EdgeTime{}
	for rows.Next() {
		var et EdgeTime
		err := rows.Scan(&et.FromID, &et.ToID, &et.Seq, &et.Departure, &et.Arrival)
		if err != nil {
			return nil, fmt.Errorf("scanning edge time: %w", err)
		}
		times = append(times, et)
	}

	return times, rows.Err()
}

func (w *SQLiteGraphWriter) WriteStation(station *model.Station) error {
	_, err := w.stationQuery.Exec(station.ID, station.Name, station.Lat, station.Lon)
	if err != nil {
		w.abort()
		return fmt.Errorf("inserting station '%s': %w", station.Name, err)
	}
	return nil
}

func (w *SQLiteGraphWriter) WriteEdge(edge *model.Edge) error {
	_, err := w.edgeQuery.Exec(edge.From.ID, edge.To.ID)
	if err != nil {
		w.abort()
		return fmt.Errorf("inserting edge %d -> %d: %w", edge.From.ID, edge.To.ID, err)
	}

	for i, pair := range edge.Times {
		_, err = w.timeQuery.Exec(edge.From.ID, edge.To.ID, i, pair.Departure(), pair.Arrival())
		if err != nil {
			w.abort()
			return fmt.Errorf("inserting edge time %d -> %d: %w", edge.From.ID, edge.To.ID, err)
		}
	}

	return nil
}

func (w *SQLiteGraphWriter) Close() error {
	if w.tx == nil {
		return fmt.Errorf("writer aborted")
	}

	w.closeStatements()
	err := w.tx.Commit()
	w.tx = nil
	if err != nil {
		return fmt.Errorf("committing graph: %w", err)
	}

	return nil
}

func (w *SQLiteGraphWriter) abort() {
	if w.tx == nil {
		return
	}
	w.closeStatements()
	w.tx.Rollback()
	w.tx = nil
}

func (w *SQLiteGraphWriter) closeStatements() {
	for _, stmt := range []*sql.Stmt{w.stationQuery, w.edgeQuery, w.timeQuery} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

package storage

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"tidbyt.dev/ttgraph/model"
)

type PSQLStorage struct {
	db *sql.DB
}

// Buffers the graph and writes it with COPY on Close.
type PSQLGraphWriter struct {
	db       *sql.DB
	stations []*model.Station
	edges    []*model.Edge
}

// Creates a new Postgres Storage using the provided connection string.
//
// If clearDB is true, the database will be cleared on startup. You
// probably only want this for testing.
func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`
DROP TABLE IF EXISTS edge_times;
DROP TABLE IF EXISTS edges;
DROP TABLE IF EXISTS stations;
`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    lat DOUBLE PRECISION NOT NULL,
    lon DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (id)
);

CREATE TABLE IF NOT EXISTS edges (
    pos INTEGER NOT NULL,
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

	return &PSQLStorage{
		db: db,
	}, nil
}

func (s *PSQLStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (s *PSQLStorage) GetWriter() (GraphWriter, error) {
	return &PSQLGraphWriter{db: s.db}, nil
}

func (s *PSQLStorage) Stations() ([]*model.Station, error) {
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

func (s *PSQLStorage) EdgeTimes() ([]EdgeTime, error) {
	rows, err := s.db.Query(`
SELECT t.from_id, t.to_id, t.seq, t.departure, t.arrival
FROM edge_times t
JOIN edges e ON e.from_id = t.from_id AND e.to_id = t.to_id
ORDER BY e.pos, t.seq`)
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

func (w *PSQLGraphWriter) WriteStation(station *model.Station) error {
	w.stations = append(w.stations, station)
	return nil
}

func (w *PSQLGraphWriter) WriteEdge(edge *model.Edge) error {
	w.edges = append(w.edges, edge)
	return nil
}

func (w *PSQLGraphWriter) Close() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
DELETE FROM edge_times;
DELETE FROM edges;
DELETE FROM stations;`)
	if err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}

	err = copyIn(tx, pq.CopyIn("stations", "id", "name", "lat", "lon"), func(stmt *sql.Stmt) error {
		for _, st := range w.stations {
			if _, err := stmt.Exec(st.ID, st.Name, st.Lat, st.Lon); err != nil {
				return fmt.Errorf("COPY station: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = copyIn(tx, pq.CopyIn("edges", "pos", "from_id", "to_id"), func(stmt *sql.Stmt) error {
		for i, e := range w.edges {
			if _, err := stmt.Exec(i, e.From.ID, e.To.ID); err != nil {
				return fmt.Errorf("COPY edge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = copyIn(tx, pq.CopyIn("edge_times", "from_id", "to_id", "seq", "departure", "arrival"), func(stmt *sql.Stmt) error {
		for _, e := range w.edges {
			for i, pair := range e.Times {
				if _, err := stmt.Exec(e.From.ID, e.To.ID, i, pair.Departure(), pair.Arrival()); err != nil {
					return fmt.Errorf("COPY edge time: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	w.stations = nil
	w.edges = nil

	return nil
}

func copyIn(tx *sql.Tx, query string, rows func(stmt *sql.Stmt) error) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	if err = rows(stmt); err != nil {
		return err
	}

	_, err = stmt.Exec()
	if err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	return nil
}

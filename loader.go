package ttgraph

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
	"tidbyt.dev/ttgraph/parse"
	"tidbyt.dev/ttgraph/storage"
)

const TableExt = ".txt"

// Loads timetable tables into a graph, one table at a time.
type Loader struct {
	Graph  *graph.Graph
	Logger zerolog.Logger
}

func NewLoader(g *graph.Graph, logger zerolog.Logger) *Loader {
	return &Loader{
		Graph:  g,
		Logger: logger,
	}
}

// Lists all tables in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFileAccess, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is not a directory", model.ErrFileAccess, dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*"+TableExt))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}

	tables := []string{}
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrFileAccess, err)
		}
		if fi.IsDir() {
			continue
		}
		tables = append(tables, path)
	}
	sort.Strings(tables)

	return tables, nil
}

// Parses a single table. The file is closed before returning.
func (l *Loader) LoadFile(path string) ([]model.Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFileAccess, err)
	}
	defer f.Close()

	connections, err := parse.ParseTimetable(l.Graph, f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	l.Logger.Debug().
		Str("file", path).
		Int("connections", len(connections)).
		Msg("loaded table")

	if l.Logger.GetLevel() <= zerolog.TraceLevel {
		for _, c := range connections {
			l.Logger.Trace().
				Str("file", path).
				Str("from", c.From.Station.Name).
				Str("departure", c.From.Time).
				Str("to", c.To.Station.Name).
				Str("arrival", c.To.Time).
				Msg("connection")
		}
	}

	return connections, nil
}

// Loads every table in dir. The first failing table aborts the load.
func (l *Loader) LoadDir(dir string) error {
	tables, err := Discover(dir)
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		l.Logger.Warn().Str("dir", dir).Msg("no tables found")
	}

	for _, path := range tables {
		if _, err := l.LoadFile(path); err != nil {
			return err
		}
	}

	l.Logger.Info().
		Int("tables", len(tables)).
		Int("stations", len(l.Graph.Stations())).
		Int("edges", len(l.Graph.Edges())).
		Msg("graph built")

	return nil
}

// Writes all stations and edges of g, then closes the writer.
func Export(g *graph.Graph, w storage.GraphWriter) error {
	for _, st := range g.Stations() {
		if err := w.WriteStation(st); err != nil {
			return fmt.Errorf("exporting station: %w", err)
		}
	}

	for _, e := range g.Edges() {
		if err := w.WriteEdge(e); err != nil {
			return fmt.Errorf("exporting edge: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing graph writer: %w", err)
	}

	return nil
}

package storage

import (
	"tidbyt.dev/ttgraph/model"
)

// Persists a built graph. Used to export the result of an ingestion
// run; the graph itself is always built in memory.
type Storage interface {
	// Gets a writer replacing whatever graph was stored before.
	GetWriter() (GraphWriter, error)

	// Stored stations, ordered by ID.
	Stations() ([]*model.Station, error)

	// Stored edge times, ordered by edge then by position in the
	// edge's time list.
	EdgeTimes() ([]EdgeTime, error)

	Close() error
}

// Writes the stations and edges of a single graph.
//
// Stations must be written before any edge referencing them. Nothing
// is visible to readers until Close() returns successfully.
type GraphWriter interface {
	WriteStation(station *model.Station) error
	WriteEdge(edge *model.Edge) error
	Close() error
}

// One observed traversal of an edge, as stored.
type EdgeTime struct {
	FromID    int
	ToID      int
	Seq       int
	Departure int
	Arrival   int
}

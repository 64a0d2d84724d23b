package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Holds all external facing types and constants.

var (
	// A table file could not be opened or read.
	ErrFileAccess = errors.New("file access")

	// The row reader could not decode a row.
	ErrMalformedRow = errors.New("malformed row")

	// A coordinate or time cell is not a number.
	ErrValueConversion = errors.New("value conversion")
)

// A named physical stop. Only one Station exists per name within a
// graph.
type Station struct {
	ID   int
	Name string
	Lat  float64
	Lon  float64
}

func (s *Station) String() string {
	return fmt.Sprintf("<Station %d %q (%f, %f)>", s.ID, s.Name, s.Lat, s.Lon)
}

// Departure from an edge's origin and arrival at its destination, in
// HHMM encoding.
type TimePair [2]int

func (p TimePair) Departure() int { return p[0] }
func (p TimePair) Arrival() int   { return p[1] }

// A directed connection between two stations, holding every observed
// traversal. Times is append-only and neither sorted nor deduplicated.
type Edge struct {
	From  *Station
	To    *Station
	Times []TimePair
}

func (e *Edge) Append(pair TimePair) {
	e.Times = append(e.Times, pair)
}

func (e *Edge) String() string {
	return fmt.Sprintf("<Edge %s -> %s>", e.From.Name, e.To.Name)
}

// Identifies an edge by its ordered pair of endpoints.
type EdgeKey struct {
	From *Station
	To   *Station
}

// One cell of a run: the station of the row and the raw time value
// from the run's column. Time is empty when the run does not serve
// the station.
type Stop struct {
	Station *Station
	Time    string

	// Position in the source table, 1-based.
	Row    int
	Column int
}

// Same station and same time. Position is not compared.
func (s Stop) Equal(o Stop) bool {
	return s.Station == o.Station && s.Time == o.Time
}

func (s Stop) Served() bool {
	return s.Time != ""
}

// A pair of consecutive served stops that produced an edge.
type Connection struct {
	From Stop
	To   Stop
}

// Converts an "HH:MM" string into its HHMM integer form, e.g. "08:15"
// becomes 815. This is not a duration.
func ParseTime(s string) (int, error) {
	digits := strings.TrimSpace(strings.ReplaceAll(s, ":", ""))
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: time '%s'", ErrValueConversion, s)
	}
	return v, nil
}

// Parses a latitude or longitude cell.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate '%s'", ErrValueConversion, s)
	}
	return v, nil
}

package parse

import (
	"io"

	"github.com/pkg/errors"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
)

// Columns preceding the run columns: name, lat, lon.
const stationColumns = 3

// Parses a timetable table into g. Each row describes a station
// followed by one time cell per run. Every pair of consecutive served
// stops within a run becomes (or extends) an edge.
//
// Returns the connections that produced edges.
func ParseTimetable(g *graph.Graph, data io.Reader) ([]model.Connection, error) {
	rows, err := ReadRows(NewRowReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}

	runs, err := pivot(g, rows)
	if err != nil {
		return nil, err
	}

	connections := []model.Connection{}
	for _, run := range runs {
		for _, conn := range connect(run) {
			dep, err := model.ParseTime(conn.From.Time)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %d", conn.From.Row, conn.From.Column)
			}
			arr, err := model.ParseTime(conn.To.Time)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %d", conn.To.Row, conn.To.Column)
			}

			g.Edge(conn.From.Station, conn.To.Station).Append(model.TimePair{dep, arr})
			connections = append(connections, conn)
		}
	}

	return connections, nil
}

// Resolves the station of every row and transposes the remaining
// cells into one stop sequence per run, in row order. A run's sequence
// only holds the stops it serves: empty cells, and cells missing from
// rows shorter than the widest row, are left out so consecutive
// entries are the nearest served stops.
func pivot(g *graph.Graph, rows []Row) ([][]model.Stop, error) {
	stations := make([]*model.Station, 0, len(rows))
	width := 0

	for _, row := range rows {
		cell := func(i int) string {
			if i < len(row.Cells) {
				return row.Cells[i]
			}
			return ""
		}

		station, err := g.Station(cell(0), cell(1), cell(2))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row.Number)
		}
		stations = append(stations, station)

		if n := len(row.Cells) - stationColumns; n > width {
			width = n
		}
	}

	runs := make([][]model.Stop, width)
	for col := range runs {
		run := []model.Stop{}
		for i, row := range rows {
			c := stationColumns + col
			if c >= len(row.Cells) || row.Cells[c] == "" {
				continue
			}
			run = append(run, model.Stop{
				Station: stations[i],
				Time:    row.Cells[c],
				Row:     row.Number,
				Column:  c + 1,
			})
		}
		runs[col] = run
	}

	return runs, nil
}

// Folds over a run carrying the previous stop, emitting a connection
// for each adjacent pair.
func connect(run []model.Stop) []model.Connection {
	connections := []model.Connection{}

	var prev *model.Stop
	for i := range run {
		curr := run[i]
		if adjacent(prev, curr) {
			connections = append(connections, model.Connection{From: *prev, To: curr})
		}
		prev = &run[i]
	}

	return connections
}

// Both stops served, at different stations. Pair inequality is implied
// by station inequality; both are checked.
func adjacent(prev *model.Stop, curr model.Stop) bool {
	return prev != nil &&
		!prev.Equal(curr) &&
		prev.Station != curr.Station &&
		prev.Served() &&
		curr.Served()
}

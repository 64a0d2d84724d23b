package parse

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
)

func table(lines ...string) *bytes.Buffer {
	return bytes.NewBufferString(strings.Join(lines, "\n"))
}

type edgeSummary struct {
	From  string
	To    string
	Times []model.TimePair
}

func summarize(g *graph.Graph) []edgeSummary {
	summary := []edgeSummary{}
	for _, e := range g.Edges() {
		summary = append(summary, edgeSummary{e.From.Name, e.To.Name, e.Times})
	}
	return summary
}

func TestParseTimetable(t *testing.T) {
	for _, tc := range []struct {
		name     string
		content  *bytes.Buffer
		stations []string
		edges    []edgeSummary
	}{
		{
			"round_trip",
			table(
				"A;40.0;-3.0;08:00",
				"B;41.0;-3.5;08:10",
			),
			[]string{"A", "B"},
			[]edgeSummary{{"A", "B", []model.TimePair{{800, 810}}}},
		},

		{
			"multiple_runs",
			table(
				"A;1;1;08:00;09:00;10:00",
				"B;2;2;08:10;09:10;10:10",
				"C;3;3;08:20;09:20;10:20",
			),
			[]string{"A", "B", "C"},
			[]edgeSummary{
				{"A", "B", []model.TimePair{{800, 810}, {900, 910}, {1000, 1010}}},
				{"B", "C", []model.TimePair{{810, 820}, {910, 920}, {1010, 1020}}},
			},
		},

		{
			"gap_skipping",
			table(
				"S0;1;1;08:00",
				"S1;2;2;",
				"S2;3;3;08:20",
				"S3;4;4;",
				"S4;5;5;08:40",
			),
			[]string{"S0", "S1", "S2", "S3", "S4"},
			[]edgeSummary{
				{"S0", "S2", []model.TimePair{{800, 820}}},
				{"S2", "S4", []model.TimePair{{820, 840}}},
			},
		},

		{
			"runs_serving_different_stops",
			table(
				"A;1;1;08:00;",
				"B;2;2;;09:10",
				"C;3;3;08:20;09:20",
			),
			[]string{"A", "B", "C"},
			[]edgeSummary{
				{"A", "C", []model.TimePair{{800, 820}}},
				{"B", "C", []model.TimePair{{910, 920}}},
			},
		},

		{
			"single_served_stop",
			table(
				"A;1;1;08:00",
				"B;2;2;",
				"C;3;3;",
			),
			[]string{"A", "B", "C"},
			[]edgeSummary{},
		},

		{
			"single_row",
			table("A;1;1;08:00;09:00"),
			[]string{"A"},
			[]edgeSummary{},
		},

		{
			"empty_run",
			table(
				"A;1;1;;08:00",
				"B;2;2;;08:10",
			),
			[]string{"A", "B"},
			[]edgeSummary{{"A", "B", []model.TimePair{{800, 810}}}},
		},

		{
			"headers_and_separators_skipped",
			table(
				"Line 1",
				"",
				"A;1;1;08:00",
				"-",
				"B;2;2;08:10",
			),
			[]string{"A", "B"},
			[]edgeSummary{{"A", "B", []model.TimePair{{800, 810}}}},
		},

		{
			"repeated_station_in_sequence",
			table(
				"A;1;1;08:00",
				"A;1;1;08:05",
				"B;2;2;08:10",
			),
			[]string{"A", "B"},
			[]edgeSummary{{"A", "B", []model.TimePair{{805, 810}}}},
		},

		{
			"loop_back",
			table(
				"A;1;1;08:00",
				"B;2;2;08:10",
				"A;1;1;08:20",
			),
			[]string{"A", "B"},
			[]edgeSummary{
				{"A", "B", []model.TimePair{{800, 810}}},
				{"B", "A", []model.TimePair{{810, 820}}},
			},
		},

		{
			"disagreeing_coordinates_ignored",
			table(
				"A;1;1;08:00",
				"B;2;2;08:10",
				"A;9;9;08:20",
			),
			[]string{"A", "B"},
			[]edgeSummary{
				{"A", "B", []model.TimePair{{800, 810}}},
				{"B", "A", []model.TimePair{{810, 820}}},
			},
		},

		{
			"ragged_rows",
			table(
				"A;1;1;08:00;09:00",
				"B;2;2;08:10",
				"C;3;3;08:20;09:20",
			),
			[]string{"A", "B", "C"},
			[]edgeSummary{
				{"A", "B", []model.TimePair{{800, 810}}},
				{"B", "C", []model.TimePair{{810, 820}}},
				{"A", "C", []model.TimePair{{900, 920}}},
			},
		},

		{
			"bom_stripped",
			table(
				"\ufeffA;1;1;08:00",
				"B;2;2;08:10",
			),
			[]string{"A", "B"},
			[]edgeSummary{{"A", "B", []model.TimePair{{800, 810}}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New()
			_, err := ParseTimetable(g, tc.content)
			require.NoError(t, err)

			names := []string{}
			for i, st := range g.Stations() {
				assert.Equal(t, i, st.ID)
				names = append(names, st.Name)
			}
			assert.Equal(t, tc.stations, names)
			assert.Equal(t, tc.edges, summarize(g))
		})
	}
}

func TestParseTimetableRoundTrip(t *testing.T) {
	g := graph.New()

	connections, err := ParseTimetable(g, table(
		"A;40.0;-3.0;08:00",
		"B;41.0;-3.5;08:10",
	))
	require.NoError(t, err)

	a, _ := g.StationByName("A")
	b, _ := g.StationByName("B")
	assert.Equal(t, &model.Station{ID: 0, Name: "A", Lat: 40.0, Lon: -3.0}, a)
	assert.Equal(t, &model.Station{ID: 1, Name: "B", Lat: 41.0, Lon: -3.5}, b)

	require.Len(t, g.Edges(), 1)
	assert.Same(t, a, g.Edges()[0].From)
	assert.Same(t, b, g.Edges()[0].To)
	assert.Equal(t, []model.TimePair{{800, 810}}, g.Edges()[0].Times)

	assert.Equal(t, []model.Connection{{
		From: model.Stop{Station: a, Time: "08:00", Row: 1, Column: 4},
		To:   model.Stop{Station: b, Time: "08:10", Row: 2, Column: 4},
	}}, connections)
}

func TestParseTimetableAccumulatesAcrossTables(t *testing.T) {
	g := graph.New()

	_, err := ParseTimetable(g, table(
		"A;1;1;08:00",
		"B;2;2;08:10",
	))
	require.NoError(t, err)

	_, err = ParseTimetable(g, table(
		"C;3;3;07:00",
		"A;1;1;07:30",
		"B;2;2;07:40",
	))
	require.NoError(t, err)

	assert.Equal(t, []edgeSummary{
		{"A", "B", []model.TimePair{{800, 810}, {730, 740}}},
		{"C", "A", []model.TimePair{{700, 730}}},
	}, summarize(g))
	assert.Len(t, g.Stations(), 3)
}

func TestParseTimetableMalformedTime(t *testing.T) {
	g := graph.New()

	_, err := ParseTimetable(g, table(
		"A;1;1;08:00",
		"B;2;2;08x00",
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValueConversion))
	assert.Contains(t, err.Error(), "row 2, column 4")
	assert.Empty(t, g.Edges())
}

func TestParseTimetableMalformedTimeAfterValidPair(t *testing.T) {
	g := graph.New()

	_, err := ParseTimetable(g, table(
		"A;1;1;08:00",
		"B;2;2;08:10",
		"C;3;3;8h20",
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValueConversion))

	// No partial recovery, but the B -> C edge never exists.
	assert.Equal(t, []edgeSummary{{"A", "B", []model.TimePair{{800, 810}}}}, summarize(g))
}

func TestParseTimetableMalformedTimeWithoutNeighbour(t *testing.T) {
	// A time that never takes part in an edge is not parsed.
	g := graph.New()

	_, err := ParseTimetable(g, table(
		"A;1;1;garbage",
	))
	require.NoError(t, err)
	assert.Empty(t, g.Edges())
}

func TestParseTimetableBadCoordinates(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content *bytes.Buffer
	}{
		{"bad_lat", table("A;x;1;08:00")},
		{"bad_lon", table("A;1;;08:00")},
		{"missing_lon", table("A;1")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New()
			_, err := ParseTimetable(g, tc.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValueConversion))
			assert.Contains(t, err.Error(), "row 1")
			assert.Empty(t, g.Stations())
		})
	}
}

func TestParseTimetableInvalidUTF8(t *testing.T) {
	g := graph.New()

	_, err := ParseTimetable(g, bytes.NewBuffer([]byte("A;1;1;08:00\nB\xff;2;2;08:10")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedRow))
	assert.Empty(t, g.Edges())
}

func TestParseTimetableEmpty(t *testing.T) {
	g := graph.New()

	connections, err := ParseTimetable(g, table(""))
	require.NoError(t, err)
	assert.Empty(t, connections)
	assert.Empty(t, g.Stations())
}

func TestPivot(t *testing.T) {
	g := graph.New()

	rows, err := ReadRows(NewRowReader(table(
		"A;1;1;08:00;",
		"B;2;2;;09:10;10:10",
		"C;3;3;08:20",
	)))
	require.NoError(t, err)

	runs, err := pivot(g, rows)
	require.NoError(t, err)

	a, _ := g.StationByName("A")
	b, _ := g.StationByName("B")
	c, _ := g.StationByName("C")

	assert.Equal(t, [][]model.Stop{
		{{Station: a, Time: "08:00", Row: 1, Column: 4}, {Station: c, Time: "08:20", Row: 3, Column: 4}},
		{{Station: b, Time: "09:10", Row: 2, Column: 5}},
		{{Station: b, Time: "10:10", Row: 2, Column: 6}},
	}, runs)
}

func TestConnect(t *testing.T) {
	a := &model.Station{ID: 0, Name: "A"}
	b := &model.Station{ID: 1, Name: "B"}
	c := &model.Station{ID: 2, Name: "C"}

	run := []model.Stop{
		{Station: a, Time: "08:00", Row: 1},
		{Station: a, Time: "08:00", Row: 2},
		{Station: b, Time: "", Row: 3},
		{Station: c, Time: "08:20", Row: 4},
		{Station: b, Time: "08:30", Row: 5},
	}

	// The fold advances past unserved stops without bridging them.
	assert.Equal(t, []model.Connection{
		{From: run[3], To: run[4]},
	}, connect(run))

	assert.Empty(t, connect(nil))
	assert.Empty(t, connect(run[:1]))
}

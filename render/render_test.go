package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
)

func buildGraph(t *testing.T) *graph.Graph {
	g := graph.New()

	a, err := g.Station("A", "40.0", "-3.0")
	require.NoError(t, err)
	b, err := g.Station("B", "41.0", "-3.5")
	require.NoError(t, err)
	c, err := g.Station(`Plaza "Mayor"`, "40.4155", "-3.7074")
	require.NoError(t, err)

	g.Edge(a, b).Append(model.TimePair{800, 810})
	g.Edge(b, c).Append(model.TimePair{815, 830})
	g.Edge(a, b).Append(model.TimePair{900, 910})

	return g
}

func TestLiteral(t *testing.T) {
	g := buildGraph(t)

	assert.Equal(t, `var stations = [
{id: 0, name: "A", coords: {lat: 40, lon: -3}},
{id: 1, name: "B", coords: {lat: 41, lon: -3.5}},
{id: 2, name: "Plaza \"Mayor\"", coords: {lat: 40.4155, lon: -3.7074}}
];
var edges = [
[0, 1, [[800, 810], [900, 910]]],
[1, 2, [[815, 830]]]
];
`, Literal(g))
}

func TestLiteralStable(t *testing.T) {
	g := buildGraph(t)

	first := Literal(g)
	assert.Equal(t, first, Literal(g))

	// Lookups don't change anything.
	_, err := g.Station("A", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, first, Literal(g))
}

func TestLiteralEmptyGraph(t *testing.T) {
	assert.Equal(t, "var stations = [\n\n];\nvar edges = [\n\n];\n", Literal(graph.New()))
}

func TestJSON(t *testing.T) {
	g := buildGraph(t)

	buf, err := JSON(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
"stations": [
  {"id": 0, "name": "A", "coords": {"lat": 40, "lon": -3}},
  {"id": 1, "name": "B", "coords": {"lat": 41, "lon": -3.5}},
  {"id": 2, "name": "Plaza \"Mayor\"", "coords": {"lat": 40.4155, "lon": -3.7074}}
],
"edges": [
  [0, 1, [[800, 810], [900, 910]]],
  [1, 2, [[815, 830]]]
]}`, string(buf))

	buf, err = JSON(graph.New())
	require.NoError(t, err)
	assert.JSONEq(t, `{"stations": [], "edges": []}`, string(buf))
}

func TestCSV(t *testing.T) {
	g := buildGraph(t)

	stations, err := StationsCSV(g)
	require.NoError(t, err)
	assert.Equal(t, `station_id,station_name,station_lat,station_lon
0,A,40,-3
1,B,41,-3.5
2,"Plaza ""Mayor""",40.4155,-3.7074
`, stations)

	edges, err := EdgesCSV(g)
	require.NoError(t, err)
	assert.Equal(t, `from_station_id,to_station_id,departure,arrival
0,1,800,810
0,1,900,910
1,2,815,830
`, edges)
}

func TestRender(t *testing.T) {
	g := buildGraph(t)

	js, err := Render(g, FormatJS)
	require.NoError(t, err)
	assert.Equal(t, Literal(g), js)

	j, err := Render(g, FormatJSON)
	require.NoError(t, err)
	buf, err := JSON(g)
	require.NoError(t, err)
	assert.Equal(t, string(buf)+"\n", j)

	c, err := Render(g, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, c, "station_id,station_name")
	assert.Contains(t, c, "from_station_id,to_station_id")

	_, err = Render(g, Format("yaml"))
	assert.Error(t, err)
}

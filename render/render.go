package render

import (
	"fmt"
	"strconv"
	"strings"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
)

type Format string

const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func Formats() []Format {
	return []Format{FormatJS, FormatJSON, FormatCSV}
}

// Renders the graph in the given format.
func Render(g *graph.Graph, format Format) (string, error) {
	switch format {
	case FormatJS:
		return Literal(g), nil
	case FormatJSON:
		buf, err := JSON(g)
		if err != nil {
			return "", err
		}
		return string(buf) + "\n", nil
	case FormatCSV:
		stations, err := StationsCSV(g)
		if err != nil {
			return "", err
		}
		edges, err := EdgesCSV(g)
		if err != nil {
			return "", err
		}
		return stations + "\n" + edges, nil
	}
	return "", fmt.Errorf("unknown format '%s'", format)
}

// Renders the graph as the two variable declarations loaded by the
// viewer: stations as {id, name, coords} records and edges as
// [fromId, toId, times] tuples, both in creation order.
func Literal(g *graph.Graph) string {
	stations := g.Stations()
	edges := g.Edges()

	rendered := make([]string, 0, len(stations))
	for _, st := range stations {
		rendered = append(rendered, stationLiteral(st))
	}

	b := &strings.Builder{}
	b.WriteString("var stations = [\n")
	b.WriteString(strings.Join(rendered, ",\n"))
	b.WriteString("\n];\n")

	rendered = rendered[:0]
	for _, e := range edges {
		rendered = append(rendered, edgeLiteral(e))
	}

	b.WriteString("var edges = [\n")
	b.WriteString(strings.Join(rendered, ",\n"))
	b.WriteString("\n];\n")

	return b.String()
}

func stationLiteral(st *model.Station) string {
	return fmt.Sprintf(
		"{id: %d, name: %s, coords: {lat: %s, lon: %s}}",
		st.ID,
		strconv.Quote(st.Name),
		formatFloat(st.Lat),
		formatFloat(st.Lon),
	)
}

func edgeLiteral(e *model.Edge) string {
	times := make([]string, 0, len(e.Times))
	for _, pair := range e.Times {
		times = append(times, fmt.Sprintf("[%d, %d]", pair.Departure(), pair.Arrival()))
	}
	return fmt.Sprintf("[%d, %d, [%s]]", e.From.ID, e.To.ID, strings.Join(times, ", "))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

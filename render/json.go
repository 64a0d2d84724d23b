package render

import (
	"encoding/json"
	"fmt"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/model"
)

type jsonCoords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type jsonStation struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Coords jsonCoords `json:"coords"`
}

type jsonGraph struct {
	Stations []jsonStation `json:"stations"`

	// [fromId, toId, [[dep, arr], ...]]
	Edges [][3]interface{} `json:"edges"`
}

// Same content as Literal, as a JSON document.
func JSON(g *graph.Graph) ([]byte, error) {
	doc := jsonGraph{
		Stations: []jsonStation{},
		Edges:    [][3]interface{}{},
	}

	for _, st := range g.Stations() {
		doc.Stations = append(doc.Stations, jsonStation{
			ID:     st.ID,
			Name:   st.Name,
			Coords: jsonCoords{Lat: st.Lat, Lon: st.Lon},
		})
	}

	for _, e := range g.Edges() {
		times := e.Times
		if times == nil {
			times = []model.TimePair{}
		}
		doc.Edges = append(doc.Edges, [3]interface{}{e.From.ID, e.To.ID, times})
	}

	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling graph: %w", err)
	}

	return buf, nil
}

package render

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"tidbyt.dev/ttgraph/graph"
)

type StationCSV struct {
	ID   int     `csv:"station_id"`
	Name string  `csv:"station_name"`
	Lat  float64 `csv:"station_lat"`
	Lon  float64 `csv:"station_lon"`
}

// One row per edge time pair.
type EdgeTimeCSV struct {
	FromID    int `csv:"from_station_id"`
	ToID      int `csv:"to_station_id"`
	Departure int `csv:"departure"`
	Arrival   int `csv:"arrival"`
}

func StationsCSV(g *graph.Graph) (string, error) {
	rows := []*StationCSV{}
	for _, st := range g.Stations() {
		rows = append(rows, &StationCSV{
			ID:   st.ID,
			Name: st.Name,
			Lat:  st.Lat,
			Lon:  st.Lon,
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("marshaling stations csv: %w", err)
	}
	return out, nil
}

func EdgesCSV(g *graph.Graph) (string, error) {
	rows := []*EdgeTimeCSV{}
	for _, e := range g.Edges() {
		for _, pair := range e.Times {
			rows = append(rows, &EdgeTimeCSV{
				FromID:    e.From.ID,
				ToID:      e.To.ID,
				Departure: pair.Departure(),
				Arrival:   pair.Arrival(),
			})
		}
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("marshaling edges csv: %w", err)
	}
	return out, nil
}

package graph

import (
	"sort"

	"github.com/pkg/errors"

	"tidbyt.dev/ttgraph/model"
	"tidbyt.dev/ttgraph/registry"
)

// Stations and edges generated during one ingestion run. Every table
// parsed into the same Graph accumulates into the same registries;
// separate runs should use separate Graphs.
type Graph struct {
	stations *registry.Registry[string, *model.Station]
	edges    *registry.Registry[model.EdgeKey, *model.Edge]
}

func New() *Graph {
	return &Graph{
		stations: registry.New[string, *model.Station](),
		edges:    registry.New[model.EdgeKey, *model.Edge](),
	}
}

// Returns the station with the given name, creating it if needed.
//
// Coordinates are only parsed when the station is created. For an
// existing station they are ignored, even if they disagree or don't
// parse.
func (g *Graph) Station(name string, lat string, lon string) (*model.Station, error) {
	return g.stations.Generate(name, func(seq int) (*model.Station, error) {
		latF, err := model.ParseCoordinate(lat)
		if err != nil {
			return nil, errors.Wrapf(err, "lat of station '%s'", name)
		}
		lonF, err := model.ParseCoordinate(lon)
		if err != nil {
			return nil, errors.Wrapf(err, "lon of station '%s'", name)
		}
		return &model.Station{
			ID:   seq,
			Name: name,
			Lat:  latF,
			Lon:  lonF,
		}, nil
	})
}

// Returns the edge from -> to, creating it if needed.
func (g *Graph) Edge(from *model.Station, to *model.Station) *model.Edge {
	edge, _ := g.edges.Generate(model.EdgeKey{From: from, To: to}, func(int) (*model.Edge, error) {
		return &model.Edge{From: from, To: to}, nil
	})
	return edge
}

func (g *Graph) StationByName(name string) (*model.Station, bool) {
	return g.stations.Get(name)
}

// All stations, in order of creation.
func (g *Graph) Stations() []*model.Station {
	return g.stations.All()
}

// All edges, in order of creation.
func (g *Graph) Edges() []*model.Edge {
	return g.edges.All()
}

// Edges leaving station, in order of creation.
func (g *Graph) EdgesFrom(station *model.Station) []*model.Edge {
	edges := []*model.Edge{}
	for _, edge := range g.edges.All() {
		if edge.From == station {
			edges = append(edges, edge)
		}
	}
	return edges
}

// Returns stations ordered by distance from lat,lon.
//
// If limit is >0, at most limit stations are returned.
func (g *Graph) NearbyStations(lat float64, lon float64, limit int) []*model.Station {
	stations := g.stations.All()

	dist := make(map[*model.Station]float64, len(stations))
	for _, st := range stations {
		dist[st] = Distance(lat, lon, st.Lat, st.Lon)
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return dist[stations[i]] < dist[stations[j]]
	})

	if limit > 0 && len(stations) > limit {
		stations = stations[:limit]
	}

	return stations
}

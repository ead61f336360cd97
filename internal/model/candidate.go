package model

import "fmt"

// Coordinate represents geographic coordinates
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ResolutionKind tells the weather fetcher how to look a candidate up
type ResolutionKind string

const (
	ResolutionByName        ResolutionKind = "name"
	ResolutionByCoordinates ResolutionKind = "coordinates"
)

// Resolution is the opaque token carried by a Candidate
type Resolution struct {
	Kind       ResolutionKind `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Coordinate *Coordinate    `json:"coordinate,omitempty"`
}

// ByName builds a name-based resolution
func ByName(name string) Resolution {
	return Resolution{Kind: ResolutionByName, Name: name}
}

// ByCoordinates builds a coordinate-based resolution
func ByCoordinates(lat, lon float64) Resolution {
	return Resolution{Kind: ResolutionByCoordinates, Coordinate: &Coordinate{Lat: lat, Lon: lon}}
}

func (r Resolution) String() string {
	if r.Kind == ResolutionByCoordinates && r.Coordinate != nil {
		return fmt.Sprintf("%g,%g", r.Coordinate.Lat, r.Coordinate.Lon)
	}
	return r.Name
}

// Candidate is one suggested place
type Candidate struct {
	Label      string     `json:"label"`
	Resolution Resolution `json:"resolution"`
}

// SuggestResponse is the JSON body of the suggest endpoint
type SuggestResponse struct {
	Results []Candidate `json:"results"`
}

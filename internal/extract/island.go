package extract

import (
	"encoding/json"
	"strings"
)

// The hydration island is a JSON payload the listing page embeds inside a
// single marker element. Only the shape needed for location data is decoded.
type island struct {
	Listing *struct {
		Properties []struct {
			Location *IslandLocation `json:"location"`
		} `json:"properties"`
	} `json:"listing"`
}

// IslandLocation is the location block of the last listed property.
type IslandLocation struct {
	Latitude     *float64    `json:"latitude"`
	Longitude    *float64    `json:"longitude"`
	Address      *string     `json:"address"`
	StreetNumber *string     `json:"streetNumber"`
	Microzone    *namedPlace `json:"microzone"`
	City         *namedPlace `json:"city"`
}

type namedPlace struct {
	Name *string `json:"name"`
}

// CityName returns the city name, if present.
func (l *IslandLocation) CityName() *string {
	if l == nil || l.City == nil {
		return nil
	}
	return l.City.Name
}

// ZoneName returns the microzone name, if present.
func (l *IslandLocation) ZoneName() *string {
	if l == nil || l.Microzone == nil {
		return nil
	}
	return l.Microzone.Name
}

// DecodeIsland decodes the JSON found strictly between the first '>' and the
// last '<' of line. It reports false when the delimiters are missing, the JSON
// does not decode, or the listing, its properties or the last property's
// location are absent.
func DecodeIsland(line string) (*IslandLocation, bool) {
	start := strings.IndexByte(line, '>')
	end := strings.LastIndexByte(line, '<')
	if start < 0 || end < 0 || end <= start {
		return nil, false
	}
	// encoding/json matches keys case-insensitively, so "Listing" decodes
	// like "listing".
	var isl island
	if err := json.Unmarshal([]byte(line[start+1:end]), &isl); err != nil {
		return nil, false
	}
	if isl.Listing == nil || len(isl.Listing.Properties) == 0 {
		return nil, false
	}
	loc := isl.Listing.Properties[len(isl.Listing.Properties)-1].Location
	if loc == nil {
		return nil, false
	}
	return loc, true
}

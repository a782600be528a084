package extract

import "testing"

func TestDecodeIsland_LastProperty(t *testing.T) {
	line := `<script id="js-hydration">{"listing":{"properties":[` +
		`{"location":{"city":{"name":"Torino"}}},` +
		`{"location":{"latitude":45.5,"address":"Via Roma","streetNumber":"2","microzone":{"name":"Centro"},"city":{"name":"Milano"}}}]}}</script>`
	loc, ok := DecodeIsland(line)
	if !ok {
		t.Fatal("expected location")
	}
	if got := loc.CityName(); got == nil || *got != "Milano" {
		t.Fatalf("city = %v", got)
	}
	if got := loc.ZoneName(); got == nil || *got != "Centro" {
		t.Fatalf("zone = %v", got)
	}
	if loc.Latitude == nil || *loc.Latitude != 45.5 {
		t.Fatalf("latitude = %v", loc.Latitude)
	}
	if loc.Longitude != nil {
		t.Fatalf("longitude should be absent, got %v", *loc.Longitude)
	}
}

func TestDecodeIsland_Misses(t *testing.T) {
	cases := map[string]string{
		"no delimiters":    `{"listing":{}}`,
		"bad json":         `<x>{"listing":</x>`,
		"no listing":       `<x>{}</x>`,
		"empty properties": `<x>{"listing":{"properties":[]}}</x>`,
		"last no location": `<x>{"listing":{"properties":[{"location":{}},{}]}}</x>`,
		"reversed":         `<x`,
	}
	for name, line := range cases {
		if _, ok := DecodeIsland(line); ok {
			t.Errorf("%s: expected miss", name)
		}
	}
}

func TestIslandLocation_NilSafe(t *testing.T) {
	var loc *IslandLocation
	if loc.CityName() != nil || loc.ZoneName() != nil {
		t.Fatal("nil location should yield nil names")
	}
}

func TestDecodeIsland_KeyCase(t *testing.T) {
	line := `<x>{"Listing":{"Properties":[{"Location":{"City":{"Name":"Milano"}}}]}}</x>`
	loc, ok := DecodeIsland(line)
	if !ok {
		t.Fatal("capitalised keys should decode")
	}
	if got := loc.CityName(); got == nil || *got != "Milano" {
		t.Fatalf("city = %v", got)
	}
}

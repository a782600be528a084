package extract

// StructuredDataPass reads location data from the JSON hydration island.
// The island is authoritative for names, so city, zone and street overwrite
// earlier values; coordinates only fill gaps.
type StructuredDataPass struct {
	Island []string
}

// NewStructuredDataPass builds the pass from m.
func NewStructuredDataPass(m Markers) StructuredDataPass {
	return StructuredDataPass{Island: m.Island}
}

func (StructuredDataPass) Name() string { return "structured-data" }

func (StructuredDataPass) Policy() Policy {
	return Policy{
		FieldCity:      Overwrite,
		FieldStreet:    Overwrite,
		FieldZone:      Overwrite,
		FieldLatitude:  FillIfAbsent,
		FieldLongitude: FillIfAbsent,
	}
}

func (p StructuredDataPass) Scan(doc Document) (Record, error) {
	line, ok := doc.firstLine(p.Island)
	if !ok {
		return Record{}, nil
	}
	loc, ok := DecodeIsland(line)
	if !ok {
		return Record{}, nil
	}
	rec := Record{
		City:      loc.CityName(),
		Zone:      loc.ZoneName(),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	if loc.Address != nil && loc.StreetNumber != nil {
		rec.Street = ptr(*loc.Address + ", " + *loc.StreetNumber)
	}
	return rec, nil
}

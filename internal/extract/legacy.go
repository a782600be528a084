package extract

import "strings"

// LegacyScanPass is the fallback for the older single-line page layout.
// Every field is filled only when still absent and every parse failure is
// ignored.
type LegacyScanPass struct {
	Markers Markers
}

// NewLegacyScanPass builds the pass from m.
func NewLegacyScanPass(m Markers) LegacyScanPass {
	return LegacyScanPass{Markers: m}
}

func (LegacyScanPass) Name() string { return "legacy-scan" }

func (LegacyScanPass) Policy() Policy {
	p := make(Policy, len(Fields))
	for _, f := range Fields {
		p[f] = FillIfAbsent
	}
	return p
}

func (p LegacyScanPass) Scan(doc Document) (Record, error) {
	m := p.Markers
	var rec Record

	if line, ok := doc.firstLine(m.LegacyRooms); ok {
		if n, ok := ParseUInt(line, m.LegacyRoomsSuffix...); ok {
			rec.RoomCount = &n
		}
	}

	if m.AreaUnit != "" && m.ListItem != "" {
		for _, line := range doc.Lines() {
			if !strings.Contains(line, m.AreaUnit) || !strings.Contains(line, m.ListItem) {
				continue
			}
			before, _, _ := strings.Cut(line, m.AreaUnit)
			if n, ok := ParseUInt(before); ok {
				rec.AreaSqm = &n
			}
			break
		}
	}

	if line, ok := doc.firstLine(m.MonthlyCost); ok {
		if n, ok := ParseUInt(line, m.MonthlyCost...); ok {
			rec.MonthlyCost = &n
		}
	}

	rec.Latitude = p.coordinate(doc, m.Latitude)
	rec.Longitude = p.coordinate(doc, m.Longitude)

	// Map-list headers precede street, zone and city, in that order. With
	// fewer than three entries the positions overlap on purpose.
	var names []string
	for w := range doc.Windows(2) {
		if containsAny(w[0], m.MapListHeader) {
			names = append(names, strings.TrimSpace(w[1]))
		}
	}
	if len(names) > 0 {
		rec.Street = ptr(names[0])
		rec.City = ptr(names[len(names)-1])
	}
	if len(names) > 1 {
		rec.Zone = ptr(names[1])
	}
	return rec, nil
}

func (p LegacyScanPass) coordinate(doc Document, markers []string) *float64 {
	line, ok := doc.firstLine(markers)
	if !ok {
		return nil
	}
	strip := append(append([]string(nil), markers...), p.Markers.CoordinateTrailer...)
	v, ok := ParseDecimal(line, strip...)
	if !ok {
		return nil
	}
	return &v
}

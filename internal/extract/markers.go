package extract

// Markers holds every literal substring the passes look for. A marker list
// matches a line when any of its entries is a substring of it. Supporting a
// new page layout means adding entries here, not touching the passes.
type Markers struct {
	// Planimetry: the label line is followed by the value line.
	RoomsLabel []string `yaml:"roomsLabel" json:"roomsLabel"`
	AreaLabel  []string `yaml:"areaLabel" json:"areaLabel"`

	// Element carrying the JSON hydration island.
	Island []string `yaml:"island" json:"island"`

	// Price triples: label line, one line, then the amount line.
	PriceLabels []string `yaml:"priceLabels" json:"priceLabels"`
	Currency    []string `yaml:"currency" json:"currency"`
	PriceUnits  []string `yaml:"priceUnits" json:"priceUnits"`

	// Legacy single-line layout.
	LegacyRooms       []string `yaml:"legacyRooms" json:"legacyRooms"`
	LegacyRoomsSuffix []string `yaml:"legacyRoomsSuffix" json:"legacyRoomsSuffix"`
	AreaUnit          string   `yaml:"areaUnit" json:"areaUnit"`
	ListItem          string   `yaml:"listItem" json:"listItem"`
	MonthlyCost       []string `yaml:"monthlyCost" json:"monthlyCost"`
	Latitude          []string `yaml:"latitude" json:"latitude"`
	Longitude         []string `yaml:"longitude" json:"longitude"`
	CoordinateTrailer []string `yaml:"coordinateTrailer" json:"coordinateTrailer"`
	MapListHeader     []string `yaml:"mapListHeader" json:"mapListHeader"`
}

// DefaultMarkers returns the markers of the immobiliare.it listing layout.
func DefaultMarkers() Markers {
	return Markers{
		RoomsLabel: []string{`="im-mainFeatures__label">locali`},
		AreaLabel:  []string{`="im-mainFeatures__label">superficie`},

		Island: []string{`id="js-hydration">`},

		PriceLabels: []string{">prezzo<", ">spese condominio<"},
		Currency:    []string{"€"},
		PriceUnits:  []string{"/mese"},

		LegacyRooms:       []string{" locali<"},
		LegacyRoomsSuffix: []string{" locali"},
		AreaUnit:          "m²",
		ListItem:          "<li>",
		MonthlyCost:       []string{"€/mese"},
		Latitude:          []string{"latitude: '"},
		Longitude:         []string{"longitude: '"},
		CoordinateTrailer: []string{"',"},
		MapListHeader:     []string{"header-map-list"},
	}
}

// Overlay returns m with every non-empty field of o replacing its
// counterpart.
func (m Markers) Overlay(o Markers) Markers {
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = append([]string(nil), src...)
		}
	}
	pick(&m.RoomsLabel, o.RoomsLabel)
	pick(&m.AreaLabel, o.AreaLabel)
	pick(&m.Island, o.Island)
	pick(&m.PriceLabels, o.PriceLabels)
	pick(&m.Currency, o.Currency)
	pick(&m.PriceUnits, o.PriceUnits)
	pick(&m.LegacyRooms, o.LegacyRooms)
	pick(&m.LegacyRoomsSuffix, o.LegacyRoomsSuffix)
	pick(&m.MonthlyCost, o.MonthlyCost)
	pick(&m.Latitude, o.Latitude)
	pick(&m.Longitude, o.Longitude)
	pick(&m.CoordinateTrailer, o.CoordinateTrailer)
	pick(&m.MapListHeader, o.MapListHeader)
	if o.AreaUnit != "" {
		m.AreaUnit = o.AreaUnit
	}
	if o.ListItem != "" {
		m.ListItem = o.ListItem
	}
	return m
}

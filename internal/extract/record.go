package extract

// Record is the best-effort structured view of one listing page. Every field
// is independently optional: nil means no pass produced a value for it, which
// is a normal outcome and not an error.
type Record struct {
	City        *string  `json:"city"`
	Zone        *string  `json:"zone"`
	Street      *string  `json:"street"`
	Latitude    *float64 `json:"lat"`
	Longitude   *float64 `json:"lng"`
	RoomCount   *uint32  `json:"rooms_number"`
	AreaSqm     *uint32  `json:"square_meters"`
	MonthlyCost *uint32  `json:"cost"`
}

// Field names a Record field by its wire name.
type Field string

const (
	FieldCity        Field = "city"
	FieldZone        Field = "zone"
	FieldStreet      Field = "street"
	FieldLatitude    Field = "lat"
	FieldLongitude   Field = "lng"
	FieldRoomCount   Field = "rooms_number"
	FieldAreaSqm     Field = "square_meters"
	FieldMonthlyCost Field = "cost"
)

// Fields lists every Record field in wire order.
var Fields = []Field{
	FieldCity, FieldZone, FieldStreet,
	FieldLatitude, FieldLongitude,
	FieldRoomCount, FieldAreaSqm, FieldMonthlyCost,
}

// IsEmpty reports whether no field is set.
func (r Record) IsEmpty() bool {
	return r.City == nil && r.Zone == nil && r.Street == nil &&
		r.Latitude == nil && r.Longitude == nil &&
		r.RoomCount == nil && r.AreaSqm == nil && r.MonthlyCost == nil
}

// Has reports whether field f holds a value.
func (r Record) Has(f Field) bool {
	switch f {
	case FieldCity:
		return r.City != nil
	case FieldZone:
		return r.Zone != nil
	case FieldStreet:
		return r.Street != nil
	case FieldLatitude:
		return r.Latitude != nil
	case FieldLongitude:
		return r.Longitude != nil
	case FieldRoomCount:
		return r.RoomCount != nil
	case FieldAreaSqm:
		return r.AreaSqm != nil
	case FieldMonthlyCost:
		return r.MonthlyCost != nil
	}
	return false
}

func ptr[T any](v T) *T { return &v }

package extract

// PlanimetryPass reads the room count and surface area from the main
// features block, where each label line is followed by its value line.
//
// Unlike every other pass it does not tolerate a bad value: a label whose
// value line is not an integer fails the whole extraction with a
// *ParseError.
type PlanimetryPass struct {
	RoomsLabel []string
	AreaLabel  []string
}

// NewPlanimetryPass builds the pass from m.
func NewPlanimetryPass(m Markers) PlanimetryPass {
	return PlanimetryPass{RoomsLabel: m.RoomsLabel, AreaLabel: m.AreaLabel}
}

func (PlanimetryPass) Name() string { return "planimetry" }

func (PlanimetryPass) Policy() Policy {
	return Policy{
		FieldRoomCount: Overwrite,
		FieldAreaSqm:   Overwrite,
	}
}

func (p PlanimetryPass) Scan(doc Document) (Record, error) {
	var rec Record
	var err error
	if rec.RoomCount, err = p.value(doc, p.RoomsLabel, FieldRoomCount); err != nil {
		return Record{}, err
	}
	if rec.AreaSqm, err = p.value(doc, p.AreaLabel, FieldAreaSqm); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (p PlanimetryPass) value(doc Document, labels []string, f Field) (*uint32, error) {
	line, ok := doc.followingLine(labels)
	if !ok {
		return nil, nil
	}
	n, err := ParseUIntStrict(line)
	if err != nil {
		return nil, &ParseError{Pass: p.Name(), Field: f, Line: line, Err: err}
	}
	return &n, nil
}

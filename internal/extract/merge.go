package extract

import (
	"cmp"
	"fmt"
)

// Rule decides how a pass's candidate value is folded into the record.
type Rule int

const (
	// Overwrite replaces the current value whenever a candidate exists.
	Overwrite Rule = iota + 1
	// FillIfAbsent sets the field only while it holds no value.
	FillIfAbsent
	// OverwriteIfPositive replaces the current value only when the candidate
	// is greater than the zero value.
	OverwriteIfPositive
)

func (r Rule) String() string {
	switch r {
	case Overwrite:
		return "overwrite"
	case FillIfAbsent:
		return "fill-if-absent"
	case OverwriteIfPositive:
		return "overwrite-if-positive"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Policy maps each field a pass may write to its merge rule. Candidates for
// fields missing from the policy are discarded.
type Policy map[Field]Rule

// Merge folds candidates into dst according to policy and returns the
// result. dst itself is not modified.
func Merge(dst, candidates Record, policy Policy) Record {
	out := dst
	out.City = mergeField(policy[FieldCity], dst.City, candidates.City)
	out.Zone = mergeField(policy[FieldZone], dst.Zone, candidates.Zone)
	out.Street = mergeField(policy[FieldStreet], dst.Street, candidates.Street)
	out.Latitude = mergeField(policy[FieldLatitude], dst.Latitude, candidates.Latitude)
	out.Longitude = mergeField(policy[FieldLongitude], dst.Longitude, candidates.Longitude)
	out.RoomCount = mergeField(policy[FieldRoomCount], dst.RoomCount, candidates.RoomCount)
	out.AreaSqm = mergeField(policy[FieldAreaSqm], dst.AreaSqm, candidates.AreaSqm)
	out.MonthlyCost = mergeField(policy[FieldMonthlyCost], dst.MonthlyCost, candidates.MonthlyCost)
	return out
}

func mergeField[T cmp.Ordered](rule Rule, cur, cand *T) *T {
	if cand == nil {
		return cur
	}
	switch rule {
	case Overwrite:
		return cand
	case FillIfAbsent:
		if cur == nil {
			return cand
		}
	case OverwriteIfPositive:
		var zero T
		if *cand > zero {
			return cand
		}
	}
	return cur
}

// Package activity links learning activities to the concepts they practice.
package activity

import (
	"encoding/json"

	"github.com/scigraph/kg/internal/record"
)

// Collection is the knowledge-base key holding activity records.
const Collection = "activities"

// Activity is a learning exercise attached to one concept by name.
type Activity struct {
	Name          string `json:"activity_name"`
	ParentConcept string `json:"parent_concept,omitempty"`
}

// Record is the checked form of one raw activity: either a usable Activity
// or the reason it was excluded.
type Record struct {
	Position int
	Activity Activity
	Err      error // *record.MalformedError when the record is unusable
}

// Decode checks one raw activity record. A missing activity_name makes the
// record malformed. A missing parent_concept does not; such activities are
// reported as orphans by Link.
func Decode(position int, raw json.RawMessage) Record {
	rec := Record{Position: position}

	r, err := record.Open(Collection, position, raw)
	if err != nil {
		rec.Err = err
		return rec
	}
	if rec.Activity.Name, err = r.RequiredString("activity_name"); err != nil {
		rec.Err = err
		return rec
	}
	if rec.Activity.ParentConcept, _, err = r.OptionalString("parent_concept"); err != nil {
		rec.Err = err
		return rec
	}
	return rec
}

// DecodeAll checks every raw record in order.
func DecodeAll(raws []json.RawMessage) []Record {
	records := make([]Record, len(raws))
	for i, raw := range raws {
		records[i] = Decode(i, raw)
	}
	return records
}

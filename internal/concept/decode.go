package concept

import (
	"encoding/json"

	"github.com/scigraph/kg/internal/record"
)

// Collection is the knowledge-base key holding concept records.
const Collection = "concepts"

// requiredFields maps Validate errors to the field they reject.
var requiredFields = map[error]string{
	ErrEmptyName:   "concept_name",
	ErrEmptyDomain: "domain",
	ErrEmptyStrand: "strand",
}

// Decode checks one raw concept record. Records missing concept_name,
// domain or strand, or carrying fields of the wrong type, return a
// *record.MalformedError.
func Decode(position int, raw json.RawMessage) (Concept, error) {
	r, err := record.Open(Collection, position, raw)
	if err != nil {
		return Concept{}, err
	}

	var c Concept
	if c.Name, _, err = r.OptionalString("concept_name"); err != nil {
		return Concept{}, err
	}
	if c.Domain, _, err = r.OptionalString("domain"); err != nil {
		return Concept{}, err
	}
	if c.Strand, _, err = r.OptionalString("strand"); err != nil {
		return Concept{}, err
	}
	if err := c.Validate(); err != nil {
		return Concept{}, r.Missing(requiredFields[err], err)
	}
	if c.BriefExplanation, _, err = r.OptionalString("brief_explanation"); err != nil {
		return Concept{}, err
	}
	if c.ChapterReferences, err = r.OptionalStrings("chapter_references"); err != nil {
		return Concept{}, err
	}
	if c.CognitiveLevel, _, err = r.OptionalString("cognitive_level"); err != nil {
		return Concept{}, err
	}
	if c.Interconnections, err = r.OptionalStrings("interconnections"); err != nil {
		return Concept{}, err
	}
	return c, nil
}

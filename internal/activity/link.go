package activity

import (
	"strings"

	"github.com/scigraph/kg/internal/record"
)

// Orphan reasons.
const (
	ReasonMissingParent = "missing_parent"
	ReasonUnknownParent = "unknown_parent"
)

// Orphan is an activity whose parent concept does not resolve.
type Orphan struct {
	ActivityName  string `json:"activity_name"`
	ParentConcept string `json:"parent_concept,omitempty"`
	Reason        string `json:"reason"`      // "missing_parent" or "unknown_parent"
	Occurrences   int    `json:"occurrences"` // Identical records folded into this entry
}

// Linkage partitions activities into linked, orphaned and malformed.
// It is immutable once Link returns.
type Linkage struct {
	byConcept map[string][]Activity
	linked    int
	orphans   []Orphan
	malformed []*record.MalformedError
}

type orphanKey struct {
	name   string
	parent string
}

// Link groups well-formed activities under their parent concept when the
// parent is in validNames. Everything else is an orphan, folded by
// (activity_name, parent_concept). Malformed records land in neither
// partition.
func Link(records []Record, validNames map[string]bool) *Linkage {
	l := &Linkage{byConcept: make(map[string][]Activity)}
	seenLinked := make(map[orphanKey]bool)
	orphanAt := make(map[orphanKey]int)

	for _, rec := range records {
		if rec.Err != nil {
			if me, ok := rec.Err.(*record.MalformedError); ok {
				l.malformed = append(l.malformed, me)
			} else {
				l.malformed = append(l.malformed, &record.MalformedError{
					Collection: Collection,
					Position:   rec.Position,
				})
			}
			continue
		}

		a := rec.Activity
		key := orphanKey{name: a.Name, parent: a.ParentConcept}

		if validNames[a.ParentConcept] {
			if seenLinked[key] {
				continue
			}
			seenLinked[key] = true
			l.byConcept[a.ParentConcept] = append(l.byConcept[a.ParentConcept], a)
			l.linked++
			continue
		}

		if i, ok := orphanAt[key]; ok {
			l.orphans[i].Occurrences++
			continue
		}
		reason := ReasonUnknownParent
		if strings.TrimSpace(a.ParentConcept) == "" {
			reason = ReasonMissingParent
		}
		orphanAt[key] = len(l.orphans)
		l.orphans = append(l.orphans, Orphan{
			ActivityName:  a.Name,
			ParentConcept: a.ParentConcept,
			Reason:        reason,
			Occurrences:   1,
		})
	}

	return l
}

// ForConcept returns the activities linked to the named concept.
func (l *Linkage) ForConcept(name string) []Activity {
	return l.byConcept[name]
}

// LinkedCount returns the number of distinct linked activities.
func (l *Linkage) LinkedCount() int {
	return l.linked
}

// Orphans returns orphaned activities in first-seen order.
func (l *Linkage) Orphans() []Orphan {
	return l.orphans
}

// Malformed returns the excluded records.
func (l *Linkage) Malformed() []*record.MalformedError {
	return l.malformed
}

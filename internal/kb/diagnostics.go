package kb

import (
	"errors"
	"fmt"

	"github.com/scigraph/kg/internal/activity"
	"github.com/scigraph/kg/internal/concept"
	"github.com/scigraph/kg/internal/edge"
	"github.com/scigraph/kg/internal/record"
)

// Diagnostic kinds.
const (
	KindMalformedConcept       = "malformed_concept"
	KindMalformedActivity      = "malformed_activity"
	KindDuplicateConcept       = "duplicate_concept"
	KindDanglingInterconnected = "dangling_interconnection"
	KindSelfInterconnection    = "self_interconnection"
	KindOrphanedActivity       = "orphaned_activity"
	KindAnchorCollision        = "anchor_id_collision"
)

// Diagnostic is one data-quality finding. None of them stop a load.
type Diagnostic struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Name      string `json:"name,omitempty"`      // Concept or activity the finding is about
	Reference string `json:"reference,omitempty"` // Name that failed to resolve
	Field     string `json:"field,omitempty"`
	Position  *int   `json:"position,omitempty"` // Index in the source collection
	Count     int    `json:"count,omitempty"`
}

func intPtr(i int) *int { return &i }

func (kb *KnowledgeBase) add(d Diagnostic) {
	kb.Diagnostics = append(kb.Diagnostics, d)
}

// addMalformed records an excluded concept or activity.
func (kb *KnowledgeBase) addMalformed(err error) {
	var me *record.MalformedError
	if !errors.As(err, &me) {
		kb.add(Diagnostic{Kind: KindMalformedConcept, Message: err.Error()})
		return
	}
	kind := KindMalformedConcept
	if me.Collection == activity.Collection {
		kind = KindMalformedActivity
	}
	kb.add(Diagnostic{
		Kind:     kind,
		Message:  me.Error(),
		Field:    me.Field,
		Position: intPtr(me.Position),
	})
}

// addDuplicate records a rejected concept. Index positions are relative to
// the decoded slice; positions maps them back to the source collection.
func (kb *KnowledgeBase) addDuplicate(d concept.Duplicate, positions []int) {
	pos, first := positions[d.Position], positions[d.FirstPosition]
	kb.add(Diagnostic{
		Kind:     KindDuplicateConcept,
		Message:  fmt.Sprintf("concept %q at %s[%d] duplicates %s[%d]; keeping the first", d.Name, concept.Collection, pos, concept.Collection, first),
		Name:     d.Name,
		Position: intPtr(pos),
	})
}

func (kb *KnowledgeBase) collectLinkDiagnostics() {
	for _, me := range kb.Links.Malformed() {
		kb.addMalformed(me)
	}
	for _, o := range kb.Links.Orphans() {
		msg := fmt.Sprintf("activity %q references unknown concept %q", o.ActivityName, o.ParentConcept)
		if o.Reason == activity.ReasonMissingParent {
			msg = fmt.Sprintf("activity %q has no parent_concept", o.ActivityName)
		}
		kb.add(Diagnostic{
			Kind:      KindOrphanedActivity,
			Message:   msg,
			Name:      o.ActivityName,
			Reference: o.ParentConcept,
			Count:     o.Occurrences,
		})
	}
}

func (kb *KnowledgeBase) collectGraphDiagnostics() {
	for _, r := range kb.Graph.RenamedAnchors {
		kb.add(Diagnostic{
			Kind:      KindAnchorCollision,
			Message:   fmt.Sprintf("concept %q has the same ID as a %s anchor; the anchor is %q in the graph", r.Natural, r.Kind, r.ID),
			Name:      r.Natural,
			Reference: r.ID,
		})
	}
	for _, d := range kb.Graph.Dropped {
		switch d.Reason {
		case edge.ReasonSelfReference:
			kb.add(Diagnostic{
				Kind:    KindSelfInterconnection,
				Message: fmt.Sprintf("concept %q lists itself as an interconnection", d.SourceID),
				Name:    d.SourceID,
			})
		default:
			kb.add(Diagnostic{
				Kind:      KindDanglingInterconnected,
				Message:   fmt.Sprintf("concept %q links to unknown concept %q", d.SourceID, d.TargetID),
				Name:      d.SourceID,
				Reference: d.TargetID,
			})
		}
	}
}

// DiagnosticsOfKind filters diagnostics by kind.
func (kb *KnowledgeBase) DiagnosticsOfKind(kind string) []Diagnostic {
	var out []Diagnostic
	for _, d := range kb.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Package edge defines concept interconnections: undirected peer links
// between two concepts declared in either concept's interconnections list.
package edge

import (
	"errors"

	"github.com/scigraph/kg/internal/concept"
)

// Edge is an undirected relationship between two concepts. SourceID is the
// concept that declared the link; the pair identity ignores direction.
type Edge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// Validation errors.
var (
	ErrEmptySourceID = errors.New("source_id is required")
	ErrEmptyTargetID = errors.New("target_id is required")
	ErrSelfEdge      = errors.New("source_id and target_id cannot be the same")
)

// Validate checks that both endpoints are named and distinct.
func (e *Edge) Validate() error {
	if e.SourceID == "" {
		return ErrEmptySourceID
	}
	if e.TargetID == "" {
		return ErrEmptyTargetID
	}
	if e.SourceID == e.TargetID {
		return ErrSelfEdge
	}
	return nil
}

// Key returns the direction-independent identity of the edge.
func (e *Edge) Key() PairKey {
	if e.SourceID <= e.TargetID {
		return PairKey{A: e.SourceID, B: e.TargetID}
	}
	return PairKey{A: e.TargetID, B: e.SourceID}
}

// PairKey is an unordered concept pair with A <= B.
type PairKey struct {
	A string
	B string
}

// Dropped reasons.
const (
	ReasonMissingTarget = "missing_target"
	ReasonSelfReference = "self_reference"
)

// DroppedEdge describes an interconnection that was not materialized.
type DroppedEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Reason   string `json:"reason"` // "missing_target" or "self_reference"
}

// Resolve walks each concept's interconnections in input order and returns
// one edge per unordered pair whose endpoints are both in validNames. Links
// to unknown concepts and links from a concept to itself are returned as
// dropped. A pair declared from both sides yields a single edge oriented the
// way it was first declared.
func Resolve(concepts []concept.Concept, validNames map[string]bool) (edges []Edge, dropped []DroppedEdge) {
	seen := make(map[PairKey]bool)

	for _, c := range concepts {
		for _, linked := range c.Interconnections {
			e := Edge{SourceID: c.Name, TargetID: linked}

			if !validNames[linked] {
				dropped = append(dropped, DroppedEdge{
					SourceID: e.SourceID,
					TargetID: e.TargetID,
					Reason:   ReasonMissingTarget,
				})
				continue
			}
			if e.Validate() == ErrSelfEdge {
				dropped = append(dropped, DroppedEdge{
					SourceID: e.SourceID,
					TargetID: e.TargetID,
					Reason:   ReasonSelfReference,
				})
				continue
			}

			key := e.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, e)
		}
	}
	return edges, dropped
}

// FindMirroredPairs reports pairs declared from both sides. These are not
// errors; the count is informational for data maintainers.
func FindMirroredPairs(concepts []concept.Concept, validNames map[string]bool) []PairKey {
	declaredBy := make(map[PairKey]map[string]bool)
	var order []PairKey

	for _, c := range concepts {
		for _, linked := range c.Interconnections {
			if !validNames[linked] || linked == c.Name {
				continue
			}
			e := Edge{SourceID: c.Name, TargetID: linked}
			key := e.Key()
			if declaredBy[key] == nil {
				declaredBy[key] = make(map[string]bool)
				order = append(order, key)
			}
			declaredBy[key][c.Name] = true
		}
	}

	var mirrored []PairKey
	for _, key := range order {
		if len(declaredBy[key]) > 1 {
			mirrored = append(mirrored, key)
		}
	}
	return mirrored
}

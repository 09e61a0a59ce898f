// Package viz assembles the three-tier knowledge graph and renders it for
// Cytoscape.js.
package viz

import "github.com/scigraph/kg/internal/edge"

// Node kinds.
const (
	NodeKindDomain  = "domain"
	NodeKindStrand  = "strand"
	NodeKindConcept = "concept"
)

// Edge kinds.
const (
	EdgeKindContainsStrand  = "contains_strand"
	EdgeKindContainsConcept = "contains_concept"
	EdgeKindInterconnection = "interconnection"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Interconnections that were not materialized as edges.
	Dropped []edge.DroppedEdge `json:"dropped,omitempty"`

	// Anchors whose natural ID was taken by a concept name.
	RenamedAnchors []AnchorRename `json:"renamed_anchors,omitempty"`
}

// AnchorRename records an anchor that received a suffixed ID because a
// concept already uses its natural one.
type AnchorRename struct {
	Kind    string `json:"kind"`    // "domain" or "strand"
	Natural string `json:"natural"` // ID the anchor would normally have
	ID      string `json:"id"`      // ID actually assigned
}

// Node represents a domain anchor, strand anchor or concept.
type Node struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "domain", "strand" or "concept"

	// Display
	Label    string `json:"label"`
	Weight   int    `json:"weight"`
	Color    string `json:"color"`
	Shape    string `json:"shape"`
	FontSize int    `json:"fontSize"`
	Bold     bool   `json:"bold,omitempty"`

	// Grouping
	Domain string `json:"domain"`
	Strand string `json:"strand,omitempty"`

	// Concept-specific fields (for the detail panel)
	Explanation     string   `json:"explanation,omitempty"`
	Chapters        []string `json:"chapters,omitempty"`
	CognitiveLevel  string   `json:"cognitiveLevel,omitempty"`
	Activities      []string `json:"activities,omitempty"`
	ConnectionCount int      `json:"connectionCount"`
}

// Edge represents a hierarchy link or a concept interconnection.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
	Color  string `json:"color"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// CountByKind returns the number of nodes of each kind.
func (g *GraphData) CountByKind() map[string]int {
	counts := make(map[string]int, 3)
	for _, n := range g.Nodes {
		counts[n.Kind]++
	}
	return counts
}

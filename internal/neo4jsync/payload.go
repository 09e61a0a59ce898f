package neo4jsync

import (
	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/viz"
)

// Payload holds the UNWIND parameter lists for one sync. Every row is a
// plain map so it can be passed to the driver unchanged.
type Payload struct {
	Domains    []map[string]any
	Strands    []map[string]any
	Concepts   []map[string]any
	Activities []map[string]any
	HasStrand  []map[string]any
	HasConcept []map[string]any
	RelatedTo  []map[string]any
	Practices  []map[string]any
}

// activityID identifies an activity by name and parent; the same name under
// two concepts yields two nodes.
func activityID(name, parent string) string {
	return name + "@" + parent
}

// BuildPayload flattens the graph and linked activities. Orphaned
// activities are not exported.
func BuildPayload(base *kb.KnowledgeBase, syncedAt string) Payload {
	var p Payload

	for _, n := range base.Graph.Nodes {
		switch n.Kind {
		case viz.NodeKindDomain:
			p.Domains = append(p.Domains, map[string]any{
				"id":        n.ID,
				"name":      n.Label,
				"color":     n.Color,
				"synced_at": syncedAt,
			})
		case viz.NodeKindStrand:
			p.Strands = append(p.Strands, map[string]any{
				"id":        n.ID,
				"name":      n.Label,
				"domain":    n.Domain,
				"synced_at": syncedAt,
			})
		case viz.NodeKindConcept:
			p.Concepts = append(p.Concepts, map[string]any{
				"id":                 n.ID,
				"name":               n.Label,
				"domain":             n.Domain,
				"strand":             n.Strand,
				"brief_explanation":  n.Explanation,
				"chapter_references": stringsOrEmpty(n.Chapters),
				"cognitive_level":    n.CognitiveLevel,
				"synced_at":          syncedAt,
			})
			for _, a := range base.Links.ForConcept(n.ID) {
				id := activityID(a.Name, a.ParentConcept)
				p.Activities = append(p.Activities, map[string]any{
					"id":        id,
					"name":      a.Name,
					"synced_at": syncedAt,
				})
				p.Practices = append(p.Practices, map[string]any{
					"from_id": id,
					"to_id":   n.ID,
				})
			}
		}
	}

	for _, e := range base.Graph.Edges {
		rel := map[string]any{"from_id": e.Source, "to_id": e.Target}
		switch e.Kind {
		case viz.EdgeKindContainsStrand:
			p.HasStrand = append(p.HasStrand, rel)
		case viz.EdgeKindContainsConcept:
			p.HasConcept = append(p.HasConcept, rel)
		case viz.EdgeKindInterconnection:
			p.RelatedTo = append(p.RelatedTo, rel)
		}
	}
	return p
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package viz

import (
	"fmt"
	"net/url"

	"github.com/scigraph/kg/internal/activity"
	"github.com/scigraph/kg/internal/concept"
	"github.com/scigraph/kg/internal/edge"
	"github.com/scigraph/kg/internal/hierarchy"
)

// Node ID prefixes for the anchor tiers. Concept nodes use the bare
// concept name so a widget selection can be matched against the index.
const (
	domainPrefix = "domain:"
	strandPrefix = "strand:"
)

// DomainNodeID returns the natural node ID of a domain anchor.
func DomainNodeID(domain string) string {
	return domainPrefix + domain
}

// StrandNodeID returns the natural node ID of a strand anchor. Both parts are path
// escaped so distinct (domain, strand) pairs never share an ID.
func StrandNodeID(key hierarchy.StrandKey) string {
	return strandPrefix + url.PathEscape(key.Domain) + "/" + url.PathEscape(key.Strand)
}

// anchorIDs assigns anchor IDs that never equal a concept name. Concept
// nodes keep their bare name; a colliding anchor gets "#2", "#3", ...
type anchorIDs struct {
	taken   map[string]bool
	domains map[string]string
	strands map[hierarchy.StrandKey]string
	renamed []AnchorRename
}

func newAnchorIDs(h *hierarchy.Hierarchy, conceptNames map[string]bool) *anchorIDs {
	a := &anchorIDs{
		taken:   make(map[string]bool, len(conceptNames)),
		domains: make(map[string]string),
		strands: make(map[hierarchy.StrandKey]string),
	}
	for name := range conceptNames {
		a.taken[name] = true
	}
	for _, d := range h.Domains() {
		a.domains[d] = a.claim(NodeKindDomain, DomainNodeID(d))
	}
	for _, key := range h.Groups() {
		a.strands[key] = a.claim(NodeKindStrand, StrandNodeID(key))
	}
	return a
}

func (a *anchorIDs) claim(kind, natural string) string {
	id := natural
	for n := 2; a.taken[id]; n++ {
		id = fmt.Sprintf("%s#%d", natural, n)
	}
	a.taken[id] = true
	if id != natural {
		a.renamed = append(a.renamed, AnchorRename{Kind: kind, Natural: natural, ID: id})
	}
	return id
}

// Assemble builds the node and edge sets for the knowledge graph. links may
// be nil; when present, concept nodes carry their activity names.
//
// The result depends only on the inputs: running it twice yields the same
// nodes and edges in the same order.
func Assemble(idx *concept.Index, h *hierarchy.Hierarchy, links *activity.Linkage) *GraphData {
	concepts := idx.Concepts()
	interconnections, dropped := edge.Resolve(concepts, idx.Names())

	connectionCounts := make(map[string]int)
	for _, e := range interconnections {
		connectionCounts[e.SourceID]++
		connectionCounts[e.TargetID]++
	}

	ids := newAnchorIDs(h, idx.Names())

	nodes := buildDomainNodes(h, ids)
	nodes = append(nodes, buildStrandNodes(h, ids)...)
	nodes = append(nodes, buildConceptNodes(concepts, connectionCounts, links)...)

	edges := buildHierarchyEdges(h, ids)
	edges = append(edges, buildInterconnectionEdges(interconnections)...)

	return &GraphData{
		Nodes:          nodes,
		Edges:          edges,
		Dropped:        dropped,
		RenamedAnchors: ids.renamed,
	}
}

// buildDomainNodes constructs one anchor per distinct domain.
func buildDomainNodes(h *hierarchy.Hierarchy, ids *anchorIDs) []Node {
	nodes := make([]Node, 0, len(h.Domains()))
	for _, d := range h.Domains() {
		nodes = append(nodes, Node{
			ID:       ids.domains[d],
			Kind:     NodeKindDomain,
			Label:    d,
			Weight:   domainStyle.Weight,
			Color:    domainStyle.colorFor(d),
			Shape:    domainStyle.Shape,
			FontSize: domainStyle.FontSize,
			Bold:     domainStyle.Bold,
			Domain:   d,
		})
	}
	return nodes
}

// buildStrandNodes constructs one anchor per (domain, strand) pair.
func buildStrandNodes(h *hierarchy.Hierarchy, ids *anchorIDs) []Node {
	nodes := make([]Node, 0, len(h.Groups()))
	for _, key := range h.Groups() {
		nodes = append(nodes, Node{
			ID:       ids.strands[key],
			Kind:     NodeKindStrand,
			Label:    key.Strand,
			Weight:   strandStyle.Weight,
			Color:    strandStyle.colorFor(key.Domain),
			Shape:    strandStyle.Shape,
			FontSize: strandStyle.FontSize,
			Domain:   key.Domain,
			Strand:   key.Strand,
		})
	}
	return nodes
}

// buildConceptNodes constructs nodes for all concepts with their connection counts.
func buildConceptNodes(concepts []concept.Concept, connectionCounts map[string]int, links *activity.Linkage) []Node {
	nodes := make([]Node, 0, len(concepts))
	for _, c := range concepts {
		n := Node{
			ID:              c.Name,
			Kind:            NodeKindConcept,
			Label:           c.Name,
			Weight:          conceptStyle.Weight,
			Color:           conceptStyle.colorFor(c.Domain),
			Shape:           conceptStyle.Shape,
			FontSize:        conceptStyle.FontSize,
			Domain:          c.Domain,
			Strand:          c.Strand,
			Explanation:     c.BriefExplanation,
			Chapters:        c.ChapterReferences,
			CognitiveLevel:  c.CognitiveLevel,
			ConnectionCount: connectionCounts[c.Name],
		}
		if links != nil {
			for _, a := range links.ForConcept(c.Name) {
				n.Activities = append(n.Activities, a.Name)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// buildHierarchyEdges links every domain to its strands and every strand to
// its concepts.
func buildHierarchyEdges(h *hierarchy.Hierarchy, ids *anchorIDs) []Edge {
	var edges []Edge
	for _, key := range h.Groups() {
		edges = append(edges, Edge{
			Source: ids.domains[key.Domain],
			Target: ids.strands[key],
			Kind:   EdgeKindContainsStrand,
			Color:  containsStrandColor,
		})
	}
	for _, key := range h.Groups() {
		strandID := ids.strands[key]
		for _, name := range h.Concepts(key.Domain, key.Strand) {
			edges = append(edges, Edge{
				Source: strandID,
				Target: name,
				Kind:   EdgeKindContainsConcept,
				Color:  containsConceptColor,
			})
		}
	}
	return edges
}

// buildInterconnectionEdges converts resolved interconnections to graph edges.
func buildInterconnectionEdges(interconnections []edge.Edge) []Edge {
	edges := make([]Edge, 0, len(interconnections))
	for _, e := range interconnections {
		edges = append(edges, Edge{
			Source: e.SourceID,
			Target: e.TargetID,
			Kind:   EdgeKindInterconnection,
			Color:  interconnectionColor,
		})
	}
	return edges
}

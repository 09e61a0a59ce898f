// Package hierarchy derives the Tier-1 (domain) and Tier-2 (strand)
// groupings from a flat concept list.
package hierarchy

import "github.com/scigraph/kg/internal/concept"

// StrandKey identifies a Tier-2 group. A strand label is scoped to its
// domain, so the same label under two domains is two distinct keys.
type StrandKey struct {
	Domain string `json:"domain"`
	Strand string `json:"strand"`
}

// Hierarchy holds the derived groupings. Every listing preserves the order
// in which values were first seen in the input.
type Hierarchy struct {
	domains        []string
	strands        map[string][]string
	groups         []StrandKey
	conceptsByPair map[StrandKey][]string
}

// Build groups concepts by domain and by (domain, strand).
func Build(concepts []concept.Concept) *Hierarchy {
	h := &Hierarchy{
		strands:        make(map[string][]string),
		conceptsByPair: make(map[StrandKey][]string),
	}

	for _, c := range concepts {
		if _, ok := h.strands[c.Domain]; !ok {
			h.domains = append(h.domains, c.Domain)
			h.strands[c.Domain] = nil
		}

		key := StrandKey{Domain: c.Domain, Strand: c.Strand}
		if _, ok := h.conceptsByPair[key]; !ok {
			h.groups = append(h.groups, key)
			h.strands[c.Domain] = append(h.strands[c.Domain], c.Strand)
		}
		h.conceptsByPair[key] = append(h.conceptsByPair[key], c.Name)
	}

	return h
}

// Domains returns the distinct domains.
func (h *Hierarchy) Domains() []string {
	return h.domains
}

// Strands returns the strand labels observed under domain.
func (h *Hierarchy) Strands(domain string) []string {
	return h.strands[domain]
}

// Groups returns every (domain, strand) pair.
func (h *Hierarchy) Groups() []StrandKey {
	return h.groups
}

// Concepts returns the concept names filed under the given pair.
func (h *Hierarchy) Concepts(domain, strand string) []string {
	return h.conceptsByPair[StrandKey{Domain: domain, Strand: strand}]
}

// Package concept defines the core domain type for Tier-3 concept nodes
// and the name index built over them.
package concept

import (
	"errors"
	"strings"
)

// Concept represents an atomic learning topic in the knowledge base.
type Concept struct {
	Name              string   `json:"concept_name"`                 // Required, unique across the knowledge base
	Domain            string   `json:"domain"`                       // Required, Tier-1 grouping
	Strand            string   `json:"strand"`                       // Required, Tier-2 grouping scoped to Domain
	BriefExplanation  string   `json:"brief_explanation,omitempty"`  // Optional
	ChapterReferences []string `json:"chapter_references,omitempty"` // Optional, ordered
	CognitiveLevel    string   `json:"cognitive_level,omitempty"`    // Optional
	Interconnections  []string `json:"interconnections,omitempty"`   // Optional, may name unknown concepts
}

// Validation errors.
var (
	ErrEmptyName       = errors.New("concept_name is required")
	ErrEmptyDomain     = errors.New("domain is required")
	ErrEmptyStrand     = errors.New("strand is required")
	ErrConceptNotFound = errors.New("concept not found")
)

// Validate checks that the identity and grouping fields are present.
// Whitespace-only values count as missing.
func (c *Concept) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Domain) == "" {
		return ErrEmptyDomain
	}
	if strings.TrimSpace(c.Strand) == "" {
		return ErrEmptyStrand
	}
	return nil
}

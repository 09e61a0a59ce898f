// Package kb loads the JSON knowledge base and derives everything the graph
// and detail views need from it, collecting data-quality diagnostics along
// the way.
package kb

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/scigraph/kg/internal/activity"
	"github.com/scigraph/kg/internal/concept"
	"github.com/scigraph/kg/internal/edge"
	"github.com/scigraph/kg/internal/hierarchy"
	"github.com/scigraph/kg/internal/viz"
)

// ErrLoadFailure wraps every fatal load error. Nothing is recovered when it
// is returned.
var ErrLoadFailure = errors.New("knowledge base load failed")

// KnowledgeBase is the fully derived, read-only view of one load. It is
// never mutated after Parse returns and can be shared across sessions.
type KnowledgeBase struct {
	Source      string
	Digest      string // blake2b-256 of the source bytes, hex encoded
	Index       *concept.Index
	Hierarchy   *hierarchy.Hierarchy
	Links       *activity.Linkage
	Graph       *viz.GraphData
	Diagnostics []Diagnostic

	rawConcepts   int
	rawActivities int
}

// document is the top-level shape of the knowledge base file.
type document struct {
	Concepts   *[]json.RawMessage `json:"concepts"`
	Activities *[]json.RawMessage `json:"activities"`
}

// Load reads and parses the knowledge base at path.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadFailure, path, err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, err
	}
	kb.Source = path
	return kb, nil
}

// Parse builds a KnowledgeBase from raw JSON. Only structural failures of the
// document itself are errors; problems with individual records become
// diagnostics.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %v", ErrLoadFailure, err)
	}
	if doc.Concepts == nil {
		return nil, fmt.Errorf("%w: missing %q collection", ErrLoadFailure, concept.Collection)
	}
	var rawActivities []json.RawMessage
	if doc.Activities != nil {
		rawActivities = *doc.Activities
	}

	sum := blake2b.Sum256(data)
	kb := &KnowledgeBase{
		Digest:        hex.EncodeToString(sum[:]),
		rawConcepts:   len(*doc.Concepts),
		rawActivities: len(rawActivities),
	}

	concepts, positions := kb.decodeConcepts(*doc.Concepts)

	kb.Index = concept.NewIndex(concepts)
	for _, d := range kb.Index.Duplicates() {
		kb.addDuplicate(d, positions)
	}

	kb.Hierarchy = hierarchy.Build(kb.Index.Concepts())
	kb.Links = activity.Link(activity.DecodeAll(rawActivities), kb.Index.Names())
	kb.Graph = viz.Assemble(kb.Index, kb.Hierarchy, kb.Links)

	kb.collectLinkDiagnostics()
	kb.collectGraphDiagnostics()

	return kb, nil
}

// decodeConcepts validates every raw concept, returning the usable ones and
// their positions in the source collection.
func (kb *KnowledgeBase) decodeConcepts(raws []json.RawMessage) ([]concept.Concept, []int) {
	concepts := make([]concept.Concept, 0, len(raws))
	positions := make([]int, 0, len(raws))

	for i, raw := range raws {
		c, err := concept.Decode(i, raw)
		if err != nil {
			kb.addMalformed(err)
			continue
		}
		concepts = append(concepts, c)
		positions = append(positions, i)
	}
	return concepts, positions
}

// Stats summarizes a load.
type Stats struct {
	ConceptRecords   int `json:"concept_records"`
	ActivityRecords  int `json:"activity_records"`
	Concepts         int `json:"concepts"`
	Domains          int `json:"domains"`
	Strands          int `json:"strands"`
	Nodes            int `json:"nodes"`
	Edges            int `json:"edges"`
	MirroredPairs    int `json:"mirrored_pairs"`
	LinkedActivities int `json:"linked_activities"`
	Orphans          int `json:"orphaned_activities"`
	Malformed        int `json:"malformed_records"`
	Diagnostics      int `json:"diagnostics"`
}

// Stats returns record and graph counts for the load.
func (kb *KnowledgeBase) Stats() Stats {
	malformed := 0
	for _, d := range kb.Diagnostics {
		if d.Kind == KindMalformedConcept || d.Kind == KindMalformedActivity {
			malformed++
		}
	}
	return Stats{
		ConceptRecords:   kb.rawConcepts,
		ActivityRecords:  kb.rawActivities,
		Concepts:         kb.Index.Len(),
		Domains:          len(kb.Hierarchy.Domains()),
		Strands:          len(kb.Hierarchy.Groups()),
		Nodes:            len(kb.Graph.Nodes),
		Edges:            len(kb.Graph.Edges),
		MirroredPairs:    len(edge.FindMirroredPairs(kb.Index.Concepts(), kb.Index.Names())),
		LinkedActivities: kb.Links.LinkedCount(),
		Orphans:          len(kb.Links.Orphans()),
		Malformed:        malformed,
		Diagnostics:      len(kb.Diagnostics),
	}
}

package edge

import (
	"testing"

	"github.com/scigraph/kg/internal/concept"
)

func TestEdge_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{name: "valid edge", edge: Edge{SourceID: "Heat", TargetID: "Temperature"}, wantErr: nil},
		{name: "empty source_id", edge: Edge{TargetID: "Temperature"}, wantErr: ErrEmptySourceID},
		{name: "empty target_id", edge: Edge{SourceID: "Heat"}, wantErr: ErrEmptyTargetID},
		{name: "self edge", edge: Edge{SourceID: "Heat", TargetID: "Heat"}, wantErr: ErrSelfEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.edge.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdge_KeyIsUnordered(t *testing.T) {
	ab := Edge{SourceID: "A", TargetID: "B"}
	ba := Edge{SourceID: "B", TargetID: "A"}

	if ab.Key() != ba.Key() {
		t.Errorf("Key() differs by direction: %v vs %v", ab.Key(), ba.Key())
	}
	if got := ba.Key(); got.A != "A" || got.B != "B" {
		t.Errorf("Key() = %v, want A <= B", got)
	}
}

func TestResolve(t *testing.T) {
	valid := map[string]bool{"A": true, "B": true, "C": true}

	tests := []struct {
		name        string
		concepts    []concept.Concept
		wantEdges   []Edge
		wantDropped []DroppedEdge
	}{
		{
			name: "declared from one side",
			concepts: []concept.Concept{
				{Name: "A"},
				{Name: "B", Interconnections: []string{"A"}},
			},
			wantEdges: []Edge{{SourceID: "B", TargetID: "A"}},
		},
		{
			name: "declared from both sides yields one edge",
			concepts: []concept.Concept{
				{Name: "A", Interconnections: []string{"B"}},
				{Name: "B", Interconnections: []string{"A"}},
			},
			wantEdges: []Edge{{SourceID: "A", TargetID: "B"}},
		},
		{
			name: "repeated entry on one side yields one edge",
			concepts: []concept.Concept{
				{Name: "A", Interconnections: []string{"B", "B"}},
				{Name: "B"},
			},
			wantEdges: []Edge{{SourceID: "A", TargetID: "B"}},
		},
		{
			name: "dangling reference is dropped",
			concepts: []concept.Concept{
				{Name: "A", Interconnections: []string{"Ghost", "C"}},
			},
			wantEdges:   []Edge{{SourceID: "A", TargetID: "C"}},
			wantDropped: []DroppedEdge{{SourceID: "A", TargetID: "Ghost", Reason: ReasonMissingTarget}},
		},
		{
			name: "self reference is dropped",
			concepts: []concept.Concept{
				{Name: "A", Interconnections: []string{"A"}},
			},
			wantDropped: []DroppedEdge{{SourceID: "A", TargetID: "A", Reason: ReasonSelfReference}},
		},
		{
			name:     "no interconnections",
			concepts: []concept.Concept{{Name: "A"}, {Name: "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, dropped := Resolve(tt.concepts, valid)

			if len(edges) != len(tt.wantEdges) {
				t.Fatalf("got %d edges, want %d: %v", len(edges), len(tt.wantEdges), edges)
			}
			for i, want := range tt.wantEdges {
				if edges[i] != want {
					t.Errorf("edge %d = %+v, want %+v", i, edges[i], want)
				}
			}

			if len(dropped) != len(tt.wantDropped) {
				t.Fatalf("got %d dropped, want %d: %v", len(dropped), len(tt.wantDropped), dropped)
			}
			for i, want := range tt.wantDropped {
				if dropped[i] != want {
					t.Errorf("dropped %d = %+v, want %+v", i, dropped[i], want)
				}
			}
		})
	}
}

func TestResolve_OnePairPerUnorderedKey(t *testing.T) {
	valid := map[string]bool{"A": true, "B": true, "C": true}
	concepts := []concept.Concept{
		{Name: "A", Interconnections: []string{"B", "C"}},
		{Name: "B", Interconnections: []string{"A", "C"}},
		{Name: "C", Interconnections: []string{"A", "B"}},
	}

	edges, _ := Resolve(concepts, valid)

	counts := make(map[PairKey]int)
	for _, e := range edges {
		counts[e.Key()]++
	}
	if len(counts) != 3 {
		t.Errorf("got %d distinct pairs, want 3", len(counts))
	}
	for key, n := range counts {
		if n != 1 {
			t.Errorf("pair %v appears %d times, want 1", key, n)
		}
	}
}

func TestFindMirroredPairs(t *testing.T) {
	valid := map[string]bool{"A": true, "B": true, "C": true}
	concepts := []concept.Concept{
		{Name: "A", Interconnections: []string{"B", "C", "Ghost"}},
		{Name: "B", Interconnections: []string{"A"}},
		{Name: "C"},
	}

	mirrored := FindMirroredPairs(concepts, valid)

	if len(mirrored) != 1 {
		t.Fatalf("got %d mirrored pairs, want 1: %v", len(mirrored), mirrored)
	}
	if mirrored[0] != (PairKey{A: "A", B: "B"}) {
		t.Errorf("mirrored[0] = %v, want {A B}", mirrored[0])
	}
}

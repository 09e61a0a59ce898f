package concept

import (
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		concept Concept
		wantErr error
	}{
		{
			name: "valid concept",
			concept: Concept{
				Name:              "Photosynthesis",
				Domain:            "Biology (The Living World)",
				Strand:            "Nutrition",
				BriefExplanation:  "Plants make food using sunlight.",
				ChapterReferences: []string{"Ch 1"},
			},
			wantErr: nil,
		},
		{
			name:    "optional fields absent",
			concept: Concept{Name: "Heat", Domain: "Physics (The Physical World)", Strand: "Energy"},
			wantErr: nil,
		},
		{
			name:    "empty name",
			concept: Concept{Domain: "Physics (The Physical World)", Strand: "Energy"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace name",
			concept: Concept{Name: "   ", Domain: "Physics (The Physical World)", Strand: "Energy"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty domain",
			concept: Concept{Name: "Heat", Strand: "Energy"},
			wantErr: ErrEmptyDomain,
		},
		{
			name:    "empty strand",
			concept: Concept{Name: "Heat", Domain: "Physics (The Physical World)"},
			wantErr: ErrEmptyStrand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.concept.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewIndex_RoundTrip(t *testing.T) {
	concepts := []Concept{
		{Name: "Heat", Domain: "Physics (The Physical World)", Strand: "Energy", Interconnections: []string{"Temperature"}},
		{Name: "Temperature", Domain: "Physics (The Physical World)", Strand: "Energy"},
		{Name: "Acids", Domain: "Chemistry (The World of Matter)", Strand: "Substances", ChapterReferences: []string{"Ch 5", "Ch 6"}},
	}

	idx := NewIndex(concepts)

	if idx.Len() != len(concepts) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(concepts))
	}
	if len(idx.Duplicates()) != 0 {
		t.Errorf("Duplicates() = %v, want none", idx.Duplicates())
	}

	for _, c := range concepts {
		got, ok := idx.Get(c.Name)
		if !ok {
			t.Errorf("Get(%q) not found", c.Name)
			continue
		}
		if !reflect.DeepEqual(got, c) {
			t.Errorf("Get(%q) = %+v, want %+v", c.Name, got, c)
		}
		if !idx.Has(c.Name) {
			t.Errorf("Has(%q) = false", c.Name)
		}
	}

	names := idx.Names()
	if len(names) != len(concepts) {
		t.Errorf("Names() has %d entries, want %d", len(names), len(concepts))
	}

	if _, ok := idx.Get("Ghost"); ok {
		t.Error("Get(Ghost) should not be found")
	}
}

func TestNewIndex_DuplicateKeepsFirst(t *testing.T) {
	concepts := []Concept{
		{Name: "Water", Domain: "Chemistry (The World of Matter)", Strand: "Substances", BriefExplanation: "first"},
		{Name: "Soil", Domain: "Earth & Space Science", Strand: "Soil"},
		{Name: "Water", Domain: "Earth & Space Science", Strand: "Water Cycle", BriefExplanation: "second"},
	}

	idx := NewIndex(concepts)

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}

	water, ok := idx.Get("Water")
	if !ok {
		t.Fatal("Get(Water) not found")
	}
	if water.BriefExplanation != "first" {
		t.Errorf("retained explanation = %q, want first occurrence", water.BriefExplanation)
	}

	dups := idx.Duplicates()
	if len(dups) != 1 {
		t.Fatalf("Duplicates() has %d entries, want 1", len(dups))
	}
	want := Duplicate{Name: "Water", Position: 2, FirstPosition: 0}
	if dups[0] != want {
		t.Errorf("Duplicates()[0] = %+v, want %+v", dups[0], want)
	}

	ordered := idx.Concepts()
	if len(ordered) != 2 || ordered[0].Name != "Water" || ordered[1].Name != "Soil" {
		t.Errorf("Concepts() order = %v, want [Water Soil]", ordered)
	}
}

func TestIndex_NamesIsCopy(t *testing.T) {
	idx := NewIndex([]Concept{{Name: "Heat", Domain: "D", Strand: "S"}})
	names := idx.Names()
	names["Ghost"] = true

	if idx.Has("Ghost") {
		t.Error("mutating Names() result leaked into the index")
	}
}

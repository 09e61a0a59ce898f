package concept

// Duplicate records a concept that was rejected because an earlier record
// already claimed its name.
type Duplicate struct {
	Name          string `json:"concept_name"`
	Position      int    `json:"position"`       // Position of the rejected record in the input
	FirstPosition int    `json:"first_position"` // Position of the retained record
}

// Index maps concept names to records. The first occurrence of a name wins;
// later occurrences are reported through Duplicates.
//
// An Index is never mutated after NewIndex returns and is safe to share.
type Index struct {
	byName     map[string]*Concept
	ordered    []Concept
	duplicates []Duplicate
}

// NewIndex builds an index over the given concepts, preserving input order.
func NewIndex(concepts []Concept) *Index {
	idx := &Index{
		byName:  make(map[string]*Concept, len(concepts)),
		ordered: make([]Concept, 0, len(concepts)),
	}
	firstPos := make(map[string]int, len(concepts))

	for i, c := range concepts {
		if first, seen := firstPos[c.Name]; seen {
			idx.duplicates = append(idx.duplicates, Duplicate{
				Name:          c.Name,
				Position:      i,
				FirstPosition: first,
			})
			continue
		}
		firstPos[c.Name] = i
		idx.ordered = append(idx.ordered, c)
	}

	// Point into ordered only after it has stopped growing.
	for i := range idx.ordered {
		idx.byName[idx.ordered[i].Name] = &idx.ordered[i]
	}
	return idx
}

// Get returns the concept with the given name.
func (x *Index) Get(name string) (Concept, bool) {
	c, ok := x.byName[name]
	if !ok {
		return Concept{}, false
	}
	return *c, true
}

// Has reports whether name is a known concept.
func (x *Index) Has(name string) bool {
	_, ok := x.byName[name]
	return ok
}

// Names returns the set of valid concept names for O(1) membership checks.
// The returned map is a copy.
func (x *Index) Names() map[string]bool {
	names := make(map[string]bool, len(x.byName))
	for name := range x.byName {
		names[name] = true
	}
	return names
}

// Concepts returns the retained concepts in input order.
func (x *Index) Concepts() []Concept {
	out := make([]Concept, len(x.ordered))
	copy(out, x.ordered)
	return out
}

// Len returns the number of distinct concept names.
func (x *Index) Len() int {
	return len(x.ordered)
}

// Duplicates returns every rejected duplicate, in input order.
func (x *Index) Duplicates() []Duplicate {
	return x.duplicates
}

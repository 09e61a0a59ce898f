package detail

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/session"
)

func loadTestKB(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	base, err := kb.Parse([]byte(`{
	  "concepts": [
	    {"concept_name": "Photosynthesis", "domain": "Biology (The Living World)", "strand": "Nutrition",
	     "brief_explanation": "Plants make food.", "chapter_references": ["Ch 1", "Ch 10"],
	     "cognitive_level": "Understand"},
	    {"concept_name": "Heat", "domain": "Physics (The Physical World)", "strand": "Energy"}
	  ],
	  "activities": [
	    {"activity_name": "Starch test", "parent_concept": "Photosynthesis"},
	    {"activity_name": "Starch test", "parent_concept": "Photosynthesis"},
	    {"activity_name": "Stomata count", "parent_concept": "Photosynthesis"}
	  ]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return base
}

func TestForConcept(t *testing.T) {
	base := loadTestKB(t)

	got := ForConcept(base, "Photosynthesis", true)
	want := &ConceptDetail{
		Name:              "Photosynthesis",
		BriefExplanation:  "Plants make food.",
		Domain:            "Biology (The Living World)",
		Strand:            "Nutrition",
		ChapterReferences: []string{"Ch 1", "Ch 10"},
		CognitiveLevel:    "Understand",
		Learned:           true,
		Activities:        []string{"Starch test", "Stomata count"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ForConcept() = %+v, want %+v", got, want)
	}
}

func TestForConcept_Defaults(t *testing.T) {
	base := loadTestKB(t)

	got := ForConcept(base, "Heat", false)
	if got.CognitiveLevel != MissingCognitiveLevel {
		t.Errorf("CognitiveLevel = %q, want %q", got.CognitiveLevel, MissingCognitiveLevel)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"chapter_references":[]`, `"activities":[]`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("JSON %s missing %s", raw, want)
		}
	}

	if ForConcept(base, "Ghost", false) != nil {
		t.Error("ForConcept(Ghost) should be nil")
	}
	if ForConcept(base, "domain:Physics (The Physical World)", false) != nil {
		t.Error("ForConcept(domain anchor) should be nil")
	}
}

func TestPresent(t *testing.T) {
	base := loadTestKB(t)

	if Present(base, nil) != nil {
		t.Error("Present(nil session) should be nil")
	}

	sess := session.New()
	if Present(base, sess) != nil {
		t.Error("Present() with no selection should be nil")
	}

	sess.Select(json.RawMessage(`{"nodes": ["Heat"]}`), base.Index)
	if err := sess.MarkLearned("Heat", base.Index); err != nil {
		t.Fatal(err)
	}

	d := Present(base, sess)
	if d == nil || d.Name != "Heat" || !d.Learned {
		t.Errorf("Present() = %+v, want Heat marked learned", d)
	}
}

func TestWriteHuman(t *testing.T) {
	base := loadTestKB(t)

	var buf bytes.Buffer
	ForConcept(base, "Photosynthesis", true).WriteHuman(&buf)
	out := buf.String()
	for _, want := range []string{"Photosynthesis\n==============", "Strand:          Nutrition", "• Ch 10", "Learning activities (2):", "• Stomata count", "Learned:         yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteHuman() output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	ForConcept(base, "Heat", false).WriteHuman(&buf)
	if !strings.Contains(buf.String(), "No activities linked to this concept.") {
		t.Errorf("WriteHuman() for Heat:\n%s", buf.String())
	}
}

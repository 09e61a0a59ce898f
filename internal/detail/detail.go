// Package detail builds the concept detail panel: attributes, learned flag
// and linked activities for the concept a session has selected.
package detail

import (
	"fmt"
	"io"
	"strings"

	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/session"
)

// MissingCognitiveLevel is shown when a concept has no cognitive level.
const MissingCognitiveLevel = "—"

// ConceptDetail is everything the detail panel shows for one concept.
type ConceptDetail struct {
	Name              string   `json:"concept_name"`
	BriefExplanation  string   `json:"brief_explanation"`
	Domain            string   `json:"domain"`
	Strand            string   `json:"strand"`
	ChapterReferences []string `json:"chapter_references"`
	CognitiveLevel    string   `json:"cognitive_level"`
	Learned           bool     `json:"learned"`
	Activities        []string `json:"activities"`
}

// Present returns the detail for the session's selected concept, or nil when
// nothing valid is selected.
func Present(base *kb.KnowledgeBase, sess *session.Session) *ConceptDetail {
	if sess == nil || sess.SelectedConcept == "" {
		return nil
	}
	return ForConcept(base, sess.SelectedConcept, sess.IsLearned(sess.SelectedConcept))
}

// ForConcept returns the detail for name, or nil when name is not a concept.
func ForConcept(base *kb.KnowledgeBase, name string, learned bool) *ConceptDetail {
	c, ok := base.Index.Get(name)
	if !ok {
		return nil
	}

	d := &ConceptDetail{
		Name:              c.Name,
		BriefExplanation:  c.BriefExplanation,
		Domain:            c.Domain,
		Strand:            c.Strand,
		ChapterReferences: append([]string{}, c.ChapterReferences...),
		CognitiveLevel:    c.CognitiveLevel,
		Learned:           learned,
		Activities:        []string{},
	}
	if strings.TrimSpace(d.CognitiveLevel) == "" {
		d.CognitiveLevel = MissingCognitiveLevel
	}
	for _, a := range base.Links.ForConcept(name) {
		d.Activities = append(d.Activities, a.Name)
	}
	return d
}

// WriteHuman renders the detail as plain text.
func (d *ConceptDetail) WriteHuman(w io.Writer) {
	fmt.Fprintf(w, "%s\n", d.Name)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", len([]rune(d.Name))))
	if d.BriefExplanation != "" {
		fmt.Fprintf(w, "%s\n", d.BriefExplanation)
	}
	fmt.Fprintf(w, "\nDomain:          %s\n", d.Domain)
	fmt.Fprintf(w, "Strand:          %s\n", d.Strand)
	fmt.Fprintf(w, "Cognitive level: %s\n", d.CognitiveLevel)
	if d.Learned {
		fmt.Fprintln(w, "Learned:         yes")
	}

	if len(d.ChapterReferences) > 0 {
		fmt.Fprintln(w, "\nChapters:")
		for _, ch := range d.ChapterReferences {
			fmt.Fprintf(w, "  • %s\n", ch)
		}
	}

	fmt.Fprintf(w, "\nLearning activities (%d):\n", len(d.Activities))
	if len(d.Activities) == 0 {
		fmt.Fprintln(w, "  No activities linked to this concept.")
		return
	}
	for _, a := range d.Activities {
		fmt.Fprintf(w, "  • %s\n", a)
	}
}

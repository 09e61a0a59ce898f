// Package session holds per-visitor UI state: the selected concept and the
// set of concepts marked as learned. The knowledge base itself is shared
// and read-only; only this state is isolated per session.
package session

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrUnknownConcept = errors.New("unknown concept")
)

// Catalog answers whether a name is a known concept. *concept.Index
// satisfies it.
type Catalog interface {
	Has(name string) bool
}

// Session is the state of one visitor.
type Session struct {
	ID              string          `json:"id"`
	SelectedConcept string          `json:"selected_concept,omitempty"`
	Learned         map[string]bool `json:"learned,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// New returns an empty session with a fresh random ID.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Learned:   make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Select applies a raw selection from the graph widget. Only a known concept
// name changes the selection; anchors, unknown ids and empty selections
// leave the previous selection in place. Anchor IDs never equal a concept
// name, so catalog membership alone tells them apart. Reports whether the
// selection was accepted.
func (s *Session) Select(raw json.RawMessage, catalog Catalog) bool {
	id, ok := NormalizeSelection(raw)
	if !ok || !catalog.Has(id) {
		return false
	}
	s.SelectedConcept = id
	s.touch()
	return true
}

// ClearSelection deselects the current concept.
func (s *Session) ClearSelection() {
	s.SelectedConcept = ""
	s.touch()
}

// MarkLearned flags a known concept as learned.
func (s *Session) MarkLearned(name string, catalog Catalog) error {
	if !catalog.Has(name) {
		return ErrUnknownConcept
	}
	if s.Learned == nil {
		s.Learned = make(map[string]bool)
	}
	s.Learned[name] = true
	s.touch()
	return nil
}

// UnmarkLearned clears the learned flag. Unknown names are a no-op.
func (s *Session) UnmarkLearned(name string) {
	delete(s.Learned, name)
	s.touch()
}

// IsLearned reports whether name is marked as learned.
func (s *Session) IsLearned(name string) bool {
	return s.Learned[name]
}

// LearnedList returns learned concept names, sorted.
func (s *Session) LearnedList() []string {
	out := make([]string, 0, len(s.Learned))
	for name := range s.Learned {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Learned = make(map[string]bool, len(s.Learned))
	for k, v := range s.Learned {
		c.Learned[k] = v
	}
	return &c
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// NormalizeSelection extracts the clicked node id from a widget selection.
// Accepted shapes are {"nodes": [id, ...]}, [id, ...] and "id"; the first
// id wins. Anything else, including null and empty lists, selects nothing.
func NormalizeSelection(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			Nodes []json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj.Nodes) == 0 {
			return "", false
		}
		return firstString(obj.Nodes[0])
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return "", false
		}
		return firstString(list[0])
	case '"':
		return firstString(raw)
	default:
		return "", false
	}
}

func firstString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

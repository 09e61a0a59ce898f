package session

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type catalog map[string]bool

func (c catalog) Has(name string) bool { return c[name] }

var testCatalog = catalog{"Photosynthesis": true, "Heat": true}

func TestNormalizeSelection(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "object with nodes", raw: `{"nodes": ["Heat", "Photosynthesis"]}`, want: "Heat", wantOK: true},
		{name: "object with empty nodes", raw: `{"nodes": []}`},
		{name: "object without nodes", raw: `{"edges": ["x"]}`},
		{name: "list", raw: `["Photosynthesis"]`, want: "Photosynthesis", wantOK: true},
		{name: "empty list", raw: `[]`},
		{name: "bare string", raw: `"Heat"`, want: "Heat", wantOK: true},
		{name: "empty string", raw: `""`},
		{name: "null", raw: `null`},
		{name: "blank", raw: ``},
		{name: "number", raw: `42`},
		{name: "list of numbers", raw: `[1]`},
		{name: "invalid JSON", raw: `{"nodes": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSelection(json.RawMessage(tt.raw))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeSelection(%s) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSession_Select(t *testing.T) {
	s := New()

	if !s.Select(json.RawMessage(`{"nodes": ["Heat"]}`), testCatalog) {
		t.Fatal("Select(Heat) = false, want true")
	}
	if s.SelectedConcept != "Heat" {
		t.Errorf("SelectedConcept = %q, want Heat", s.SelectedConcept)
	}

	ignored := []string{`"domain:Physics (The Physical World)"`, `"strand:Physics/Energy"`, `"Ghost"`, `null`}
	for _, raw := range ignored {
		if s.Select(json.RawMessage(raw), testCatalog) {
			t.Errorf("Select(%s) = true, want ignored", raw)
		}
		if s.SelectedConcept != "Heat" {
			t.Errorf("after Select(%s) SelectedConcept = %q, want Heat kept", raw, s.SelectedConcept)
		}
	}

	s.ClearSelection()
	if s.SelectedConcept != "" {
		t.Errorf("SelectedConcept after ClearSelection = %q", s.SelectedConcept)
	}
}

func TestSession_Learned(t *testing.T) {
	s := New()

	if err := s.MarkLearned("Ghost", testCatalog); !errors.Is(err, ErrUnknownConcept) {
		t.Errorf("MarkLearned(Ghost) error = %v, want ErrUnknownConcept", err)
	}
	if err := s.MarkLearned("Photosynthesis", testCatalog); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkLearned("Heat", testCatalog); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkLearned("Heat", testCatalog); err != nil {
		t.Fatal(err)
	}

	if want := []string{"Heat", "Photosynthesis"}; !reflect.DeepEqual(s.LearnedList(), want) {
		t.Errorf("LearnedList() = %v, want %v", s.LearnedList(), want)
	}

	s.UnmarkLearned("Heat")
	s.UnmarkLearned("Ghost")
	if s.IsLearned("Heat") || !s.IsLearned("Photosynthesis") {
		t.Errorf("learned set = %v, want only Photosynthesis", s.LearnedList())
	}
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := New()
	_ = s.MarkLearned("Heat", testCatalog)

	c := s.Clone()
	c.Learned["Photosynthesis"] = true

	if s.IsLearned("Photosynthesis") {
		t.Error("mutating the clone leaked into the original")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a, b := New(), New()
	if a.ID == b.ID {
		t.Fatal("New() returned duplicate IDs")
	}
	_ = a.MarkLearned("Heat", testCatalog)
	a.Select(json.RawMessage(`"Heat"`), testCatalog)

	if b.IsLearned("Heat") || b.SelectedConcept != "" {
		t.Error("state leaked between sessions")
	}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, err := store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := store.Update(ctx, s.ID, func(s *Session) error {
		s.Select(json.RawMessage(`["Heat"]`), testCatalog)
		return s.MarkLearned("Heat", testCatalog)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.SelectedConcept != "Heat" {
		t.Errorf("updated SelectedConcept = %q", updated.SelectedConcept)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsLearned("Heat") || got.SelectedConcept != "Heat" {
		t.Errorf("Get() = %+v, want persisted update", got)
	}

	got.Learned["Photosynthesis"] = true
	again, _ := store.Get(ctx, s.ID)
	if again.IsLearned("Photosynthesis") {
		t.Error("mutating a fetched session changed the stored copy")
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_UpdateErrorLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s, _ := store.Create(ctx)

	_, err := store.Update(ctx, s.ID, func(s *Session) error {
		s.SelectedConcept = "Heat"
		return s.MarkLearned("Ghost", testCatalog)
	})
	if !errors.Is(err, ErrUnknownConcept) {
		t.Fatalf("Update() error = %v, want ErrUnknownConcept", err)
	}

	got, _ := store.Get(ctx, s.ID)
	if got.SelectedConcept != "" {
		t.Errorf("failed Update leaked SelectedConcept = %q", got.SelectedConcept)
	}

	if _, err := store.Update(ctx, "missing", func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s, _ := store.Create(ctx)
	if _, err := store.Get(ctx, s.ID); err != nil {
		t.Fatalf("Get() before ttl error = %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after ttl error = %v, want ErrNotFound", err)
	}
	if _, ok := store.sessions[s.ID]; ok {
		t.Error("expired session still held after Get")
	}
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s, _ := store.Create(ctx)

	names := []string{"Heat", "Photosynthesis"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			_, _ = store.Update(ctx, s.ID, func(s *Session) error {
				return s.MarkLearned(name, testCatalog)
			})
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(ctx, s.ID)
	if want := []string{"Heat", "Photosynthesis"}; !reflect.DeepEqual(got.LearnedList(), want) {
		t.Errorf("LearnedList() = %v, want %v", got.LearnedList(), want)
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not-a-redis-url", time.Hour); err == nil {
		t.Error("NewRedisStore() with bad URL should fail")
	}
}

func TestRedisKey(t *testing.T) {
	if got := redisKey("abc"); got != "kg:session:abc" {
		t.Errorf("redisKey() = %q", got)
	}
}

func TestSelect_ConceptNamedLikeAnchor(t *testing.T) {
	s := New()
	cat := catalog{"domain:Physics": true}

	if !s.Select(json.RawMessage(`["domain:Physics"]`), cat) {
		t.Fatal("Select() rejected a concept whose name looks like an anchor ID")
	}
	if s.SelectedConcept != "domain:Physics" {
		t.Errorf("SelectedConcept = %q, want domain:Physics", s.SelectedConcept)
	}
	if s.Select(json.RawMessage(`["domain:Physics#2"]`), cat) {
		t.Error("Select() accepted the renamed anchor")
	}
}

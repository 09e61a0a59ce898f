package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scigraph/kg/internal/concept"
	"github.com/scigraph/kg/internal/detail"
	"github.com/scigraph/kg/internal/kb"
	"github.com/scigraph/kg/internal/logger"
	"github.com/scigraph/kg/internal/session"
	"github.com/scigraph/kg/internal/storage"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	maxSelectionBytes  = 64 << 10
)

var errSearchUnavailable = errors.New("search needs the query cache; run kg rebuild")

type handlers struct {
	kb       *kb.KnowledgeBase
	sessions session.Store
	cache    *storage.DB
	log      *logger.Logger
	page     []byte
}

// sessionView is the response shape of every session endpoint.
type sessionView struct {
	ID              string                `json:"id"`
	SelectedConcept string                `json:"selected_concept,omitempty"`
	Learned         []string              `json:"learned"`
	Accepted        *bool                 `json:"accepted,omitempty"`
	Detail          *detail.ConceptDetail `json:"detail"`
}

func (h *handlers) view(s *session.Session) sessionView {
	return sessionView{
		ID:              s.ID,
		SelectedConcept: s.SelectedConcept,
		Learned:         s.LearnedList(),
		Detail:          detail.Present(h.kb, s),
	}
}

func (h *handlers) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *handlers) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

// Graph returns nodes and edges. ?format=cytoscape returns Cytoscape elements.
func (h *handlers) Graph(c *gin.Context) {
	if c.Query("format") == "cytoscape" {
		RespondOK(c, h.kb.Graph.ToCytoscape())
		return
	}
	RespondOK(c, gin.H{"nodes": h.kb.Graph.Nodes, "edges": h.kb.Graph.Edges})
}

func (h *handlers) Diagnostics(c *gin.Context) {
	RespondOK(c, gin.H{
		"stats":       h.kb.Stats(),
		"diagnostics": h.kb.Diagnostics,
	})
}

// GetConcept returns one concept's detail. ?session=<id> fills the learned flag.
func (h *handlers) GetConcept(c *gin.Context) {
	name := c.Param("name")

	learned := false
	if id := c.Query("session"); id != "" {
		s, err := h.sessions.Get(c.Request.Context(), id)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			h.internalError(c, err)
			return
		}
		if s != nil {
			learned = s.IsLearned(name)
		}
	}

	d := detail.ForConcept(h.kb, name, learned)
	if d == nil {
		RespondError(c, http.StatusNotFound, "concept_not_found", concept.ErrConceptNotFound)
		return
	}
	RespondOK(c, d)
}

func (h *handlers) Search(c *gin.Context) {
	if h.cache == nil {
		RespondError(c, http.StatusServiceUnavailable, "search_unavailable", errSearchUnavailable)
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", errors.New("q is required"))
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results, err := h.cache.SearchConcepts(q, limit)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if results == nil {
		results = []concept.Concept{}
	}
	RespondOK(c, gin.H{"query": q, "results": results})
}

func (h *handlers) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.view(s))
}

func (h *handlers) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

// SelectNode accepts the widget's raw selection value as the request body.
func (h *handlers) SelectNode(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSelectionBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	var accepted bool
	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		accepted = s.Select(raw, h.kb.Index)
		return nil
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}

	v := h.view(s)
	v.Accepted = &accepted
	RespondOK(c, v)
}

func (h *handlers) ClearSelection(c *gin.Context) {
	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		s.ClearSelection()
		return nil
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

func (h *handlers) MarkLearned(c *gin.Context) {
	name := c.Param("name")
	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		return s.MarkLearned(name, h.kb.Index)
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

func (h *handlers) UnmarkLearned(c *gin.Context) {
	name := c.Param("name")
	s, err := h.sessions.Update(c.Request.Context(), c.Param("id"), func(s *session.Session) error {
		s.UnmarkLearned(name)
		return nil
	})
	if err != nil {
		h.sessionError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

func (h *handlers) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		RespondError(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, session.ErrUnknownConcept):
		RespondError(c, http.StatusNotFound, "concept_not_found", err)
	default:
		h.internalError(c, err)
	}
}

func (h *handlers) internalError(c *gin.Context, err error) {
	h.log.Error("request failed", "path", c.FullPath(), "error", err)
	RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
}

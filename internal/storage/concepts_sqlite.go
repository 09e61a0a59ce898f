package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/scigraph/kg/internal/concept"
)

const selectConceptFields = `c.name, c.domain, c.strand, c.brief_explanation,
	c.chapters_json, c.cognitive_level, c.interconnections_json`

// GetConcept retrieves a concept by name. Returns nil, nil when absent.
func (d *DB) GetConcept(name string) (*concept.Concept, error) {
	row := d.db.QueryRow(`SELECT `+selectConceptFields+` FROM concepts c WHERE c.name = ?`, name)
	return scanConcept(row)
}

// ListConcepts returns concepts in knowledge-base order. An empty domain
// matches all domains; likewise for strand.
func (d *DB) ListConcepts(domain, strand string, limit int) ([]concept.Concept, error) {
	query := `SELECT ` + selectConceptFields + ` FROM concepts c WHERE 1=1`
	var args []interface{}

	if domain != "" {
		query += " AND c.domain = ?"
		args = append(args, domain)
	}
	if strand != "" {
		query += " AND c.strand = ?"
		args = append(args, strand)
	}
	query += " ORDER BY c.position"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

// SearchConcepts runs a full-text search over name, domain, strand and
// explanation, best matches first.
func (d *DB) SearchConcepts(query string, limit int) ([]concept.Concept, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectConceptFields+`
		FROM concepts c
		JOIN (SELECT name, rank FROM concepts_fts WHERE concepts_fts MATCH ?) f ON f.name = c.name
		ORDER BY f.rank, c.position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching concepts: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

func scanConcept(s scanner) (*concept.Concept, error) {
	var c concept.Concept
	var explanation, chaptersJSON, level, linksJSON sql.NullString

	err := s.Scan(&c.Name, &c.Domain, &c.Strand, &explanation, &chaptersJSON, &level, &linksJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	c.BriefExplanation = explanation.String
	c.CognitiveLevel = level.String

	if chaptersJSON.Valid && chaptersJSON.String != "" {
		if err := json.Unmarshal([]byte(chaptersJSON.String), &c.ChapterReferences); err != nil {
			return nil, fmt.Errorf("parsing chapters JSON for %s: %w", c.Name, err)
		}
	}
	if linksJSON.Valid && linksJSON.String != "" {
		if err := json.Unmarshal([]byte(linksJSON.String), &c.Interconnections); err != nil {
			return nil, fmt.Errorf("parsing interconnections JSON for %s: %w", c.Name, err)
		}
	}

	return &c, nil
}

func scanConcepts(rows *sql.Rows) ([]concept.Concept, error) {
	var concepts []concept.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		if c != nil {
			concepts = append(concepts, *c)
		}
	}
	return concepts, rows.Err()
}

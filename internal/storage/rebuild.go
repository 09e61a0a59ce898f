package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/scigraph/kg/internal/kb"
)

// RebuildStats reports what a rebuild wrote.
type RebuildStats struct {
	Concepts int `json:"concepts"`
	Linked   int `json:"linked_activities"`
	Orphaned int `json:"orphaned_activities"`
}

// Rebuild clears every table and repopulates them from the loaded knowledge
// base in one transaction, then records its digest.
func (d *DB) Rebuild(base *kb.KnowledgeBase) (RebuildStats, error) {
	var stats RebuildStats

	tx, err := d.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"concepts", "concepts_fts", "activities", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return stats, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	if stats.Concepts, err = insertConcepts(tx, base); err != nil {
		return stats, err
	}
	if stats.Linked, stats.Orphaned, err = insertActivities(tx, base); err != nil {
		return stats, err
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, metaDigestKey, base.Digest); err != nil {
		return stats, fmt.Errorf("writing digest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing rebuild: %w", err)
	}
	return stats, nil
}

func insertConcepts(tx *sql.Tx, base *kb.KnowledgeBase) (int, error) {
	conceptsStmt, err := tx.Prepare(`
		INSERT INTO concepts (
			name, position, domain, strand, brief_explanation,
			chapters_json, cognitive_level, interconnections_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing concepts insert: %w", err)
	}
	defer conceptsStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO concepts_fts (name, domain, strand, brief_explanation)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing concepts_fts insert: %w", err)
	}
	defer ftsStmt.Close()

	concepts := base.Index.Concepts()
	for i, c := range concepts {
		chapters, err := marshalList(c.ChapterReferences)
		if err != nil {
			return 0, fmt.Errorf("marshaling chapters for %s: %w", c.Name, err)
		}
		links, err := marshalList(c.Interconnections)
		if err != nil {
			return 0, fmt.Errorf("marshaling interconnections for %s: %w", c.Name, err)
		}

		_, err = conceptsStmt.Exec(
			c.Name, i, c.Domain, c.Strand, nullableStringFromGo(c.BriefExplanation),
			nullableStringFromGo(chapters), nullableStringFromGo(c.CognitiveLevel), nullableStringFromGo(links),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting concept %s: %w", c.Name, err)
		}

		if _, err := ftsStmt.Exec(c.Name, c.Domain, c.Strand, c.BriefExplanation); err != nil {
			return 0, fmt.Errorf("inserting concepts_fts for %s: %w", c.Name, err)
		}
	}
	return len(concepts), nil
}

// insertActivities writes linked activities in concept order, then orphans.
func insertActivities(tx *sql.Tx, base *kb.KnowledgeBase) (linked, orphaned int, err error) {
	stmt, err := tx.Prepare(`
		INSERT INTO activities (position, activity_name, parent_concept, status, reason, occurrences)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing activities insert: %w", err)
	}
	defer stmt.Close()

	pos := 0
	for _, c := range base.Index.Concepts() {
		for _, a := range base.Links.ForConcept(c.Name) {
			if _, err := stmt.Exec(pos, a.Name, a.ParentConcept, statusLinked, nil, 1); err != nil {
				return 0, 0, fmt.Errorf("inserting activity %s: %w", a.Name, err)
			}
			pos++
			linked++
		}
	}

	for _, o := range base.Links.Orphans() {
		_, err := stmt.Exec(pos, o.ActivityName, nullableStringFromGo(o.ParentConcept), statusOrphaned, o.Reason, o.Occurrences)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting orphan %s: %w", o.ActivityName, err)
		}
		pos++
		orphaned++
	}
	return linked, orphaned, nil
}

func marshalList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

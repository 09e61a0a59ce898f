package storage

import (
	"database/sql"
	"fmt"

	"github.com/scigraph/kg/internal/activity"
)

const (
	statusLinked   = "linked"
	statusOrphaned = "orphaned"
)

// ActivitiesFor returns the activities linked to a concept.
func (d *DB) ActivitiesFor(conceptName string) ([]activity.Activity, error) {
	rows, err := d.db.Query(`
		SELECT activity_name, parent_concept
		FROM activities
		WHERE status = ? AND parent_concept = ?
		ORDER BY position`, statusLinked, conceptName)
	if err != nil {
		return nil, fmt.Errorf("querying activities for %s: %w", conceptName, err)
	}
	defer rows.Close()

	var out []activity.Activity
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(&a.Name, &a.ParentConcept); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Orphans returns the cached orphaned activities in first-seen order.
func (d *DB) Orphans() ([]activity.Orphan, error) {
	rows, err := d.db.Query(`
		SELECT activity_name, parent_concept, reason, occurrences
		FROM activities
		WHERE status = ?
		ORDER BY position`, statusOrphaned)
	if err != nil {
		return nil, fmt.Errorf("querying orphans: %w", err)
	}
	defer rows.Close()

	var out []activity.Orphan
	for rows.Next() {
		var o activity.Orphan
		var parent, reason sql.NullString
		if err := rows.Scan(&o.ActivityName, &parent, &reason, &o.Occurrences); err != nil {
			return nil, err
		}
		o.ParentConcept = parent.String
		o.Reason = reason.String
		out = append(out, o)
	}
	return out, rows.Err()
}

package neo4jsync

import (
	"context"
	"errors"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scigraph/kg/internal/kb"
)

// Stats counts what a sync wrote.
type Stats struct {
	Domains    int `json:"domains"`
	Strands    int `json:"strands"`
	Concepts   int `json:"concepts"`
	Activities int `json:"activities"`
	Relations  int `json:"relationships"`
	Pruned     int `json:"pruned"`
}

// Options controls a sync.
type Options struct {
	Prune bool // Delete kg nodes not touched by this sync
}

var schemaStatements = []string{
	`CREATE CONSTRAINT kg_domain_id IF NOT EXISTS FOR (d:Domain) REQUIRE d.id IS UNIQUE`,
	`CREATE CONSTRAINT kg_strand_id IF NOT EXISTS FOR (s:Strand) REQUIRE s.id IS UNIQUE`,
	`CREATE CONSTRAINT kg_concept_id IF NOT EXISTS FOR (c:Concept) REQUIRE c.id IS UNIQUE`,
	`CREATE CONSTRAINT kg_activity_id IF NOT EXISTS FOR (a:Activity) REQUIRE a.id IS UNIQUE`,
}

type statement struct {
	param  string
	cypher string
	rows   func(Payload) []map[string]any
}

// upserts run in order: nodes first so relationship MATCHes find them.
var upserts = []statement{
	{"rows", `UNWIND $rows AS n MERGE (d:Domain {id: n.id}) SET d += n`, func(p Payload) []map[string]any { return p.Domains }},
	{"rows", `UNWIND $rows AS n MERGE (s:Strand {id: n.id}) SET s += n`, func(p Payload) []map[string]any { return p.Strands }},
	{"rows", `UNWIND $rows AS n MERGE (c:Concept {id: n.id}) SET c += n`, func(p Payload) []map[string]any { return p.Concepts }},
	{"rows", `UNWIND $rows AS n MERGE (a:Activity {id: n.id}) SET a += n`, func(p Payload) []map[string]any { return p.Activities }},
	{"rows", `UNWIND $rows AS r
MATCH (a:Domain {id: r.from_id})
MATCH (b:Strand {id: r.to_id})
MERGE (a)-[:HAS_STRAND]->(b)`, func(p Payload) []map[string]any { return p.HasStrand }},
	{"rows", `UNWIND $rows AS r
MATCH (a:Strand {id: r.from_id})
MATCH (b:Concept {id: r.to_id})
MERGE (a)-[:HAS_CONCEPT]->(b)`, func(p Payload) []map[string]any { return p.HasConcept }},
	{"rows", `UNWIND $rows AS r
MATCH (a:Concept {id: r.from_id})
MATCH (b:Concept {id: r.to_id})
MERGE (a)-[:RELATED_TO]-(b)`, func(p Payload) []map[string]any { return p.RelatedTo }},
	{"rows", `UNWIND $rows AS r
MATCH (a:Activity {id: r.from_id})
MATCH (b:Concept {id: r.to_id})
MERGE (a)-[:PRACTICES]->(b)`, func(p Payload) []map[string]any { return p.Practices }},
}

const pruneCypher = `
MATCH (n)
WHERE (n:Domain OR n:Strand OR n:Concept OR n:Activity) AND n.synced_at <> $synced_at
DETACH DELETE n
RETURN count(n) AS pruned`

// Sync upserts the knowledge graph into Neo4j in one write transaction.
func Sync(ctx context.Context, client *Client, base *kb.KnowledgeBase, opts Options) (Stats, error) {
	if client == nil || client.Driver == nil {
		return Stats{}, errors.New("neo4jsync: client not connected")
	}

	syncedAt := time.Now().UTC().Format(time.RFC3339Nano)
	p := BuildPayload(base, syncedAt)
	stats := p.Stats()

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Constraints are best-effort; restricted users may not create them.
	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			client.log.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, stmt := range upserts {
			rows := stmt.rows(p)
			if len(rows) == 0 {
				continue
			}
			res, err := tx.Run(ctx, stmt.cypher, map[string]any{stmt.param: rows})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if !opts.Prune {
			return nil, nil
		}
		res, err := tx.Run(ctx, pruneCypher, map[string]any{"synced_at": syncedAt})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		if v, ok := record.Get("pruned"); ok {
			if n, ok := v.(int64); ok {
				stats.Pruned = int(n)
			}
		}
		return nil, nil
	})
	if err != nil {
		return Stats{}, err
	}

	client.log.Info("neo4j sync complete",
		"concepts", stats.Concepts,
		"relationships", stats.Relations,
		"pruned", stats.Pruned,
	)
	return stats, nil
}

// Stats counts the rows in the payload.
func (p Payload) Stats() Stats {
	return Stats{
		Domains:    len(p.Domains),
		Strands:    len(p.Strands),
		Concepts:   len(p.Concepts),
		Activities: len(p.Activities),
		Relations:  len(p.HasStrand) + len(p.HasConcept) + len(p.RelatedTo) + len(p.Practices),
	}
}

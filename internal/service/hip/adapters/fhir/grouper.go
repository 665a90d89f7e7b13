package fhir

import "github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"

// Grouping partitions records by their owning encounter UUID. Order
// lists encounter keys in first-seen order so the emitted document
// sequence is deterministic; Skipped lists record ids that carried no
// encounter attribution and were dropped.
type Grouping[R emr.Record] struct {
	Order   []string
	Groups  map[string][]R
	Skipped []string
}

// GroupByEncounter partitions a flat record list by encounter UUID,
// preserving input order within each group. One exchanged document
// corresponds to exactly one encounter; records from different
// encounters are never merged. Empty input yields an empty grouping.
func GroupByEncounter[R emr.Record](records []R) Grouping[R] {
	g := Grouping[R]{Groups: make(map[string][]R)}
	for _, r := range records {
		key := r.Encounter().UUID
		if key == "" {
			g.Skipped = append(g.Skipped, r.RecordUUID())
			continue
		}
		if _, ok := g.Groups[key]; !ok {
			g.Order = append(g.Order, key)
		}
		g.Groups[key] = append(g.Groups[key], r)
	}
	return g
}

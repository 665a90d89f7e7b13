package fhir

import (
	"time"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// BundleBuilder collects resources into a single container,
// deduplicating by logical resource identity while preserving
// insertion order. Adding is a set union keyed by identity, not a
// list append: the same practitioner referenced by two orders lands
// in the bundle once.
type BundleBuilder struct {
	entries []model.BundleEntry
	seen    map[string]bool
}

func NewBundleBuilder() *BundleBuilder {
	return &BundleBuilder{seen: make(map[string]bool)}
}

func (b *BundleBuilder) Add(r model.Resource) {
	if r == nil {
		return
	}
	key := r.TypeName() + "/" + r.Identity()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.entries = append(b.entries, model.BundleEntry{
		FullURL:  r.TypeName() + "/" + r.ResourceID(),
		Resource: r,
	})
}

func (b *BundleBuilder) AddAll(rs ...model.Resource) {
	for _, r := range rs {
		b.Add(r)
	}
}

// BuildDocument finalizes a document-type bundle. The id is the
// encounter's deterministic document id and the timestamp is the
// encounter's clinical timestamp, not the export time.
func (b *BundleBuilder) BuildDocument(docID string, timestamp time.Time, org OrgContext) *model.Bundle {
	return b.build(model.BundleTypeDocument, docID, timestamp, org)
}

// BuildCollection finalizes a collection-type bundle with a fresh id.
func (b *BundleBuilder) BuildCollection(timestamp time.Time, org OrgContext) *model.Bundle {
	return b.build(model.BundleTypeCollection, NewID(), timestamp, org)
}

func (b *BundleBuilder) build(bundleType, id string, timestamp time.Time, org OrgContext) *model.Bundle {
	ident := org.Identifier(segmentDocument, id)
	return &model.Bundle{
		ResourceType: "Bundle",
		ID:           id,
		Identifier:   &ident,
		Type:         bundleType,
		Timestamp:    timestamp.UTC().Format(time.RFC3339),
		Entry:        b.entries,
	}
}

package fhir

import (
	"github.com/google/uuid"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// Identifier-system segments, appended to the org base URL.
const (
	segmentDocument     = "document"
	segmentPatient      = "patient"
	segmentPractitioner = "practitioner"
	segmentEncounter    = "encounter"
	segmentOrder        = "order"
)

// NewID returns a fresh resource id. Clinical resource ids are
// transient: they are not expected to be stable across runs.
func NewID() string {
	return uuid.New().String()
}

// DocumentID derives the deterministic document id for an encounter.
// Repeated runs over the same encounter must produce the same id so
// that retrieval stays idempotent.
func DocumentID(prefix, encounterUUID string) string {
	return prefix + "-" + encounterUUID
}

// ReferenceTo builds a non-owning reference to a resource already
// destined for the same bundle.
func ReferenceTo(r model.Resource, display string) *model.Reference {
	return &model.Reference{
		Reference: r.TypeName() + "/" + r.ResourceID(),
		Display:   display,
	}
}

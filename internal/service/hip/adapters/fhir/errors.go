package fhir

import (
	"errors"
	"fmt"
)

// ErrUnresolvedConcept marks a per-record mapping failure that callers
// may recover from by dropping the record (e.g. a drug order whose
// medication concept cannot be resolved).
var ErrUnresolvedConcept = errors.New("unresolved concept")

// MappingError reports that a single domain record could not be
// converted into a resource.
type MappingError struct {
	RecordID string
	Field    string
	Err      error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping record %s: field %s: %v", e.RecordID, e.Field, e.Err)
	}
	return fmt.Sprintf("mapping record %s: missing %s", e.RecordID, e.Field)
}

func (e *MappingError) Unwrap() error { return e.Err }

func newMappingError(recordID, field string) *MappingError {
	return &MappingError{RecordID: recordID, Field: field}
}

// MissingContextError reports that a document cannot be emitted at
// all: organization configuration, patient or encounter is missing.
// It is fatal to the current document only.
type MissingContextError struct {
	EncounterID string
	Reason      string
}

func (e *MissingContextError) Error() string {
	if e.EncounterID == "" {
		return fmt.Sprintf("missing context: %s", e.Reason)
	}
	return fmt.Sprintf("missing context for encounter %s: %s", e.EncounterID, e.Reason)
}

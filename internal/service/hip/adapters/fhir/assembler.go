package fhir

import (
	"errors"
	"time"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// CareContext links an emitted document back to the clinical
// encounter it was generated from, for the consent layer upstream.
type CareContext struct {
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Display   string `json:"display,omitempty"`
}

// Document is one assembled, referentially closed document bundle for
// one encounter. SkippedRecords lists source records dropped on
// recoverable mapping failures.
type Document struct {
	Bundle         *model.Bundle `json:"bundle"`
	CareContext    CareContext   `json:"careContext"`
	SkippedRecords []string      `json:"-"`
}

// SectionEnv carries the cross-references section mapping needs:
// the run's org context, the document subject, and the requesting
// practitioner (first composition author, nil when the encounter has
// no providers).
type SectionEnv struct {
	Org       OrgContext
	Subject   *model.Reference
	Requester *model.Reference
}

// Section is one composition section plus the resources its entries
// reference.
type Section struct {
	Title     string
	Code      *model.CodeableConcept
	Entries   []model.Reference
	Resources []model.Resource
}

type SectionSet struct {
	Sections []Section
	Dropped  []string
}

// Category describes one document kind: its title, type code,
// deterministic id prefix, and how the encounter's records become
// sections. Prescriptions, consultations and diagnostic reports are
// the three implementations; new clinical data types add a category
// instead of re-deriving the grouping and bundling logic.
type Category[R emr.Record] interface {
	IDPrefix() string
	Title() string
	Type() *model.CodeableConcept
	Sections(records []R, env SectionEnv) (SectionSet, error)
}

// AssembleDocument builds the document for one encounter's record
// group: patient, practitioners (composition authors), encounter,
// the category's section resources, the root composition and finally
// the deduplicated bundle.
//
// The caller guarantees a non-empty group; an empty one is a
// programming error and fails immediately. A group whose patient or
// encounter cannot be resolved aborts with MissingContextError — a
// document without a subject or timestamp is not emittable.
func AssembleDocument[R emr.Record](cat Category[R], records []R, org OrgContext) (*Document, error) {
	if len(records) == 0 {
		return nil, errors.New("fhir: document assembly invoked with zero records")
	}

	enc := records[0].Encounter()
	if enc.UUID == "" {
		return nil, &MissingContextError{Reason: "encounter unresolved"}
	}
	if enc.Patient.UUID == "" {
		return nil, &MissingContextError{EncounterID: enc.UUID, Reason: "patient unresolved"}
	}

	docID := DocumentID(cat.IDPrefix(), enc.UUID)

	patientRes, err := MapPatient(enc.Patient, org)
	if err != nil {
		return nil, &MissingContextError{EncounterID: enc.UUID, Reason: err.Error()}
	}
	patientRef := ReferenceTo(patientRes, enc.Patient.Name)

	// One practitioner per distinct provider, each a composition author.
	var practitioners []*model.Practitioner
	var authors []model.Reference
	seenProviders := make(map[string]bool)
	for _, p := range enc.Providers {
		if p.UUID == "" || seenProviders[p.UUID] {
			continue
		}
		seenProviders[p.UUID] = true
		pr, err := MapPractitioner(p, org)
		if err != nil {
			continue
		}
		practitioners = append(practitioners, pr)
		authors = append(authors, *ReferenceTo(pr, p.Name))
	}

	encRes, err := MapEncounter(enc, patientRef, org)
	if err != nil {
		return nil, &MissingContextError{EncounterID: enc.UUID, Reason: err.Error()}
	}

	env := SectionEnv{Org: org, Subject: patientRef}
	if len(authors) > 0 {
		env.Requester = &authors[0]
	}
	secs, err := cat.Sections(records, env)
	if err != nil {
		return nil, err
	}

	ident := org.Identifier(segmentDocument, docID)
	composition := &model.Composition{
		ResourceType: "Composition",
		ID:           NewID(),
		Identifier:   &ident,
		Status:       model.CompositionStatusFinal,
		Type:         cat.Type(),
		Subject:      patientRef,
		Encounter:    ReferenceTo(encRes, enc.Type),
		// The clinical timestamp, not the export time.
		Date:   enc.Time.UTC().Format(time.RFC3339),
		Author: authors,
		Title:  cat.Title(),
	}
	for _, s := range secs.Sections {
		composition.Section = append(composition.Section, model.CompositionSection{
			Title: s.Title,
			Code:  s.Code,
			Entry: s.Entries,
		})
	}

	b := NewBundleBuilder()
	b.Add(composition)
	b.Add(encRes)
	for _, pr := range practitioners {
		b.Add(pr)
	}
	b.Add(patientRes)
	for _, s := range secs.Sections {
		b.AddAll(s.Resources...)
	}

	return &Document{
		Bundle: b.BuildDocument(docID, enc.Time, org),
		CareContext: CareContext{
			Type:      org.CareContextType,
			Reference: enc.UUID,
			Display:   cat.Title() + " on " + enc.Time.UTC().Format("2006-01-02"),
		},
		SkippedRecords: secs.Dropped,
	}, nil
}

package fhir

import (
	"time"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// Pure domain-record to resource conversions. No bundling knowledge
// lives here; callers wire the returned resources together.

func MapPatient(p emr.Patient, org OrgContext) (*model.Patient, error) {
	if p.UUID == "" {
		return nil, newMappingError(p.UUID, "patient")
	}
	out := &model.Patient{
		ResourceType: "Patient",
		ID:           NewID(),
		Identifier:   []model.Identifier{org.Identifier(segmentPatient, p.UUID)},
		Gender:       p.Gender,
	}
	if p.Identifier != "" {
		out.Identifier = append(out.Identifier, model.Identifier{System: org.Org.System, Value: p.Identifier})
	}
	if p.Name != "" {
		out.Name = []model.HumanName{{Text: p.Name}}
	}
	if !p.BirthDate.IsZero() {
		out.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return out, nil
}

func MapPractitioner(pr emr.Provider, org OrgContext) (*model.Practitioner, error) {
	if pr.UUID == "" {
		return nil, newMappingError(pr.UUID, "provider")
	}
	out := &model.Practitioner{
		ResourceType: "Practitioner",
		ID:           NewID(),
		Identifier:   []model.Identifier{org.Identifier(segmentPractitioner, pr.UUID)},
	}
	if pr.Name != "" {
		out.Name = []model.HumanName{{Text: pr.Name}}
	}
	return out, nil
}

func MapEncounter(e emr.Encounter, subject *model.Reference, org OrgContext) (*model.Encounter, error) {
	if e.UUID == "" {
		return nil, newMappingError(e.UUID, "encounter")
	}
	return &model.Encounter{
		ResourceType: "Encounter",
		ID:           NewID(),
		Identifier:   []model.Identifier{org.Identifier(segmentEncounter, e.UUID)},
		Status:       "finished",
		Class:        &model.Coding{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "AMB", Display: "ambulatory"},
		Subject:      subject,
		Period:       &model.Period{Start: e.Time.UTC().Format(time.RFC3339)},
	}, nil
}

// MapMedication converts a drug order's medication concept. Orders
// whose source drug has no resolvable concept yield
// ErrUnresolvedConcept: a recoverable per-record skip, never an
// incomplete resource.
func MapMedication(o emr.DrugOrder) (*model.Medication, error) {
	if o.Drug == nil || o.Drug.Display == "" {
		return nil, &MappingError{RecordID: o.UUID, Field: "drug concept", Err: ErrUnresolvedConcept}
	}
	return &model.Medication{
		ResourceType: "Medication",
		ID:           NewID(),
		Code:         conceptToCodeable(*o.Drug),
	}, nil
}

// MapMedicationRequest converts a drug order into the request that
// references its medication, subject and requester.
func MapMedicationRequest(o emr.DrugOrder, med *model.Medication, subject, requester *model.Reference, org OrgContext) (*model.MedicationRequest, error) {
	if subject == nil {
		return nil, newMappingError(o.UUID, "patient")
	}
	if med == nil {
		return nil, &MappingError{RecordID: o.UUID, Field: "medication", Err: ErrUnresolvedConcept}
	}
	out := &model.MedicationRequest{
		ResourceType:        "MedicationRequest",
		ID:                  NewID(),
		Identifier:          []model.Identifier{org.Identifier(segmentOrder, o.UUID)},
		Status:              "active",
		Intent:              "order",
		MedicationReference: ReferenceTo(med, med.Code.Text),
		Subject:             subject,
		Requester:           requester,
	}
	if !o.DateActivated.IsZero() {
		out.AuthoredOn = o.DateActivated.UTC().Format(time.RFC3339)
	}
	if d := dosageFor(o); d != nil {
		out.DosageInstruction = []model.Dosage{*d}
	}
	return out, nil
}

func MapCondition(r emr.ConsultRecord, subject *model.Reference) (*model.Condition, error) {
	if r.Concept.Display == "" {
		return nil, newMappingError(r.UUID, "coded concept")
	}
	out := &model.Condition{
		ResourceType: "Condition",
		ID:           NewID(),
		Code:         conceptToCodeable(r.Concept),
		Subject:      subject,
	}
	if !r.RecordedAt.IsZero() {
		out.RecordedDate = r.RecordedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

func MapObservation(r emr.ConsultRecord, subject *model.Reference) (*model.Observation, error) {
	if r.Concept.Display == "" {
		return nil, newMappingError(r.UUID, "coded concept")
	}
	out := &model.Observation{
		ResourceType: "Observation",
		ID:           NewID(),
		Status:       "final",
		Code:         conceptToCodeable(r.Concept),
		Subject:      subject,
		ValueString:  r.Note,
	}
	if !r.RecordedAt.IsZero() {
		out.EffectiveDateTime = r.RecordedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// MapDiagnosticObservation converts a diagnostic result observation.
func MapDiagnosticObservation(o emr.Observation, subject *model.Reference) (*model.Observation, error) {
	if o.Concept.Display == "" {
		return nil, newMappingError(o.UUID, "coded concept")
	}
	out := &model.Observation{
		ResourceType: "Observation",
		ID:           NewID(),
		Status:       "final",
		Code:         conceptToCodeable(o.Concept),
		Subject:      subject,
		ValueString:  o.ValueText,
	}
	if !o.EffectiveAt.IsZero() {
		out.EffectiveDateTime = o.EffectiveAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// MapDiagnosticReport wraps a diagnostic observation in the report
// resource that carries it as a result.
func MapDiagnosticReport(o emr.Observation, result *model.Observation, subject, performer *model.Reference) (*model.DiagnosticReport, error) {
	if result == nil {
		return nil, newMappingError(o.UUID, "result observation")
	}
	out := &model.DiagnosticReport{
		ResourceType: "DiagnosticReport",
		ID:           NewID(),
		Status:       "final",
		Code:         conceptToCodeable(o.Concept),
		Subject:      subject,
		Result:       []model.Reference{*ReferenceTo(result, o.Concept.Display)},
	}
	if performer != nil {
		out.Performer = []model.Reference{*performer}
	}
	if !o.EffectiveAt.IsZero() {
		out.EffectiveDateTime = o.EffectiveAt.UTC().Format(time.RFC3339)
		out.Issued = out.EffectiveDateTime
	}
	return out, nil
}

func conceptToCodeable(c emr.Concept) *model.CodeableConcept {
	out := &model.CodeableConcept{Text: c.Display}
	if c.Code != "" {
		out.Coding = []model.Coding{{System: c.System, Code: c.Code, Display: c.Display}}
	}
	return out
}

func dosageFor(o emr.DrugOrder) *model.Dosage {
	d := model.Dosage{Text: o.Duration}
	filled := o.Duration != ""
	if o.Dose > 0 {
		d.DoseAndRate = []model.DoseAndRate{{DoseQuantity: &model.Quantity{Value: o.Dose, Unit: o.DoseUnits}}}
		filled = true
	}
	if o.Route != "" {
		d.Route = &model.CodeableConcept{Text: o.Route}
		filled = true
	}
	if o.Frequency != "" {
		d.Timing = &model.Timing{Code: &model.CodeableConcept{Text: o.Frequency}}
		filled = true
	}
	if o.AsNeeded {
		asNeeded := true
		d.AsNeededBoolean = &asNeeded
		filled = true
	}
	if !filled {
		return nil
	}
	return &d
}

package fhir

import (
	"errors"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

const snomedSystem = "http://snomed.info/sct"

func snomed(code, display string) *model.CodeableConcept {
	return &model.CodeableConcept{
		Coding: []model.Coding{{System: snomedSystem, Code: code, Display: display}},
		Text:   display,
	}
}

// PrescriptionType is the document/section type code for prescription
// records.
func PrescriptionType() *model.CodeableConcept {
	return snomed("440545006", "Prescription record")
}

func consultationType() *model.CodeableConcept {
	return snomed("371530004", "Clinical consultation report")
}

func diagnosticReportType() *model.CodeableConcept {
	return snomed("721981007", "Diagnostic studies report")
}

// dropOrFail drops a record on a recoverable mapping failure and
// fails the document on anything else.
func dropOrFail(set *SectionSet, recordID string, err error) error {
	var me *MappingError
	if errors.As(err, &me) {
		set.Dropped = append(set.Dropped, recordID)
		return nil
	}
	return err
}

// PrescriptionCategory builds OPD prescription documents from drug
// orders. Each resolvable order contributes a medication and a
// medication request; the section entries reference the requests.
// Orders without a resolvable medication concept are dropped whole:
// neither a medication nor a request is emitted for them.
type PrescriptionCategory struct{}

func (PrescriptionCategory) IDPrefix() string             { return "PR" }
func (PrescriptionCategory) Title() string                { return "Prescription" }
func (PrescriptionCategory) Type() *model.CodeableConcept { return PrescriptionType() }

func (PrescriptionCategory) Sections(orders []emr.DrugOrder, env SectionEnv) (SectionSet, error) {
	var set SectionSet
	var medications []model.Resource
	var requests []model.Resource
	var entries []model.Reference

	for _, o := range orders {
		med, err := MapMedication(o)
		if err != nil {
			if err := dropOrFail(&set, o.UUID, err); err != nil {
				return SectionSet{}, err
			}
			continue
		}
		req, err := MapMedicationRequest(o, med, env.Subject, env.Requester, env.Org)
		if err != nil {
			if err := dropOrFail(&set, o.UUID, err); err != nil {
				return SectionSet{}, err
			}
			continue
		}
		medications = append(medications, med)
		requests = append(requests, req)
		entries = append(entries, *ReferenceTo(req, med.Code.Text))
	}

	set.Sections = []Section{{
		Title:     "OPD Prescription",
		Code:      PrescriptionType(),
		Entries:   entries,
		Resources: append(medications, requests...),
	}}
	return set, nil
}

// ConsultCategory builds OP consultation documents: chief complaints
// and medical history as conditions, physical examination as
// observations, one section per kind present.
type ConsultCategory struct{}

func (ConsultCategory) IDPrefix() string             { return "OP" }
func (ConsultCategory) Title() string                { return "OP Consultation" }
func (ConsultCategory) Type() *model.CodeableConcept { return consultationType() }

func (ConsultCategory) Sections(records []emr.ConsultRecord, env SectionEnv) (SectionSet, error) {
	var set SectionSet

	type sectionDef struct {
		kind  emr.ConsultRecordKind
		title string
		code  *model.CodeableConcept
	}
	defs := []sectionDef{
		{emr.ChiefComplaint, "Chief Complaints", snomed("422843007", "Chief complaint section")},
		{emr.MedicalHistory, "Medical History", snomed("417662000", "History of clinical finding")},
		{emr.PhysicalExamination, "Physical Examination", snomed("425044008", "Physical exam section")},
	}

	for _, def := range defs {
		sec := Section{Title: def.title, Code: def.code}
		for _, r := range records {
			if r.Kind != def.kind {
				continue
			}
			var res model.Resource
			var err error
			if def.kind == emr.PhysicalExamination {
				res, err = MapObservation(r, env.Subject)
			} else {
				res, err = MapCondition(r, env.Subject)
			}
			if err != nil {
				if err := dropOrFail(&set, r.UUID, err); err != nil {
					return SectionSet{}, err
				}
				continue
			}
			sec.Resources = append(sec.Resources, res)
			sec.Entries = append(sec.Entries, *ReferenceTo(res, r.Concept.Display))
		}
		if len(sec.Entries) > 0 {
			set.Sections = append(set.Sections, sec)
		}
	}
	return set, nil
}

// DiagnosticReportCategory builds diagnostic report documents: each
// result observation is wrapped in a DiagnosticReport that the
// section entries reference.
type DiagnosticReportCategory struct{}

func (DiagnosticReportCategory) IDPrefix() string             { return "DR" }
func (DiagnosticReportCategory) Title() string                { return "Diagnostic Report" }
func (DiagnosticReportCategory) Type() *model.CodeableConcept { return diagnosticReportType() }

func (DiagnosticReportCategory) Sections(records []emr.Observation, env SectionEnv) (SectionSet, error) {
	var set SectionSet
	sec := Section{Title: "Diagnostic Reports", Code: diagnosticReportType()}

	for _, o := range records {
		obs, err := MapDiagnosticObservation(o, env.Subject)
		if err != nil {
			if err := dropOrFail(&set, o.UUID, err); err != nil {
				return SectionSet{}, err
			}
			continue
		}
		report, err := MapDiagnosticReport(o, obs, env.Subject, env.Requester)
		if err != nil {
			if err := dropOrFail(&set, o.UUID, err); err != nil {
				return SectionSet{}, err
			}
			continue
		}
		sec.Resources = append(sec.Resources, obs, report)
		sec.Entries = append(sec.Entries, *ReferenceTo(report, o.Concept.Display))
	}

	set.Sections = []Section{sec}
	return set, nil
}

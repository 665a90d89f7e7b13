package fhir

import (
	"testing"
	"time"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

var testTime = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func testOrg(t *testing.T) OrgContext {
	t.Helper()
	org, err := NewOrgContext(
		Org{ID: "HFR-0042", Name: "Arogya General Hospital", System: "https://facility.registry.example/id"},
		"https://emr.arogya.example.org",
		"OPConsultation",
	)
	if err != nil {
		t.Fatalf("test org context: %v", err)
	}
	return org
}

func testPatient() emr.Patient {
	return emr.Patient{
		UUID:       "pat-1",
		Identifier: "GAN203006",
		Name:       "Asha Kumari",
		Gender:     "female",
		BirthDate:  time.Date(1988, 6, 2, 0, 0, 0, 0, time.UTC),
	}
}

func testEncounter(uuid string, providers ...emr.Provider) emr.Encounter {
	return emr.Encounter{
		UUID:      uuid,
		Type:      "Consultation",
		VisitType: "OPD",
		Time:      testTime,
		Patient:   testPatient(),
		Providers: providers,
	}
}

func testOrder(uuid string, enc emr.Encounter, drug *emr.Concept) emr.DrugOrder {
	return emr.DrugOrder{
		UUID:          uuid,
		Enc:           enc,
		Drug:          drug,
		Dose:          500,
		DoseUnits:     "mg",
		Route:         "Oral",
		Frequency:     "Twice a day",
		Duration:      "5 days",
		DateActivated: testTime,
	}
}

func paracetamol() *emr.Concept {
	return &emr.Concept{Code: "387517004", System: snomedSystem, Display: "Paracetamol 500mg"}
}

// entryIndex maps "Type/id" to the bundle entry resource.
func entryIndex(b *model.Bundle) map[string]model.Resource {
	idx := make(map[string]model.Resource, len(b.Entry))
	for _, e := range b.Entry {
		idx[e.FullURL] = e.Resource
	}
	return idx
}

func countByType(b *model.Bundle) map[string]int {
	counts := make(map[string]int)
	for _, e := range b.Entry {
		counts[e.Resource.TypeName()]++
	}
	return counts
}

// assertReferentialClosure walks every reference reachable from the
// bundle's resources and asserts the target is a top-level entry.
func assertReferentialClosure(t *testing.T, b *model.Bundle) {
	t.Helper()
	idx := entryIndex(b)

	check := func(ref *model.Reference, owner string) {
		if ref == nil || ref.Reference == "" {
			return
		}
		if _, ok := idx[ref.Reference]; !ok {
			t.Errorf("dangling reference %q in %s", ref.Reference, owner)
		}
	}

	for _, e := range b.Entry {
		switch r := e.Resource.(type) {
		case *model.Composition:
			check(r.Subject, "Composition.subject")
			check(r.Encounter, "Composition.encounter")
			for i := range r.Author {
				check(&r.Author[i], "Composition.author")
			}
			for _, s := range r.Section {
				for i := range s.Entry {
					check(&s.Entry[i], "Composition.section "+s.Title)
				}
			}
		case *model.Encounter:
			check(r.Subject, "Encounter.subject")
		case *model.MedicationRequest:
			check(r.Subject, "MedicationRequest.subject")
			check(r.Requester, "MedicationRequest.requester")
			check(r.MedicationReference, "MedicationRequest.medication")
		case *model.Condition:
			check(r.Subject, "Condition.subject")
		case *model.Observation:
			check(r.Subject, "Observation.subject")
		case *model.DiagnosticReport:
			check(r.Subject, "DiagnosticReport.subject")
			for i := range r.Result {
				check(&r.Result[i], "DiagnosticReport.result")
			}
			for i := range r.Performer {
				check(&r.Performer[i], "DiagnosticReport.performer")
			}
		}
	}
}

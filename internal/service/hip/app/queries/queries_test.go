package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
)

var noon = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeDrugOrderSource struct {
	orders   []emr.DrugOrder
	err      error
	gotRange emr.DateRange
}

func (f *fakeDrugOrderSource) DrugOrders(_ context.Context, _ string, r emr.DateRange, _ string) ([]emr.DrugOrder, error) {
	f.gotRange = r
	return f.orders, f.err
}

type fakeConsultSource struct {
	records []emr.ConsultRecord
	err     error
}

func (f *fakeConsultSource) ConsultRecords(context.Context, string, emr.DateRange, string) ([]emr.ConsultRecord, error) {
	return f.records, f.err
}

type fakeDiagnosticSource struct {
	records []emr.Observation
	err     error
}

func (f *fakeDiagnosticSource) DiagnosticObservations(context.Context, string, emr.DateRange, string) ([]emr.Observation, error) {
	return f.records, f.err
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context) (fhir.OrgContext, error) {
	return fhir.OrgContext{}, &fhir.MissingContextError{Reason: "org unset"}
}

func testResolver() fhir.OrgContextResolver {
	return fhir.StaticResolver{
		Org:             fhir.Org{ID: "HFR-0042", Name: "Arogya General Hospital"},
		BaseURL:         "https://emr.arogya.example.org",
		CareContextType: "OPConsultation",
	}
}

func testLog() zerolog.Logger {
	return zerolog.Nop()
}

func patient() emr.Patient {
	return emr.Patient{UUID: "pat-1", Identifier: "GAN203006", Name: "Asha Kumari"}
}

func encounter(uuid string) emr.Encounter {
	return emr.Encounter{
		UUID:      uuid,
		Type:      "Consultation",
		VisitType: "OPD",
		Time:      noon,
		Patient:   patient(),
		Providers: []emr.Provider{{UUID: "prov-1", Name: "Dr. Rao"}},
	}
}

func order(uuid string, enc emr.Encounter, drug *emr.Concept) emr.DrugOrder {
	return emr.DrugOrder{UUID: uuid, Enc: enc, Drug: drug, Dose: 500, DoseUnits: "mg", DateActivated: noon}
}

func amoxicillin() *emr.Concept {
	return &emr.Concept{Code: "27658006", System: "http://snomed.info/sct", Display: "Amoxicillin 500mg"}
}

func TestGetPrescriptions_DocumentPerEncounter(t *testing.T) {
	src := &fakeDrugOrderSource{orders: []emr.DrugOrder{
		order("o1", encounter("enc-a"), amoxicillin()),
		order("o2", encounter("enc-b"), amoxicillin()),
		order("o3", encounter("enc-a"), amoxicillin()),
	}}
	h := NewGetPrescriptionsHandler(src, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1", VisitType: "OPD"})

	require.NoError(t, err)
	require.Len(t, res.Documents, 2)
	assert.Empty(t, res.Failures)
	assert.Equal(t, "PR-enc-a", res.Documents[0].Bundle.ID)
	assert.Equal(t, "PR-enc-b", res.Documents[1].Bundle.ID)
	assert.Equal(t, "enc-a", res.Documents[0].CareContext.Reference)
}

func TestGetPrescriptions_DefaultLookback(t *testing.T) {
	src := &fakeDrugOrderSource{}
	h := NewGetPrescriptionsHandler(src, testResolver(), testLog())

	_, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1"})

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), src.gotRange.To, time.Minute)
	assert.WithinDuration(t, src.gotRange.To.Add(-defaultLookback), src.gotRange.From, time.Minute)
}

func TestGetPrescriptions_EmptyResult(t *testing.T) {
	h := NewGetPrescriptionsHandler(&fakeDrugOrderSource{}, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1"})

	require.NoError(t, err)
	assert.NotNil(t, res.Documents)
	assert.Empty(t, res.Documents)
}

func TestGetPrescriptions_EncounterFailureIsolation(t *testing.T) {
	broken := encounter("enc-broken")
	broken.Patient = emr.Patient{}
	src := &fakeDrugOrderSource{orders: []emr.DrugOrder{
		order("o1", broken, amoxicillin()),
		order("o2", encounter("enc-ok"), amoxicillin()),
	}}
	h := NewGetPrescriptionsHandler(src, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1"})

	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "PR-enc-ok", res.Documents[0].Bundle.ID)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "enc-broken", res.Failures[0].EncounterUUID)
}

func TestGetPrescriptions_SourceError(t *testing.T) {
	src := &fakeDrugOrderSource{err: errors.New("connection refused")}
	h := NewGetPrescriptionsHandler(src, testResolver(), testLog())

	_, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1"})

	assert.Error(t, err)
}

func TestGetPrescriptions_OrgResolveFailure(t *testing.T) {
	h := NewGetPrescriptionsHandler(&fakeDrugOrderSource{}, failingResolver{}, testLog())

	_, err := h.Handle(context.Background(), GetPrescriptionsQuery{PatientUUID: "pat-1"})

	var mc *fhir.MissingContextError
	require.ErrorAs(t, err, &mc)
}

func TestGetOPConsults(t *testing.T) {
	enc := encounter("enc-a")
	src := &fakeConsultSource{records: []emr.ConsultRecord{
		{UUID: "c1", Enc: enc, Kind: emr.ChiefComplaint, Concept: emr.Concept{Display: "Fever"}, RecordedAt: noon},
		{UUID: "c2", Enc: enc, Kind: emr.MedicalHistory, Concept: emr.Concept{Display: "Diabetes mellitus"}, RecordedAt: noon},
	}}
	h := NewGetOPConsultsHandler(src, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetOPConsultsQuery{PatientUUID: "pat-1", VisitType: "OPD"})

	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "OP-enc-a", res.Documents[0].Bundle.ID)
}

func TestGetOPConsults_Empty(t *testing.T) {
	h := NewGetOPConsultsHandler(&fakeConsultSource{}, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetOPConsultsQuery{PatientUUID: "pat-1", VisitType: "OPD"})

	require.NoError(t, err)
	assert.NotNil(t, res.Documents)
	assert.Empty(t, res.Documents)
}

func TestGetDiagnosticReports(t *testing.T) {
	src := &fakeDiagnosticSource{records: []emr.Observation{{
		UUID:        "d1",
		Enc:         encounter("enc-a"),
		Concept:     emr.Concept{Code: "168731009", System: "http://snomed.info/sct", Display: "Chest X-ray"},
		ValueText:   "No acute findings.",
		EffectiveAt: noon,
	}}}
	h := NewGetDiagnosticReportsHandler(src, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetDiagnosticReportsQuery{PatientUUID: "pat-1", VisitType: "OPD"})

	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "DR-enc-a", res.Documents[0].Bundle.ID)
}

func TestGetMedicationRequests_CollectionBundle(t *testing.T) {
	encA := encounter("enc-a")
	encB := encounter("enc-b")
	src := &fakeDrugOrderSource{orders: []emr.DrugOrder{
		order("o1", encA, amoxicillin()),
		order("o2", encB, amoxicillin()),
		order("o3", encA, nil), // unresolvable, skipped
	}}
	h := NewGetMedicationRequestsHandler(src, testResolver(), testLog())

	res, err := h.Handle(context.Background(), GetMedicationRequestsQuery{PatientUUID: "pat-1", VisitType: "OPD"})

	require.NoError(t, err)
	require.NotNil(t, res.Bundle)
	assert.Equal(t, "collection", res.Bundle.Type)

	counts := make(map[string]int)
	for _, e := range res.Bundle.Entry {
		counts[e.Resource.TypeName()]++
	}
	assert.Equal(t, 2, counts["MedicationRequest"])
	assert.Equal(t, 2, counts["Medication"])
	// Shared patient and practitioner appear once.
	assert.Equal(t, 1, counts["Patient"])
	assert.Equal(t, 1, counts["Practitioner"])
}

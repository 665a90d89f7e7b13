package queries

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// GetMedicationRequestsQuery asks for a flat collection bundle of all
// the patient's medication requests for one visit type, not split per
// encounter.
type GetMedicationRequestsQuery struct {
	PatientUUID string
	Range       emr.DateRange
	VisitType   string
}

type GetMedicationRequestsResult struct {
	Bundle *model.Bundle `json:"bundle"`
}

type GetMedicationRequestsHandler interface {
	Handle(ctx context.Context, q GetMedicationRequestsQuery) (GetMedicationRequestsResult, error)
}

func NewGetMedicationRequestsHandler(src emr.DrugOrderSource, org fhir.OrgContextResolver, log zerolog.Logger) GetMedicationRequestsHandler {
	return &getMedicationRequestsHandler{src: src, org: org, log: log}
}

type getMedicationRequestsHandler struct {
	src emr.DrugOrderSource
	org fhir.OrgContextResolver
	log zerolog.Logger
}

func (h *getMedicationRequestsHandler) Handle(ctx context.Context, q GetMedicationRequestsQuery) (GetMedicationRequestsResult, error) {
	orgCtx, err := h.org.Resolve(ctx)
	if err != nil {
		return GetMedicationRequestsResult{}, err
	}

	r := q.Range
	if r.To.IsZero() {
		r.To = time.Now()
	}
	if r.From.IsZero() {
		r.From = r.To.Add(-defaultLookback)
	}

	orders, err := h.src.DrugOrders(ctx, q.PatientUUID, r, q.VisitType)
	if err != nil {
		return GetMedicationRequestsResult{}, err
	}

	b := fhir.NewBundleBuilder()
	patients := make(map[string]*model.Patient)
	requesters := make(map[string]*model.Reference)
	var skipped []string

	for _, o := range orders {
		med, err := fhir.MapMedication(o)
		if err != nil {
			skipped = append(skipped, o.UUID)
			continue
		}

		pat, ok := patients[o.Enc.Patient.UUID]
		if !ok {
			pat, err = fhir.MapPatient(o.Enc.Patient, orgCtx)
			if err != nil {
				skipped = append(skipped, o.UUID)
				continue
			}
			patients[o.Enc.Patient.UUID] = pat
			b.Add(pat)
		}
		subject := fhir.ReferenceTo(pat, o.Enc.Patient.Name)

		var requester *model.Reference
		if len(o.Enc.Providers) > 0 {
			p := o.Enc.Providers[0]
			if ref, ok := requesters[p.UUID]; ok {
				requester = ref
			} else if pr, err := fhir.MapPractitioner(p, orgCtx); err == nil {
				requester = fhir.ReferenceTo(pr, p.Name)
				requesters[p.UUID] = requester
				b.Add(pr)
			}
		}

		req, err := fhir.MapMedicationRequest(o, med, subject, requester, orgCtx)
		if err != nil {
			skipped = append(skipped, o.UUID)
			continue
		}
		b.AddAll(med, req)
	}

	logSkippedRecords(h.log, "medication", skipped)
	return GetMedicationRequestsResult{Bundle: b.BuildCollection(time.Now(), orgCtx)}, nil
}

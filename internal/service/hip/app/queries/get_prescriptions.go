package queries

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
)

// defaultLookback bounds an open-ended prescription query.
const defaultLookback = 60 * 24 * time.Hour

// EncounterFailure reports one encounter whose document could not be
// assembled. Sibling encounters in the same request are unaffected.
type EncounterFailure struct {
	EncounterUUID string `json:"encounterUuid"`
	Reason        string `json:"reason"`
}

type GetPrescriptionsQuery struct {
	PatientUUID string
	Range       emr.DateRange
	VisitType   string
}

type GetPrescriptionsResult struct {
	Documents []fhir.Document    `json:"documents"`
	Failures  []EncounterFailure `json:"failures,omitempty"`
}

type GetPrescriptionsHandler interface {
	Handle(ctx context.Context, q GetPrescriptionsQuery) (GetPrescriptionsResult, error)
}

func NewGetPrescriptionsHandler(src emr.DrugOrderSource, org fhir.OrgContextResolver, log zerolog.Logger) GetPrescriptionsHandler {
	return &getPrescriptionsHandler{src: src, org: org, log: log}
}

type getPrescriptionsHandler struct {
	src emr.DrugOrderSource
	org fhir.OrgContextResolver
	log zerolog.Logger
}

func (h *getPrescriptionsHandler) Handle(ctx context.Context, q GetPrescriptionsQuery) (GetPrescriptionsResult, error) {
	orgCtx, err := h.org.Resolve(ctx)
	if err != nil {
		return GetPrescriptionsResult{}, err
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
		return GetPrescriptionsResult{}, err
	}

	res := GetPrescriptionsResult{Documents: []fhir.Document{}}
	if len(orders) == 0 {
		return res, nil
	}

	grouping := fhir.GroupByEncounter(orders)
	logSkippedRecords(h.log, "prescriptions", grouping.Skipped)

	for _, key := range grouping.Order {
		doc, err := fhir.AssembleDocument[emr.DrugOrder](fhir.PrescriptionCategory{}, grouping.Groups[key], orgCtx)
		if err != nil {
			h.log.Error().Err(err).Str("encounter", key).Msg("prescription document aborted")
			res.Failures = append(res.Failures, EncounterFailure{EncounterUUID: key, Reason: err.Error()})
			continue
		}
		logSkippedRecords(h.log, "prescriptions", doc.SkippedRecords)
		res.Documents = append(res.Documents, *doc)
	}
	return res, nil
}

func logSkippedRecords(log zerolog.Logger, category string, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	log.Warn().Str("category", category).Strs("records", skipped).Msg("records skipped")
}

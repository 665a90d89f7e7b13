package queries

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
)

type GetOPConsultsQuery struct {
	PatientUUID string
	Range       emr.DateRange
	VisitType   string
}

type GetOPConsultsResult struct {
	Documents []fhir.Document    `json:"documents"`
	Failures  []EncounterFailure `json:"failures,omitempty"`
}

type GetOPConsultsHandler interface {
	Handle(ctx context.Context, q GetOPConsultsQuery) (GetOPConsultsResult, error)
}

func NewGetOPConsultsHandler(src emr.ConsultSource, org fhir.OrgContextResolver, log zerolog.Logger) GetOPConsultsHandler {
	return &getOPConsultsHandler{src: src, org: org, log: log}
}

type getOPConsultsHandler struct {
	src emr.ConsultSource
	org fhir.OrgContextResolver
	log zerolog.Logger
}

func (h *getOPConsultsHandler) Handle(ctx context.Context, q GetOPConsultsQuery) (GetOPConsultsResult, error) {
	orgCtx, err := h.org.Resolve(ctx)
	if err != nil {
		return GetOPConsultsResult{}, err
	}

	records, err := h.src.ConsultRecords(ctx, q.PatientUUID, q.Range, q.VisitType)
	if err != nil {
		return GetOPConsultsResult{}, err
	}

	res := GetOPConsultsResult{Documents: []fhir.Document{}}
	if len(records) == 0 {
		return res, nil
	}

	grouping := fhir.GroupByEncounter(records)
	logSkippedRecords(h.log, "opconsult", grouping.Skipped)

	for _, key := range grouping.Order {
		doc, err := fhir.AssembleDocument[emr.ConsultRecord](fhir.ConsultCategory{}, grouping.Groups[key], orgCtx)
		if err != nil {
			h.log.Error().Err(err).Str("encounter", key).Msg("op consult document aborted")
			res.Failures = append(res.Failures, EncounterFailure{EncounterUUID: key, Reason: err.Error()})
			continue
		}
		logSkippedRecords(h.log, "opconsult", doc.SkippedRecords)
		res.Documents = append(res.Documents, *doc)
	}
	return res, nil
}

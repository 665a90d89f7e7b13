package queries

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir"
)

type GetDiagnosticReportsQuery struct {
	PatientUUID string
	Range       emr.DateRange
	VisitType   string
}

type GetDiagnosticReportsResult struct {
	Documents []fhir.Document    `json:"documents"`
	Failures  []EncounterFailure `json:"failures,omitempty"`
}

type GetDiagnosticReportsHandler interface {
	Handle(ctx context.Context, q GetDiagnosticReportsQuery) (GetDiagnosticReportsResult, error)
}

func NewGetDiagnosticReportsHandler(src emr.DiagnosticSource, org fhir.OrgContextResolver, log zerolog.Logger) GetDiagnosticReportsHandler {
	return &getDiagnosticReportsHandler{src: src, org: org, log: log}
}

type getDiagnosticReportsHandler struct {
	src emr.DiagnosticSource
	org fhir.OrgContextResolver
	log zerolog.Logger
}

func (h *getDiagnosticReportsHandler) Handle(ctx context.Context, q GetDiagnosticReportsQuery) (GetDiagnosticReportsResult, error) {
	orgCtx, err := h.org.Resolve(ctx)
	if err != nil {
		return GetDiagnosticReportsResult{}, err
	}

	records, err := h.src.DiagnosticObservations(ctx, q.PatientUUID, q.Range, q.VisitType)
	if err != nil {
		return GetDiagnosticReportsResult{}, err
	}

	res := GetDiagnosticReportsResult{Documents: []fhir.Document{}}
	if len(records) == 0 {
		return res, nil
	}

	grouping := fhir.GroupByEncounter(records)
	logSkippedRecords(h.log, "diagnosticreport", grouping.Skipped)

	for _, key := range grouping.Order {
		doc, err := fhir.AssembleDocument[emr.Observation](fhir.DiagnosticReportCategory{}, grouping.Groups[key], orgCtx)
		if err != nil {
			h.log.Error().Err(err).Str("encounter", key).Msg("diagnostic report document aborted")
			res.Failures = append(res.Failures, EncounterFailure{EncounterUUID: key, Reason: err.Error()})
			continue
		}
		logSkippedRecords(h.log, "diagnosticreport", doc.SkippedRecords)
		res.Documents = append(res.Documents, *doc)
	}
	return res, nil
}

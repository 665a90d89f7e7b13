package app

import (
	"context"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/app/queries"
)

// QueryBus is the application-facing surface of the export pipeline.
// Every operation is a read: records in, document bundles out.
type QueryBus interface {
	GetPrescriptions(ctx context.Context, q queries.GetPrescriptionsQuery) (queries.GetPrescriptionsResult, error)
	GetOPConsults(ctx context.Context, q queries.GetOPConsultsQuery) (queries.GetOPConsultsResult, error)
	GetDiagnosticReports(ctx context.Context, q queries.GetDiagnosticReportsQuery) (queries.GetDiagnosticReportsResult, error)
	GetMedicationRequests(ctx context.Context, q queries.GetMedicationRequestsQuery) (queries.GetMedicationRequestsResult, error)
}

type queryBus struct {
	prescriptions      queries.GetPrescriptionsHandler
	opConsults         queries.GetOPConsultsHandler
	diagnosticReports  queries.GetDiagnosticReportsHandler
	medicationRequests queries.GetMedicationRequestsHandler
}

func NewQueryBus(
	prescriptions queries.GetPrescriptionsHandler,
	opConsults queries.GetOPConsultsHandler,
	diagnosticReports queries.GetDiagnosticReportsHandler,
	medicationRequests queries.GetMedicationRequestsHandler,
) QueryBus {
	return &queryBus{
		prescriptions:      prescriptions,
		opConsults:         opConsults,
		diagnosticReports:  diagnosticReports,
		medicationRequests: medicationRequests,
	}
}

func (b *queryBus) GetPrescriptions(ctx context.Context, q queries.GetPrescriptionsQuery) (queries.GetPrescriptionsResult, error) {
	return b.prescriptions.Handle(ctx, q)
}

func (b *queryBus) GetOPConsults(ctx context.Context, q queries.GetOPConsultsQuery) (queries.GetOPConsultsResult, error) {
	return b.opConsults.Handle(ctx, q)
}

func (b *queryBus) GetDiagnosticReports(ctx context.Context, q queries.GetDiagnosticReportsQuery) (queries.GetDiagnosticReportsResult, error) {
	return b.diagnosticReports.Handle(ctx, q)
}

func (b *queryBus) GetMedicationRequests(ctx context.Context, q queries.GetMedicationRequestsQuery) (queries.GetMedicationRequestsResult, error) {
	return b.medicationRequests.Handle(ctx, q)
}

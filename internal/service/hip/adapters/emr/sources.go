package emr

import (
	"context"
	"time"
)

// DateRange bounds a record query. Zero To means "now" at the store's
// discretion.
type DateRange struct {
	From time.Time
	To   time.Time
}

type DrugOrderSource interface {
	// DrugOrders returns the patient's drug orders within the range,
	// in order of activation. VisitType narrows to one visit type when
	// non-empty.
	DrugOrders(ctx context.Context, patientUUID string, r DateRange, visitType string) ([]DrugOrder, error)
}

type ConsultSource interface {
	ConsultRecords(ctx context.Context, patientUUID string, r DateRange, visitType string) ([]ConsultRecord, error)
}

type DiagnosticSource interface {
	// DiagnosticObservations returns observations from diagnostic
	// encounters (radiology, patient documents) within the range.
	DiagnosticObservations(ctx context.Context, patientUUID string, r DateRange, visitType string) ([]Observation, error)
}

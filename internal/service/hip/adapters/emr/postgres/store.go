// Package postgres implements the emr record sources against the
// export replica of the EMR database.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const drugOrdersSQL = `
SELECT o.uuid, o.drug_code, o.drug_system, o.drug_display,
       o.dose, o.dose_units, o.route, o.frequency, o.as_needed, o.duration, o.date_activated,
       e.uuid, e.encounter_type, e.visit_type, e.encounter_time,
       p.uuid, p.identifier, p.name, p.gender, p.birthdate
FROM drug_orders o
JOIN encounters e ON e.uuid = o.encounter_uuid
JOIN patients p   ON p.uuid = e.patient_uuid
WHERE p.uuid = $1
  AND o.date_activated BETWEEN $2 AND $3
  AND ($4 = '' OR e.visit_type = $4)
  AND NOT o.voided
ORDER BY o.date_activated`

func (s *Store) DrugOrders(ctx context.Context, patientUUID string, r emr.DateRange, visitType string) ([]emr.DrugOrder, error) {
	rows, err := s.pool.Query(ctx, drugOrdersSQL, patientUUID, r.From, upperBound(r), visitType)
	if err != nil {
		return nil, fmt.Errorf("postgres: drug orders: %w", err)
	}
	defer rows.Close()

	var orders []emr.DrugOrder
	for rows.Next() {
		var o emr.DrugOrder
		var drugCode, drugSystem, drugDisplay *string
		if err := rows.Scan(
			&o.UUID, &drugCode, &drugSystem, &drugDisplay,
			&o.Dose, &o.DoseUnits, &o.Route, &o.Frequency, &o.AsNeeded, &o.Duration, &o.DateActivated,
			&o.Enc.UUID, &o.Enc.Type, &o.Enc.VisitType, &o.Enc.Time,
			&o.Enc.Patient.UUID, &o.Enc.Patient.Identifier, &o.Enc.Patient.Name, &o.Enc.Patient.Gender, &o.Enc.Patient.BirthDate,
		); err != nil {
			return nil, fmt.Errorf("postgres: drug orders: %w", err)
		}
		if drugDisplay != nil {
			o.Drug = &emr.Concept{Display: *drugDisplay}
			if drugCode != nil {
				o.Drug.Code = *drugCode
			}
			if drugSystem != nil {
				o.Drug.System = *drugSystem
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: drug orders: %w", err)
	}
	if err := s.attachProviders(ctx, encountersOf(orders)); err != nil {
		return nil, err
	}
	return orders, nil
}

const consultRecordsSQL = `
SELECT c.uuid, c.kind, c.concept_code, c.concept_system, c.concept_display, c.note, c.recorded_at,
       e.uuid, e.encounter_type, e.visit_type, e.encounter_time,
       p.uuid, p.identifier, p.name, p.gender, p.birthdate
FROM consult_observations c
JOIN encounters e ON e.uuid = c.encounter_uuid
JOIN patients p   ON p.uuid = e.patient_uuid
WHERE p.uuid = $1
  AND c.recorded_at BETWEEN $2 AND $3
  AND ($4 = '' OR e.visit_type = $4)
  AND NOT c.voided
ORDER BY c.recorded_at`

func (s *Store) ConsultRecords(ctx context.Context, patientUUID string, r emr.DateRange, visitType string) ([]emr.ConsultRecord, error) {
	rows, err := s.pool.Query(ctx, consultRecordsSQL, patientUUID, r.From, upperBound(r), visitType)
	if err != nil {
		return nil, fmt.Errorf("postgres: consult records: %w", err)
	}
	defer rows.Close()

	var records []emr.ConsultRecord
	for rows.Next() {
		var rec emr.ConsultRecord
		var kind string
		if err := rows.Scan(
			&rec.UUID, &kind, &rec.Concept.Code, &rec.Concept.System, &rec.Concept.Display, &rec.Note, &rec.RecordedAt,
			&rec.Enc.UUID, &rec.Enc.Type, &rec.Enc.VisitType, &rec.Enc.Time,
			&rec.Enc.Patient.UUID, &rec.Enc.Patient.Identifier, &rec.Enc.Patient.Name, &rec.Enc.Patient.Gender, &rec.Enc.Patient.BirthDate,
		); err != nil {
			return nil, fmt.Errorf("postgres: consult records: %w", err)
		}
		rec.Kind = consultKind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: consult records: %w", err)
	}
	if err := s.attachProviders(ctx, encountersOf(records)); err != nil {
		return nil, err
	}
	return records, nil
}

const diagnosticObsSQL = `
SELECT d.uuid, d.concept_code, d.concept_system, d.concept_display, d.value_text, d.effective_at,
       e.uuid, e.encounter_type, e.visit_type, e.encounter_time,
       p.uuid, p.identifier, p.name, p.gender, p.birthdate
FROM diagnostic_observations d
JOIN encounters e ON e.uuid = d.encounter_uuid
JOIN patients p   ON p.uuid = e.patient_uuid
WHERE p.uuid = $1
  AND d.effective_at BETWEEN $2 AND $3
  AND e.encounter_type IN ('RADIOLOGY', 'Patient Document')
  AND ($4 = '' OR e.visit_type = $4)
  AND NOT d.voided
ORDER BY d.effective_at`

func (s *Store) DiagnosticObservations(ctx context.Context, patientUUID string, r emr.DateRange, visitType string) ([]emr.Observation, error) {
	rows, err := s.pool.Query(ctx, diagnosticObsSQL, patientUUID, r.From, upperBound(r), visitType)
	if err != nil {
		return nil, fmt.Errorf("postgres: diagnostic observations: %w", err)
	}
	defer rows.Close()

	var records []emr.Observation
	for rows.Next() {
		var rec emr.Observation
		if err := rows.Scan(
			&rec.UUID, &rec.Concept.Code, &rec.Concept.System, &rec.Concept.Display, &rec.ValueText, &rec.EffectiveAt,
			&rec.Enc.UUID, &rec.Enc.Type, &rec.Enc.VisitType, &rec.Enc.Time,
			&rec.Enc.Patient.UUID, &rec.Enc.Patient.Identifier, &rec.Enc.Patient.Name, &rec.Enc.Patient.Gender, &rec.Enc.Patient.BirthDate,
		); err != nil {
			return nil, fmt.Errorf("postgres: diagnostic observations: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: diagnostic observations: %w", err)
	}
	if err := s.attachProviders(ctx, encountersOf(records)); err != nil {
		return nil, err
	}
	return records, nil
}

const encounterProvidersSQL = `
SELECT ep.encounter_uuid, pr.uuid, pr.name
FROM encounter_providers ep
JOIN providers pr ON pr.uuid = ep.provider_uuid
WHERE ep.encounter_uuid = ANY($1)
ORDER BY ep.encounter_uuid, pr.name`

// attachProviders fills Providers on every encounter in place. Records
// of the same encounter share the provider list.
func (s *Store) attachProviders(ctx context.Context, encs []*emr.Encounter) error {
	if len(encs) == 0 {
		return nil
	}
	uuids := make([]string, 0, len(encs))
	seen := make(map[string]bool)
	for _, e := range encs {
		if !seen[e.UUID] {
			seen[e.UUID] = true
			uuids = append(uuids, e.UUID)
		}
	}

	rows, err := s.pool.Query(ctx, encounterProvidersSQL, uuids)
	if err != nil {
		return fmt.Errorf("postgres: encounter providers: %w", err)
	}
	defer rows.Close()

	byEncounter := make(map[string][]emr.Provider)
	for rows.Next() {
		var encUUID string
		var p emr.Provider
		if err := rows.Scan(&encUUID, &p.UUID, &p.Name); err != nil {
			return fmt.Errorf("postgres: encounter providers: %w", err)
		}
		byEncounter[encUUID] = append(byEncounter[encUUID], p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: encounter providers: %w", err)
	}

	for _, e := range encs {
		e.Providers = byEncounter[e.UUID]
	}
	return nil
}

func encountersOf[R emr.Record](records []R) []*emr.Encounter {
	encs := make([]*emr.Encounter, 0, len(records))
	for i := range records {
		switch r := any(&records[i]).(type) {
		case *emr.DrugOrder:
			encs = append(encs, &r.Enc)
		case *emr.ConsultRecord:
			encs = append(encs, &r.Enc)
		case *emr.Observation:
			encs = append(encs, &r.Enc)
		}
	}
	return encs
}

func consultKind(kind string) emr.ConsultRecordKind {
	switch kind {
	case "medical_history":
		return emr.MedicalHistory
	case "physical_examination":
		return emr.PhysicalExamination
	default:
		return emr.ChiefComplaint
	}
}

func upperBound(r emr.DateRange) time.Time {
	if r.To.IsZero() {
		return time.Now()
	}
	return r.To
}

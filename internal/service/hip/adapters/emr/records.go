// Package emr holds the domain records read from the source medical
// record store, and the interfaces through which they are fetched.
// The assembly engine never mutates these values.
package emr

import "time"

// Record is any encounter-scoped clinical fact. Every record carries
// the full owning encounter, the way the source store hands them out.
type Record interface {
	RecordUUID() string
	Encounter() Encounter
}

type Patient struct {
	UUID       string
	Identifier string // health-id / registration number
	Name       string
	Gender     string
	BirthDate  time.Time
}

type Provider struct {
	UUID string
	Name string
}

type Encounter struct {
	UUID      string
	Type      string
	VisitType string
	Time      time.Time
	Patient   Patient
	Providers []Provider
}

// Concept is a coded clinical notion (drug, finding, test).
type Concept struct {
	Code    string
	System  string
	Display string
}

// DrugOrder is one prescribed drug within an encounter. Drug is nil
// when the source order had no resolvable medication concept.
type DrugOrder struct {
	UUID          string
	Enc           Encounter
	Drug          *Concept
	Dose          float64
	DoseUnits     string
	Route         string
	Frequency     string
	AsNeeded      bool
	Duration      string
	DateActivated time.Time
}

func (o DrugOrder) RecordUUID() string   { return o.UUID }
func (o DrugOrder) Encounter() Encounter { return o.Enc }

// ConsultRecordKind partitions consultation records into the sections
// of an OP consultation document.
type ConsultRecordKind int

const (
	ChiefComplaint ConsultRecordKind = iota
	MedicalHistory
	PhysicalExamination
)

// ConsultRecord is one consultation observation: a complaint, a piece
// of medical history, or a physical-examination finding.
type ConsultRecord struct {
	UUID       string
	Enc        Encounter
	Kind       ConsultRecordKind
	Concept    Concept
	Note       string
	RecordedAt time.Time
}

func (r ConsultRecord) RecordUUID() string   { return r.UUID }
func (r ConsultRecord) Encounter() Encounter { return r.Enc }

// Observation is a diagnostic result observation (radiology report,
// uploaded patient document) attached to an encounter.
type Observation struct {
	UUID        string
	Enc         Encounter
	Concept     Concept
	ValueText   string
	EffectiveAt time.Time
}

func (o Observation) RecordUUID() string   { return o.UUID }
func (o Observation) Encounter() Encounter { return o.Enc }

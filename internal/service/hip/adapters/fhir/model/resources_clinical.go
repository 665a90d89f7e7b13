package model

type Medication struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Identifier   []Identifier     `json:"identifier,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
}

type MedicationRequest struct {
	ResourceType        string       `json:"resourceType"`
	ID                  string       `json:"id,omitempty"`
	Identifier          []Identifier `json:"identifier,omitempty"`
	Status              string       `json:"status,omitempty"`
	Intent              string       `json:"intent,omitempty"`
	MedicationReference *Reference   `json:"medicationReference,omitempty"`
	Subject             *Reference   `json:"subject,omitempty"`
	AuthoredOn          string       `json:"authoredOn,omitempty"`
	Requester           *Reference   `json:"requester,omitempty"`
	DosageInstruction   []Dosage     `json:"dosageInstruction,omitempty"`
}

type Condition struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Identifier   []Identifier     `json:"identifier,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
	Subject      *Reference       `json:"subject,omitempty"`
	RecordedDate string           `json:"recordedDate,omitempty"`
}

type Observation struct {
	ResourceType      string           `json:"resourceType"`
	ID                string           `json:"id,omitempty"`
	Identifier        []Identifier     `json:"identifier,omitempty"`
	Status            string           `json:"status,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	Subject           *Reference       `json:"subject,omitempty"`
	EffectiveDateTime string           `json:"effectiveDateTime,omitempty"`
	ValueString       string           `json:"valueString,omitempty"`
}

type DiagnosticReport struct {
	ResourceType      string           `json:"resourceType"`
	ID                string           `json:"id,omitempty"`
	Identifier        []Identifier     `json:"identifier,omitempty"`
	Status            string           `json:"status,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	Subject           *Reference       `json:"subject,omitempty"`
	EffectiveDateTime string           `json:"effectiveDateTime,omitempty"`
	Issued            string           `json:"issued,omitempty"`
	Performer         []Reference      `json:"performer,omitempty"`
	Result            []Reference      `json:"result,omitempty"`
}

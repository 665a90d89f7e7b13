package model

// Shared FHIR R4 datatypes, restricted to the fields the exchanged
// documents actually populate.

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Reference is a non-owning pointer to another resource in the same
// document, "<Type>/<id>" plus a human-readable display.
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
	Prefix []string `json:"prefix,omitempty"`
}

type Quantity struct {
	Value float64 `json:"value,omitempty"`
	Unit  string  `json:"unit,omitempty"`
}

type DoseAndRate struct {
	DoseQuantity *Quantity `json:"doseQuantity,omitempty"`
}

type Timing struct {
	Code *CodeableConcept `json:"code,omitempty"`
}

type Dosage struct {
	Text            string           `json:"text,omitempty"`
	Timing          *Timing          `json:"timing,omitempty"`
	AsNeededBoolean *bool            `json:"asNeededBoolean,omitempty"`
	Route           *CodeableConcept `json:"route,omitempty"`
	DoseAndRate     []DoseAndRate    `json:"doseAndRate,omitempty"`
}

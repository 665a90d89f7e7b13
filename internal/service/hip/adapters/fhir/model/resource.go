package model

// Resource interface implementations. Identity falls back to the
// resource id when no identifier was minted for the resource.

func identity(ids []Identifier, fallback string) string {
	if len(ids) > 0 && ids[0].Value != "" {
		return ids[0].Value
	}
	return fallback
}

func (r *Organization) ResourceID() string { return r.ID }
func (r *Organization) TypeName() string   { return "Organization" }
func (r *Organization) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Patient) ResourceID() string { return r.ID }
func (r *Patient) TypeName() string   { return "Patient" }
func (r *Patient) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Practitioner) ResourceID() string { return r.ID }
func (r *Practitioner) TypeName() string   { return "Practitioner" }
func (r *Practitioner) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Encounter) ResourceID() string { return r.ID }
func (r *Encounter) TypeName() string   { return "Encounter" }
func (r *Encounter) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Medication) ResourceID() string { return r.ID }
func (r *Medication) TypeName() string   { return "Medication" }
func (r *Medication) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *MedicationRequest) ResourceID() string { return r.ID }
func (r *MedicationRequest) TypeName() string   { return "MedicationRequest" }
func (r *MedicationRequest) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Condition) ResourceID() string { return r.ID }
func (r *Condition) TypeName() string   { return "Condition" }
func (r *Condition) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Observation) ResourceID() string { return r.ID }
func (r *Observation) TypeName() string   { return "Observation" }
func (r *Observation) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *DiagnosticReport) ResourceID() string { return r.ID }
func (r *DiagnosticReport) TypeName() string   { return "DiagnosticReport" }
func (r *DiagnosticReport) Identity() string   { return identity(r.Identifier, r.ID) }

func (r *Composition) ResourceID() string { return r.ID }
func (r *Composition) TypeName() string   { return "Composition" }
func (r *Composition) Identity() string {
	if r.Identifier != nil && r.Identifier.Value != "" {
		return r.Identifier.Value
	}
	return r.ID
}

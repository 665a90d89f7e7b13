package model

// Resource is implemented by every resource that can appear as a
// bundle entry. Identity() is the logical identity used for entry
// deduplication: the primary identifier value when one exists,
// otherwise the resource id.
type Resource interface {
	ResourceID() string
	TypeName() string
	Identity() string
}

const (
	BundleTypeDocument   = "document"
	BundleTypeCollection = "collection"
)

type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Identifier   *Identifier   `json:"identifier,omitempty"`
	Type         string        `json:"type,omitempty"`
	Timestamp    string        `json:"timestamp,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string   `json:"fullUrl,omitempty"`
	Resource Resource `json:"resource,omitempty"`
}

package fhir

import (
	"context"
	"net/url"
	"strings"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

// Org identifies the health facility emitting documents.
type Org struct {
	ID     string
	Name   string
	System string // identifier system under which ID is registered
}

// OrgContext is the immutable per-run organization context. Every
// identifier system minted during an assembly run hangs off BaseURL.
type OrgContext struct {
	Org             Org
	BaseURL         string
	CareContextType string
}

// NewOrgContext validates the organization settings and returns the
// context used for one assembly run. An unset or malformed base URL
// fails the whole request: identifier systems are meaningless without
// it.
func NewOrgContext(org Org, baseURL, careContextType string) (OrgContext, error) {
	if baseURL == "" {
		return OrgContext{}, &MissingContextError{Reason: "organization base URL is not configured"}
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return OrgContext{}, &MissingContextError{Reason: "organization base URL is malformed: " + baseURL}
	}
	if org.ID == "" {
		return OrgContext{}, &MissingContextError{Reason: "organization id is not configured"}
	}
	return OrgContext{
		Org:             org,
		BaseURL:         strings.TrimRight(baseURL, "/"),
		CareContextType: careContextType,
	}, nil
}

// IdentifierSystem returns the namespace URL for one resource-type
// segment, e.g. <base>/document.
func (c OrgContext) IdentifierSystem(segment string) string {
	return c.BaseURL + "/" + segment
}

// Identifier mints a namespaced identifier for a resource of the
// given type segment.
func (c OrgContext) Identifier(segment, value string) model.Identifier {
	return model.Identifier{System: c.IdentifierSystem(segment), Value: value}
}

// Organization returns the emitting organization as a resource.
func (c OrgContext) Organization() *model.Organization {
	return &model.Organization{
		ResourceType: "Organization",
		ID:           c.Org.ID,
		Identifier:   []model.Identifier{{System: c.Org.System, Value: c.Org.ID}},
		Name:         c.Org.Name,
	}
}

// OrgContextResolver supplies the organization context for one
// request. Implementations read external configuration; the core only
// sees the resolved snapshot.
type OrgContextResolver interface {
	Resolve(ctx context.Context) (OrgContext, error)
}

// StaticResolver resolves the organization context from fixed
// settings, validating on every call.
type StaticResolver struct {
	Org             Org
	BaseURL         string
	CareContextType string
}

func (r StaticResolver) Resolve(ctx context.Context) (OrgContext, error) {
	return NewOrgContext(r.Org, r.BaseURL, r.CareContextType)
}

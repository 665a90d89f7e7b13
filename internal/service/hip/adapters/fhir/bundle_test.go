package fhir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/emr"
	"github.com/arogya-systems/hip-exchange/internal/service/hip/adapters/fhir/model"
)

func TestBundleBuilder_DeduplicatesByIdentity(t *testing.T) {
	org := testOrg(t)
	provider := emr.Provider{UUID: "prov-1", Name: "Dr. Rao"}

	// Two mappings of the same provider get fresh resource ids but
	// share a logical identity.
	first, err := MapPractitioner(provider, org)
	require.NoError(t, err)
	second, err := MapPractitioner(provider, org)
	require.NoError(t, err)
	require.NotEqual(t, first.ResourceID(), second.ResourceID())

	b := NewBundleBuilder()
	b.AddAll(first, second)

	bundle := b.BuildDocument("PR-enc-1", testTime, org)
	require.Len(t, bundle.Entry, 1)
	assert.Equal(t, first.ResourceID(), bundle.Entry[0].Resource.ResourceID())
}

func TestBundleBuilder_KeepsInsertionOrder(t *testing.T) {
	org := testOrg(t)

	pat, err := MapPatient(testPatient(), org)
	require.NoError(t, err)
	enc, err := MapEncounter(testEncounter("enc-1"), ReferenceTo(pat, ""), org)
	require.NoError(t, err)

	b := NewBundleBuilder()
	b.Add(enc)
	b.Add(pat)
	b.Add(nil)

	bundle := b.BuildDocument("PR-enc-1", testTime, org)
	require.Len(t, bundle.Entry, 2)
	assert.Equal(t, "Encounter", bundle.Entry[0].Resource.TypeName())
	assert.Equal(t, "Patient", bundle.Entry[1].Resource.TypeName())
}

func TestBundleBuilder_BuildDocument(t *testing.T) {
	org := testOrg(t)

	bundle := NewBundleBuilder().BuildDocument("PR-enc-1", testTime, org)

	assert.Equal(t, "Bundle", bundle.ResourceType)
	assert.Equal(t, model.BundleTypeDocument, bundle.Type)
	assert.Equal(t, "PR-enc-1", bundle.ID)
	assert.Equal(t, "PR-enc-1", bundle.Identifier.Value)
	assert.Equal(t, org.IdentifierSystem("document"), bundle.Identifier.System)
	assert.Equal(t, "2025-03-14T10:30:00Z", bundle.Timestamp)
}

func TestBundleBuilder_BuildCollection(t *testing.T) {
	org := testOrg(t)

	bundle := NewBundleBuilder().BuildCollection(testTime, org)

	assert.Equal(t, model.BundleTypeCollection, bundle.Type)
	assert.NotEmpty(t, bundle.ID)
}

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytree-backend/domain/core/valueobjects"
)

func mustID(t *testing.T, s string) valueobjects.PersonID {
	t.Helper()
	id, err := valueobjects.NewPersonIDFromString(s)
	require.NoError(t, err)
	return id
}

func TestNewHierarchyRelationship(t *testing.T) {
	parent := mustID(t, "p1")
	child := mustID(t, "p2")

	rel, err := NewHierarchyRelationship(parent, child)
	require.NoError(t, err)
	assert.Equal(t, "e-p1-p2", rel.ID())
	assert.Equal(t, KindHierarchy, rel.Kind())
	assert.False(t, rel.IsSpousal())
	assert.Equal(t, valueobjects.HandleBottom, rel.SourceHandle())
	assert.Equal(t, valueobjects.HandleTop, rel.TargetHandle())

	_, err = NewHierarchyRelationship(valueobjects.PersonID{}, child)
	assert.Error(t, err)
}

func TestNewSpousalRelationship(t *testing.T) {
	initiator := mustID(t, "p1")
	partner := mustID(t, "p2")

	rel, err := NewSpousalRelationship(initiator, partner)
	require.NoError(t, err)
	assert.Equal(t, "e-p1-p2", rel.ID())
	assert.True(t, rel.IsSpousal())
	assert.Equal(t, valueobjects.HandleRight, rel.SourceHandle())
	assert.Equal(t, valueobjects.HandleLeft, rel.TargetHandle())
	assert.Equal(t, "Married", rel.Label())
}

func TestNewFreeformRelationship(t *testing.T) {
	a := mustID(t, "p1")
	b := mustID(t, "p2")

	first, err := NewFreeformRelationship(a, b, valueobjects.HandleLeft, valueobjects.HandleRight)
	require.NoError(t, err)
	second, err := NewFreeformRelationship(a, b, valueobjects.HandleLeft, valueobjects.HandleRight)
	require.NoError(t, err)

	// Freeform edges get random ids so duplicates can coexist
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, KindHierarchy, first.Kind())
	assert.Equal(t, valueobjects.HandleLeft, first.SourceHandle())
}

func TestRelationshipEndpoints(t *testing.T) {
	a := mustID(t, "p1")
	b := mustID(t, "p2")
	c := mustID(t, "p3")

	rel, err := NewHierarchyRelationship(a, b)
	require.NoError(t, err)

	assert.True(t, rel.Involves(a))
	assert.True(t, rel.Involves(b))
	assert.False(t, rel.Involves(c))
	assert.True(t, rel.OtherEnd(a).Equals(b))
	assert.True(t, rel.OtherEnd(b).Equals(a))
}

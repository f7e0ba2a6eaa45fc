package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
)

func TestToTreeCoercesBoundaryInput(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{
			{ID: "p1", Name: "Alice", Gender: "definitely-not-a-gender", Position: Position{X: 10, Y: 20}},
			{ID: "p2", Name: "Bob", Gender: "MALE"},
		},
		Edges: []Edge{
			// No handles given: hierarchy edges default to bottom->top
			{ID: "e-p1-p2", Source: "p1", Target: "p2"},
		},
	}

	tree, err := ToTree(snap, nil)
	require.NoError(t, err)

	alice, err := tree.GetPerson(mustID(t, "p1"))
	require.NoError(t, err)
	assert.Equal(t, entities.GenderOther, alice.Gender(), "unknown gender text coerces to OTHER")
	assert.Equal(t, 10.0, alice.Position().X())

	rel, err := tree.GetRelationship("e-p1-p2")
	require.NoError(t, err)
	assert.Equal(t, entities.KindHierarchy, rel.Kind())
	assert.Equal(t, valueobjects.HandleBottom, rel.SourceHandle())
	assert.Equal(t, valueobjects.HandleTop, rel.TargetHandle())
}

func TestToTreeSpousalDefaults(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		Edges: []Edge{
			{ID: "e-p1-p2", Source: "p1", Target: "p2", IsSpouse: true, Label: "Married"},
		},
	}

	tree, err := ToTree(snap, nil)
	require.NoError(t, err)

	rel, err := tree.GetRelationship("e-p1-p2")
	require.NoError(t, err)
	assert.True(t, rel.IsSpousal())
	assert.Equal(t, valueobjects.HandleRight, rel.SourceHandle())
	assert.Equal(t, valueobjects.HandleLeft, rel.TargetHandle())
}

func TestToTreeRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
	}{
		{"empty node id", &Snapshot{Nodes: []Node{{ID: "", Name: "X"}}}},
		{"empty name", &Snapshot{Nodes: []Node{{ID: "p1", Name: ""}}}},
		{"bad handle", &Snapshot{
			Nodes: []Node{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}},
			Edges: []Edge{{ID: "e1", Source: "p1", Target: "p2", SourceHandle: "middle"}},
		}},
		{"dangling edge", &Snapshot{
			Nodes: []Node{{ID: "p1", Name: "A"}},
			Edges: []Edge{{ID: "e1", Source: "p1", Target: "ghost"}},
		}},
		{"duplicate node id", &Snapshot{
			Nodes: []Node{{ID: "p1", Name: "A"}, {ID: "p1", Name: "B"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToTree(tt.snap, nil)
			assert.Error(t, err)
		})
	}
}

func TestFromTreeRendersSelection(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{{ID: "p1", Name: "Alice", Gender: "FEMALE"}},
	}
	tree, err := ToTree(snap, nil)
	require.NoError(t, err)

	out := FromTree(tree, mustID(t, "p1"))
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, "p1", out.SelectedNodeID)

	out = FromTree(tree, valueobjects.PersonID{})
	assert.Empty(t, out.SelectedNodeID)
}

func mustID(t *testing.T, s string) valueobjects.PersonID {
	t.Helper()
	id, err := valueobjects.NewPersonIDFromString(s)
	require.NoError(t, err)
	return id
}

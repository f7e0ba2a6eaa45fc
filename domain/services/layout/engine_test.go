package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytree-backend/domain/config"
	"familytree-backend/domain/core/aggregates"
	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
)

func addPerson(t *testing.T, tree *aggregates.FamilyTree, id string) valueobjects.PersonID {
	t.Helper()
	pid, err := valueobjects.NewPersonIDFromString(id)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	person, err := entities.ReconstructPerson(pid, id, entities.GenderOther, "", "", "", "", pos)
	require.NoError(t, err)
	require.NoError(t, tree.AddPerson(person))
	return pid
}

func addHierarchy(t *testing.T, tree *aggregates.FamilyTree, parent, child valueobjects.PersonID) {
	t.Helper()
	rel, err := entities.NewHierarchyRelationship(parent, child)
	require.NoError(t, err)
	require.NoError(t, tree.AddRelationship(rel))
}

func addSpousal(t *testing.T, tree *aggregates.FamilyTree, a, b valueobjects.PersonID) {
	t.Helper()
	rel, err := entities.NewSpousalRelationship(a, b)
	require.NoError(t, err)
	require.NoError(t, tree.AddRelationship(rel))
}

func positionOf(t *testing.T, tree *aggregates.FamilyTree, id valueobjects.PersonID) valueobjects.Position {
	t.Helper()
	person, err := tree.GetPerson(id)
	require.NoError(t, err)
	return person.Position()
}

func TestApplyEmptyTree(t *testing.T) {
	engine := NewEngine(nil)
	tree := aggregates.NewFamilyTree(nil)
	assert.NoError(t, engine.Apply(tree))
}

func TestSubgraphExcludesSpousalEdges(t *testing.T) {
	tree := aggregates.NewFamilyTree(nil)
	a := addPerson(t, tree, "a")
	b := addPerson(t, tree, "b")
	addSpousal(t, tree, a, b)

	sg := buildSubgraph(tree)
	assert.Equal(t, 0, sg.edges)
	assert.Len(t, sg.nodes, 2)
}

func TestSpousesShareARank(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewEngine(cfg)
	tree := aggregates.NewFamilyTree(cfg)

	father := addPerson(t, tree, "father")
	mother := addPerson(t, tree, "mother")
	child := addPerson(t, tree, "child")
	addSpousal(t, tree, father, mother)
	addHierarchy(t, tree, father, child)
	addHierarchy(t, tree, mother, child)

	require.NoError(t, engine.Apply(tree))

	// Partners stay on the same row, the child lands one rank below
	assert.InDelta(t, positionOf(t, tree, father).Y(), positionOf(t, tree, mother).Y(), 1e-9)
	expectedGap := cfg.NodeHeight + cfg.RankSeparation
	assert.InDelta(t, positionOf(t, tree, father).Y()+expectedGap, positionOf(t, tree, child).Y(), 1e-9)
}

func TestRanksFollowLongestPath(t *testing.T) {
	engine := NewEngine(nil)
	tree := aggregates.NewFamilyTree(nil)

	// grandparent -> parent -> child, plus a direct grandparent -> child
	// edge; the child must still land two ranks down.
	grandparent := addPerson(t, tree, "gp")
	parent := addPerson(t, tree, "p")
	child := addPerson(t, tree, "c")
	addHierarchy(t, tree, grandparent, parent)
	addHierarchy(t, tree, parent, child)
	addHierarchy(t, tree, grandparent, child)

	require.NoError(t, engine.Apply(tree))

	cfg := config.DefaultDomainConfig()
	gap := cfg.NodeHeight + cfg.RankSeparation
	assert.InDelta(t, positionOf(t, tree, grandparent).Y()+gap, positionOf(t, tree, parent).Y(), 1e-9)
	assert.InDelta(t, positionOf(t, tree, grandparent).Y()+2*gap, positionOf(t, tree, child).Y(), 1e-9)
}

func TestDisconnectedPersonsLandInRankZero(t *testing.T) {
	engine := NewEngine(nil)
	tree := aggregates.NewFamilyTree(nil)

	root := addPerson(t, tree, "root")
	child := addPerson(t, tree, "child")
	loner := addPerson(t, tree, "loner")
	addHierarchy(t, tree, root, child)

	require.NoError(t, engine.Apply(tree))

	assert.InDelta(t, positionOf(t, tree, root).Y(), positionOf(t, tree, loner).Y(), 1e-9)
}

func TestRowsAreCenteredAndSpaced(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	engine := NewEngine(cfg)
	tree := aggregates.NewFamilyTree(cfg)

	a := addPerson(t, tree, "a")
	b := addPerson(t, tree, "b")

	require.NoError(t, engine.Apply(tree))

	pa := positionOf(t, tree, a)
	pb := positionOf(t, tree, b)

	assert.InDelta(t, cfg.NodeWidth+cfg.NodeSeparation, pb.X()-pa.X(), 1e-9)

	// Row centers on x=0: the two top-left corners mirror around it
	centerA := pa.X() + cfg.NodeWidth/2
	centerB := pb.X() + cfg.NodeWidth/2
	assert.InDelta(t, 0, centerA+centerB, 1e-9)
}

func TestApplyIsDeterministic(t *testing.T) {
	engine := NewEngine(nil)
	tree := aggregates.NewFamilyTree(nil)

	ids := make([]valueobjects.PersonID, 0, 6)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		ids = append(ids, addPerson(t, tree, name))
	}
	addHierarchy(t, tree, ids[0], ids[2])
	addHierarchy(t, tree, ids[1], ids[2])
	addHierarchy(t, tree, ids[1], ids[3])
	addHierarchy(t, tree, ids[2], ids[4])
	addHierarchy(t, tree, ids[3], ids[5])

	require.NoError(t, engine.Apply(tree))
	first := make([]valueobjects.Position, len(ids))
	for i, id := range ids {
		first[i] = positionOf(t, tree, id)
	}

	require.NoError(t, engine.Apply(tree))
	for i, id := range ids {
		assert.True(t, first[i].Equals(positionOf(t, tree, id)), "position of %s changed between runs", id)
	}
}

func TestApplySurvivesCycles(t *testing.T) {
	engine := NewEngine(nil)
	tree := aggregates.NewFamilyTree(nil)

	a := addPerson(t, tree, "a")
	b := addPerson(t, tree, "b")
	addHierarchy(t, tree, a, b)
	addHierarchy(t, tree, b, a)

	// A cyclic hierarchy degrades instead of failing
	assert.NoError(t, engine.Apply(tree))
}

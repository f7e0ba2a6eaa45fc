package services

import (
	"math/rand"

	"familytree-backend/domain/config"
	"familytree-backend/domain/core/aggregates"
	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
)

// RelationshipBuilder encodes the genealogical construction rules as atomic
// tree mutations. Operations that target a person id not present in the
// tree are silent no-ops: they return a nil person and no error.
//
// Positions assigned here are provisional placement hints so a new node
// renders sensibly before the next layout pass; only layout engine output
// is authoritative once invoked.
type RelationshipBuilder struct {
	cfg *config.DomainConfig
}

// NewRelationshipBuilder creates a builder with the given domain config
func NewRelationshipBuilder(cfg *config.DomainConfig) *RelationshipBuilder {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &RelationshipBuilder{cfg: cfg}
}

// AddPerson creates a standalone person with placeholder attributes at a
// pseudo-random offset near the origin, so successive additions do not
// overlap exactly.
func (b *RelationshipBuilder) AddPerson(tree *aggregates.FamilyTree) (*entities.Person, error) {
	position, err := valueobjects.NewPosition(
		b.cfg.NewPersonBaseX+rand.Float64()*b.cfg.NewPersonJitter,
		b.cfg.NewPersonBaseY+rand.Float64()*b.cfg.NewPersonJitter,
	)
	if err != nil {
		return nil, err
	}

	person, err := entities.NewPerson(b.cfg.DefaultPersonName, entities.GenderOther, position)
	if err != nil {
		return nil, err
	}
	if err := tree.AddPerson(person); err != nil {
		return nil, err
	}
	return person, nil
}

// AddSpouse creates a new person with the heuristically opposite gender and
// a single spousal relationship from the existing person to the new one.
// The spouse is placed horizontally offset so the pair renders side by side.
// Calling twice on the same person creates two independent spouses; no
// spouse count limit is enforced.
func (b *RelationshipBuilder) AddSpouse(tree *aggregates.FamilyTree, personID valueobjects.PersonID) (*entities.Person, error) {
	source, err := tree.GetPerson(personID)
	if err != nil {
		return nil, nil // unknown person: no-op
	}

	position, err := source.Position().Translate(b.cfg.SpouseOffsetX, 0)
	if err != nil {
		return nil, err
	}

	spouse, err := entities.NewPerson(b.cfg.DefaultSpouseName, source.Gender().Opposite(), position)
	if err != nil {
		return nil, err
	}
	if err := tree.AddPerson(spouse); err != nil {
		return nil, err
	}

	rel, err := entities.NewSpousalRelationship(source.ID(), spouse.ID())
	if err != nil {
		return nil, err
	}
	if err := tree.AddRelationship(rel); err != nil {
		return nil, err
	}
	return spouse, nil
}

// AddChild creates a new child person below the given parent, with a
// hierarchy edge from the parent. If the parent has a spousal relationship,
// a second hierarchy edge from that spouse is created as well, keeping the
// child connected to both members of the couple. When the parent has more
// than one spouse only the first spousal edge found is propagated.
func (b *RelationshipBuilder) AddChild(tree *aggregates.FamilyTree, personID valueobjects.PersonID) (*entities.Person, error) {
	parent, err := tree.GetPerson(personID)
	if err != nil {
		return nil, nil // unknown person: no-op
	}

	position, err := parent.Position().Translate(0, b.cfg.ChildOffsetY)
	if err != nil {
		return nil, err
	}

	child, err := entities.NewPerson(b.cfg.DefaultChildName, entities.GenderOther, position)
	if err != nil {
		return nil, err
	}
	if err := tree.AddPerson(child); err != nil {
		return nil, err
	}

	parentEdge, err := entities.NewHierarchyRelationship(parent.ID(), child.ID())
	if err != nil {
		return nil, err
	}
	if err := tree.AddRelationship(parentEdge); err != nil {
		return nil, err
	}

	if spouseID, ok := b.firstSpouseOf(tree, parent.ID()); ok {
		spouseEdge, err := entities.NewHierarchyRelationship(spouseID, child.ID())
		if err != nil {
			return nil, err
		}
		if err := tree.AddRelationship(spouseEdge); err != nil {
			return nil, err
		}
	}

	return child, nil
}

// Connect creates a freeform user-drawn relationship with the given
// handles. No genealogical validation: duplicate edges, self-loops and
// cycles are all accepted. Unknown endpoints are a silent no-op.
func (b *RelationshipBuilder) Connect(
	tree *aggregates.FamilyTree,
	source, target valueobjects.PersonID,
	sourceHandle, targetHandle valueobjects.Handle,
) (*entities.Relationship, error) {
	if !tree.HasPerson(source) || !tree.HasPerson(target) {
		return nil, nil
	}

	rel, err := entities.NewFreeformRelationship(source, target, sourceHandle, targetHandle)
	if err != nil {
		return nil, err
	}
	if err := tree.AddRelationship(rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// firstSpouseOf resolves the other endpoint of the first spousal edge
// incident to the given person, scanning in insertion order.
func (b *RelationshipBuilder) firstSpouseOf(tree *aggregates.FamilyTree, personID valueobjects.PersonID) (valueobjects.PersonID, bool) {
	for _, rel := range tree.RelationshipsInvolving(personID) {
		if rel.IsSpousal() {
			return rel.OtherEnd(personID), true
		}
	}
	return valueobjects.PersonID{}, false
}

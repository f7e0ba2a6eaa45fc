package aggregates

import (
	"time"

	"familytree-backend/domain/config"
	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
	pkgerrors "familytree-backend/pkg/errors"
)

// FamilyTree is the aggregate root for the family graph. It owns the
// canonical set of persons and relationships and enforces the referential
// invariants: ids are unique, and no relationship references a person that
// is not in the tree.
//
// Iteration order over persons and relationships is insertion order, which
// keeps layout and serialization deterministic.
type FamilyTree struct {
	persons       map[valueobjects.PersonID]*entities.Person
	personOrder   []valueobjects.PersonID
	relationships map[string]*entities.Relationship
	relationOrder []string
	cfg           *config.DomainConfig
	updatedAt     time.Time
}

// NewFamilyTree creates an empty tree
func NewFamilyTree(cfg *config.DomainConfig) *FamilyTree {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &FamilyTree{
		persons:       make(map[valueobjects.PersonID]*entities.Person),
		relationships: make(map[string]*entities.Relationship),
		cfg:           cfg,
		updatedAt:     time.Now(),
	}
}

// AddPerson adds a person to the tree
func (t *FamilyTree) AddPerson(person *entities.Person) error {
	if person == nil {
		return pkgerrors.NewValidationError("person cannot be nil")
	}
	if _, exists := t.persons[person.ID()]; exists {
		return pkgerrors.NewConflictError("person already exists in tree")
	}
	if len(t.persons) >= t.cfg.MaxPeoplePerTree {
		return pkgerrors.NewConflictError("maximum people reached")
	}

	t.persons[person.ID()] = person
	t.personOrder = append(t.personOrder, person.ID())
	t.updatedAt = time.Now()
	return nil
}

// AddRelationship adds a relationship whose endpoints must already exist
func (t *FamilyTree) AddRelationship(rel *entities.Relationship) error {
	if rel == nil {
		return pkgerrors.NewValidationError("relationship cannot be nil")
	}
	if _, exists := t.persons[rel.Source()]; !exists {
		return pkgerrors.NewNotFoundError("source person")
	}
	if _, exists := t.persons[rel.Target()]; !exists {
		return pkgerrors.NewNotFoundError("target person")
	}
	if _, exists := t.relationships[rel.ID()]; exists {
		return pkgerrors.NewConflictError("relationship already exists in tree")
	}

	t.relationships[rel.ID()] = rel
	t.relationOrder = append(t.relationOrder, rel.ID())
	t.updatedAt = time.Now()
	return nil
}

// GetPerson retrieves a person by id
func (t *FamilyTree) GetPerson(id valueobjects.PersonID) (*entities.Person, error) {
	person, exists := t.persons[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("person")
	}
	return person, nil
}

// HasPerson checks whether a person exists without error
func (t *FamilyTree) HasPerson(id valueobjects.PersonID) bool {
	_, exists := t.persons[id]
	return exists
}

// GetRelationship retrieves a relationship by id
func (t *FamilyTree) GetRelationship(id string) (*entities.Relationship, error) {
	rel, exists := t.relationships[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("relationship")
	}
	return rel, nil
}

// Persons returns all persons in insertion order
func (t *FamilyTree) Persons() []*entities.Person {
	persons := make([]*entities.Person, 0, len(t.personOrder))
	for _, id := range t.personOrder {
		persons = append(persons, t.persons[id])
	}
	return persons
}

// Relationships returns all relationships in insertion order
func (t *FamilyTree) Relationships() []*entities.Relationship {
	rels := make([]*entities.Relationship, 0, len(t.relationOrder))
	for _, id := range t.relationOrder {
		rels = append(rels, t.relationships[id])
	}
	return rels
}

// RelationshipsInvolving returns every relationship incident to a person,
// in insertion order. Used for cascade delete and spouse discovery.
func (t *FamilyTree) RelationshipsInvolving(id valueobjects.PersonID) []*entities.Relationship {
	var rels []*entities.Relationship
	for _, relID := range t.relationOrder {
		if rel := t.relationships[relID]; rel.Involves(id) {
			rels = append(rels, rel)
		}
	}
	return rels
}

// RelationshipsOfKind filters relationships by kind, in insertion order
func (t *FamilyTree) RelationshipsOfKind(kind entities.RelationshipKind) []*entities.Relationship {
	var rels []*entities.Relationship
	for _, relID := range t.relationOrder {
		if rel := t.relationships[relID]; rel.Kind() == kind {
			rels = append(rels, rel)
		}
	}
	return rels
}

// PersonCount returns the number of persons in the tree
func (t *FamilyTree) PersonCount() int {
	return len(t.persons)
}

// RelationshipCount returns the number of relationships in the tree
func (t *FamilyTree) RelationshipCount() int {
	return len(t.relationships)
}

// RemovePerson removes a person and cascades deletion to every incident
// relationship
func (t *FamilyTree) RemovePerson(id valueobjects.PersonID) error {
	if _, exists := t.persons[id]; !exists {
		return pkgerrors.NewNotFoundError("person")
	}

	remaining := t.relationOrder[:0]
	for _, relID := range t.relationOrder {
		if t.relationships[relID].Involves(id) {
			delete(t.relationships, relID)
			continue
		}
		remaining = append(remaining, relID)
	}
	t.relationOrder = remaining

	delete(t.persons, id)
	for i, pid := range t.personOrder {
		if pid.Equals(id) {
			t.personOrder = append(t.personOrder[:i], t.personOrder[i+1:]...)
			break
		}
	}

	t.updatedAt = time.Now()
	return nil
}

// RemoveRelationship removes a single relationship by id
func (t *FamilyTree) RemoveRelationship(id string) error {
	if _, exists := t.relationships[id]; !exists {
		return pkgerrors.NewNotFoundError("relationship")
	}

	delete(t.relationships, id)
	for i, relID := range t.relationOrder {
		if relID == id {
			t.relationOrder = append(t.relationOrder[:i], t.relationOrder[i+1:]...)
			break
		}
	}

	t.updatedAt = time.Now()
	return nil
}

// Replace swaps the whole graph content in one operation. Relationships
// whose endpoints are missing from the person set are rejected.
func (t *FamilyTree) Replace(persons []*entities.Person, relationships []*entities.Relationship) error {
	newPersons := make(map[valueobjects.PersonID]*entities.Person, len(persons))
	newOrder := make([]valueobjects.PersonID, 0, len(persons))
	for _, person := range persons {
		if person == nil {
			return pkgerrors.NewValidationError("person cannot be nil")
		}
		if _, exists := newPersons[person.ID()]; exists {
			return pkgerrors.NewConflictError("duplicate person id: " + person.ID().String())
		}
		newPersons[person.ID()] = person
		newOrder = append(newOrder, person.ID())
	}

	newRels := make(map[string]*entities.Relationship, len(relationships))
	newRelOrder := make([]string, 0, len(relationships))
	for _, rel := range relationships {
		if rel == nil {
			return pkgerrors.NewValidationError("relationship cannot be nil")
		}
		if _, exists := newPersons[rel.Source()]; !exists {
			return pkgerrors.NewValidationError("relationship references unknown source: " + rel.Source().String())
		}
		if _, exists := newPersons[rel.Target()]; !exists {
			return pkgerrors.NewValidationError("relationship references unknown target: " + rel.Target().String())
		}
		if _, exists := newRels[rel.ID()]; exists {
			return pkgerrors.NewConflictError("duplicate relationship id: " + rel.ID())
		}
		newRels[rel.ID()] = rel
		newRelOrder = append(newRelOrder, rel.ID())
	}

	t.persons = newPersons
	t.personOrder = newOrder
	t.relationships = newRels
	t.relationOrder = newRelOrder
	t.updatedAt = time.Now()
	return nil
}

// Validate ensures tree invariants
func (t *FamilyTree) Validate() error {
	for _, rel := range t.relationships {
		if _, exists := t.persons[rel.Source()]; !exists {
			return pkgerrors.NewInternalError("relationship references non-existent source person")
		}
		if _, exists := t.persons[rel.Target()]; !exists {
			return pkgerrors.NewInternalError("relationship references non-existent target person")
		}
	}
	if len(t.persons) != len(t.personOrder) {
		return pkgerrors.NewInternalError("person count mismatch")
	}
	if len(t.relationships) != len(t.relationOrder) {
		return pkgerrors.NewInternalError("relationship count mismatch")
	}
	return nil
}

// UpdatedAt returns when the tree content last changed
func (t *FamilyTree) UpdatedAt() time.Time {
	return t.updatedAt
}

// Package snapshot defines the single serialization shape of the editor
// state: the node/edge lists consumed by the view layer, written to local
// persistence, and published to observers.
package snapshot

import (
	"familytree-backend/domain/config"
	"familytree-backend/domain/core/aggregates"
	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
)

// Position is a node's top-left placement on the canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one person with its layout position and attributes
type Node struct {
	ID        string   `json:"id"`
	Position  Position `json:"position"`
	Name      string   `json:"name"`
	Gender    string   `json:"gender"`
	BirthDate string   `json:"birthDate,omitempty"`
	DeathDate string   `json:"deathDate,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
}

// Edge is one relationship with its kind and anchor handles
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	IsSpouse     bool   `json:"isSpouse"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
	Label        string `json:"label,omitempty"`
}

// Snapshot is the whole editor state
type Snapshot struct {
	Nodes          []Node `json:"nodes"`
	Edges          []Edge `json:"edges"`
	SelectedNodeID string `json:"selectedNodeId,omitempty"`
}

// FromTree renders the current tree and selection into a snapshot
func FromTree(tree *aggregates.FamilyTree, selected valueobjects.PersonID) *Snapshot {
	snap := &Snapshot{
		Nodes: make([]Node, 0, tree.PersonCount()),
		Edges: make([]Edge, 0, tree.RelationshipCount()),
	}
	for _, person := range tree.Persons() {
		snap.Nodes = append(snap.Nodes, Node{
			ID: person.ID().String(),
			Position: Position{
				X: person.Position().X(),
				Y: person.Position().Y(),
			},
			Name:      person.Name(),
			Gender:    string(person.Gender()),
			BirthDate: person.BirthDate(),
			DeathDate: person.DeathDate(),
			Bio:       person.Bio(),
			PhotoURL:  person.PhotoURL(),
		})
	}
	for _, rel := range tree.Relationships() {
		snap.Edges = append(snap.Edges, Edge{
			ID:           rel.ID(),
			Source:       rel.Source().String(),
			Target:       rel.Target().String(),
			IsSpouse:     rel.IsSpousal(),
			SourceHandle: rel.SourceHandle().String(),
			TargetHandle: rel.TargetHandle().String(),
			Label:        rel.Label(),
		})
	}
	if !selected.IsZero() {
		snap.SelectedNodeID = selected.String()
	}
	return snap
}

// ToTree reconstructs a tree from snapshot content, validating and
// coercing at the boundary before any domain value is built.
func ToTree(snap *Snapshot, cfg *config.DomainConfig) (*aggregates.FamilyTree, error) {
	persons := make([]*entities.Person, 0, len(snap.Nodes))
	for _, node := range snap.Nodes {
		id, err := valueobjects.NewPersonIDFromString(node.ID)
		if err != nil {
			return nil, err
		}
		position, err := valueobjects.NewPosition(node.Position.X, node.Position.Y)
		if err != nil {
			return nil, err
		}
		person, err := entities.ReconstructPerson(
			id,
			node.Name,
			entities.ParseGender(node.Gender),
			node.BirthDate,
			node.DeathDate,
			node.Bio,
			node.PhotoURL,
			position,
		)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}

	relationships := make([]*entities.Relationship, 0, len(snap.Edges))
	for _, edge := range snap.Edges {
		source, err := valueobjects.NewPersonIDFromString(edge.Source)
		if err != nil {
			return nil, err
		}
		target, err := valueobjects.NewPersonIDFromString(edge.Target)
		if err != nil {
			return nil, err
		}

		kind := entities.KindHierarchy
		sourceHandle := valueobjects.HandleBottom
		targetHandle := valueobjects.HandleTop
		if edge.IsSpouse {
			kind = entities.KindSpousal
			sourceHandle = valueobjects.HandleRight
			targetHandle = valueobjects.HandleLeft
		}
		if edge.SourceHandle != "" {
			if sourceHandle, err = valueobjects.ParseHandle(edge.SourceHandle); err != nil {
				return nil, err
			}
		}
		if edge.TargetHandle != "" {
			if targetHandle, err = valueobjects.ParseHandle(edge.TargetHandle); err != nil {
				return nil, err
			}
		}

		rel, err := entities.ReconstructRelationship(edge.ID, source, target, kind, sourceHandle, targetHandle, edge.Label)
		if err != nil {
			return nil, err
		}
		relationships = append(relationships, rel)
	}

	tree := aggregates.NewFamilyTree(cfg)
	if err := tree.Replace(persons, relationships); err != nil {
		return nil, err
	}
	return tree, nil
}

// Package ports defines the interfaces the application layer depends on,
// implemented by infrastructure adapters.
package ports

import (
	"context"

	"familytree-backend/application/store/snapshot"
)

// RemoteTree is a stored family tree row
type RemoteTree struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RemotePerson is a stored person row, keyed by tree id
type RemotePerson struct {
	ID           string `json:"id"`
	FamilyTreeID string `json:"family_tree_id"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	BirthDate    string `json:"birth_date,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// RemoteRelationship is a stored relationship row
type RemoteRelationship struct {
	ID               string `json:"id"`
	FamilyTreeID     string `json:"family_tree_id"`
	SourcePersonID   string `json:"source_person_id"`
	TargetPersonID   string `json:"target_person_id"`
	RelationshipType string `json:"relationship_type"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// RemotePosition is a stored node position, unique per (tree id, person id)
type RemotePosition struct {
	ID           string  `json:"id,omitempty"`
	FamilyTreeID string  `json:"family_tree_id"`
	PersonID     string  `json:"person_id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// TreeRepository is the remote persistence capability, keyed by tree id
type TreeRepository interface {
	CreateTree(ctx context.Context, name string) (*RemoteTree, error)
	GetTree(ctx context.Context, id string) (*RemoteTree, error)
	ListTrees(ctx context.Context) ([]RemoteTree, error)
	UpdateTree(ctx context.Context, id, name string) (*RemoteTree, error)
	DeleteTree(ctx context.Context, id string) error

	AddPerson(ctx context.Context, treeID, name, gender string) (*RemotePerson, error)
	GetPeople(ctx context.Context, treeID string) ([]RemotePerson, error)
	UpdatePerson(ctx context.Context, personID string, updates map[string]interface{}) (*RemotePerson, error)
	DeletePerson(ctx context.Context, personID string) error

	AddRelationship(ctx context.Context, treeID, sourceID, targetID, relType string) (*RemoteRelationship, error)
	GetRelationships(ctx context.Context, treeID string) ([]RemoteRelationship, error)
	DeleteRelationship(ctx context.Context, relationshipID string) error

	SavePosition(ctx context.Context, treeID, personID string, x, y float64) error
	GetPositions(ctx context.Context, treeID string) ([]RemotePosition, error)
	SaveAllPositions(ctx context.Context, treeID string, positions []RemotePosition) error
}

// SnapshotStore is the local whole-state persistence capability. Load
// returns (nil, nil) when no snapshot has been written yet.
type SnapshotStore interface {
	Save(snap *snapshot.Snapshot) error
	Load() (*snapshot.Snapshot, error)
}

// ExtractedNode is one person in an AI extraction result
type ExtractedNode struct {
	ID        string `json:"id" validate:"required"`
	Label     string `json:"label" validate:"required"`
	Gender    string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate string `json:"birthDate,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// ExtractedEdge is one parent->child relationship in an extraction result
type ExtractedEdge struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label,omitempty"`
}

// Extraction is the fixed output contract of the AI import capability
type Extraction struct {
	Nodes []ExtractedNode `json:"nodes" validate:"required,min=1,dive"`
	Edges []ExtractedEdge `json:"edges" validate:"dive"`
}

// TreeExtractor converts a free-text family description into graph structure
type TreeExtractor interface {
	Extract(ctx context.Context, description string) (*Extraction, error)
}

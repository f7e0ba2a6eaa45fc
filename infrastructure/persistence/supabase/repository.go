// Package supabase implements the remote tree persistence capability on
// Supabase/PostgREST. All state is keyed by a family tree id; positions
// are unique per (tree id, person id) and bulk-saved with an upsert.
package supabase

import (
	"context"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"familytree-backend/application/ports"
	pkgerrors "familytree-backend/pkg/errors"
)

const (
	tableTrees         = "family_trees"
	tablePeople        = "people"
	tableRelationships = "relationships"
	tablePositions     = "positions"

	positionConflictKey = "family_tree_id,person_id"
)

// TreeRepository is a Supabase-backed ports.TreeRepository
type TreeRepository struct {
	client *supabase.Client
	logger *zap.Logger
}

// NewTreeRepository creates a repository against the given Supabase project
func NewTreeRepository(url, key string, logger *zap.Logger) (*TreeRepository, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("connect", err)
	}
	return &TreeRepository{client: client, logger: logger}, nil
}

// CreateTree inserts a new family tree
func (r *TreeRepository) CreateTree(ctx context.Context, name string) (*ports.RemoteTree, error) {
	var rows []ports.RemoteTree
	_, err := r.client.From(tableTrees).
		Insert(map[string]interface{}{"name": name}, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create tree", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewDatabaseError("create tree", nil)
	}
	return &rows[0], nil
}

// GetTree fetches one family tree by id
func (r *TreeRepository) GetTree(ctx context.Context, id string) (*ports.RemoteTree, error) {
	var rows []ports.RemoteTree
	_, err := r.client.From(tableTrees).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get tree", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("family tree")
	}
	return &rows[0], nil
}

// ListTrees fetches all family trees, newest first
func (r *TreeRepository) ListTrees(ctx context.Context) ([]ports.RemoteTree, error) {
	var rows []ports.RemoteTree
	_, err := r.client.From(tableTrees).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list trees", err)
	}
	return rows, nil
}

// UpdateTree renames a family tree
func (r *TreeRepository) UpdateTree(ctx context.Context, id, name string) (*ports.RemoteTree, error) {
	var rows []ports.RemoteTree
	_, err := r.client.From(tableTrees).
		Update(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("update tree", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("family tree")
	}
	return &rows[0], nil
}

// DeleteTree removes a family tree
func (r *TreeRepository) DeleteTree(ctx context.Context, id string) error {
	_, _, err := r.client.From(tableTrees).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete tree", err)
	}
	return nil
}

// AddPerson inserts one person row for a tree
func (r *TreeRepository) AddPerson(ctx context.Context, treeID, name, gender string) (*ports.RemotePerson, error) {
	var rows []ports.RemotePerson
	_, err := r.client.From(tablePeople).
		Insert(map[string]interface{}{
			"family_tree_id": treeID,
			"name":           name,
			"gender":         gender,
		}, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("add person", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewDatabaseError("add person", nil)
	}
	return &rows[0], nil
}

// GetPeople fetches every person row for a tree
func (r *TreeRepository) GetPeople(ctx context.Context, treeID string) ([]ports.RemotePerson, error) {
	var rows []ports.RemotePerson
	_, err := r.client.From(tablePeople).
		Select("*", "", false).
		Eq("family_tree_id", treeID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get people", err)
	}
	return rows, nil
}

// UpdatePerson merges the given column updates into one person row
func (r *TreeRepository) UpdatePerson(ctx context.Context, personID string, updates map[string]interface{}) (*ports.RemotePerson, error) {
	payload := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		payload[k] = v
	}
	payload["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	var rows []ports.RemotePerson
	_, err := r.client.From(tablePeople).
		Update(payload, "representation", "").
		Eq("id", personID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("update person", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("person")
	}
	return &rows[0], nil
}

// DeletePerson removes one person row
func (r *TreeRepository) DeletePerson(ctx context.Context, personID string) error {
	_, _, err := r.client.From(tablePeople).
		Delete("", "").
		Eq("id", personID).
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete person", err)
	}
	return nil
}

// AddRelationship inserts one relationship row for a tree
func (r *TreeRepository) AddRelationship(ctx context.Context, treeID, sourceID, targetID, relType string) (*ports.RemoteRelationship, error) {
	var rows []ports.RemoteRelationship
	_, err := r.client.From(tableRelationships).
		Insert(map[string]interface{}{
			"family_tree_id":    treeID,
			"source_person_id":  sourceID,
			"target_person_id":  targetID,
			"relationship_type": relType,
		}, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("add relationship", err)
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewDatabaseError("add relationship", nil)
	}
	return &rows[0], nil
}

// GetRelationships fetches every relationship row for a tree
func (r *TreeRepository) GetRelationships(ctx context.Context, treeID string) ([]ports.RemoteRelationship, error) {
	var rows []ports.RemoteRelationship
	_, err := r.client.From(tableRelationships).
		Select("*", "", false).
		Eq("family_tree_id", treeID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get relationships", err)
	}
	return rows, nil
}

// DeleteRelationship removes one relationship row
func (r *TreeRepository) DeleteRelationship(ctx context.Context, relationshipID string) error {
	_, _, err := r.client.From(tableRelationships).
		Delete("", "").
		Eq("id", relationshipID).
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete relationship", err)
	}
	return nil
}

// SavePosition upserts one person's position for a tree
func (r *TreeRepository) SavePosition(ctx context.Context, treeID, personID string, x, y float64) error {
	_, _, err := r.client.From(tablePositions).
		Upsert(map[string]interface{}{
			"family_tree_id": treeID,
			"person_id":      personID,
			"x":              x,
			"y":              y,
		}, positionConflictKey, "", "").
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("save position", err)
	}
	return nil
}

// GetPositions fetches every stored position for a tree
func (r *TreeRepository) GetPositions(ctx context.Context, treeID string) ([]ports.RemotePosition, error) {
	var rows []ports.RemotePosition
	_, err := r.client.From(tablePositions).
		Select("*", "", false).
		Eq("family_tree_id", treeID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get positions", err)
	}
	return rows, nil
}

// SaveAllPositions bulk-upserts the positions of every node in a tree
func (r *TreeRepository) SaveAllPositions(ctx context.Context, treeID string, positions []ports.RemotePosition) error {
	if len(positions) == 0 {
		return nil
	}

	_, _, err := r.client.From(tablePositions).
		Upsert(positions, positionConflictKey, "", "").
		Execute()
	if err != nil {
		return pkgerrors.NewDatabaseError("save positions", err)
	}

	r.logger.Debug("Saved node positions",
		zap.String("treeID", treeID),
		zap.Int("count", len(positions)),
	)
	return nil
}

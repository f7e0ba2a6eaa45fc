// Package store holds the single source of truth for the family-graph
// editor state and coordinates the relationship builder, the layout engine
// and the external collaborators.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"familytree-backend/application/ports"
	"familytree-backend/application/store/snapshot"
	"familytree-backend/domain/config"
	"familytree-backend/domain/core/aggregates"
	"familytree-backend/domain/core/entities"
	"familytree-backend/domain/core/valueobjects"
	"familytree-backend/domain/services"
	"familytree-backend/domain/services/layout"
	pkgerrors "familytree-backend/pkg/errors"
)

// Observer receives the full editor state after every mutation
type Observer func(*snapshot.Snapshot)

// FamilyStore owns {tree, selection} for the lifetime of the editor
// session. Every mutation runs under one lock, is followed by a
// whole-snapshot write to the local store, and is published to observers.
// Remote operations never leave partial state behind: local state is
// replaced only after a remote call fully succeeds.
type FamilyStore struct {
	mu       sync.Mutex
	tree     *aggregates.FamilyTree
	selected valueobjects.PersonID

	cfg       *config.DomainConfig
	builder   *services.RelationshipBuilder
	layout    *layout.Engine
	snapshots ports.SnapshotStore
	remote    ports.TreeRepository
	extractor ports.TreeExtractor
	logger    *zap.Logger

	observers []Observer
}

// NewFamilyStore creates a store, restoring the last local snapshot when
// one exists.
func NewFamilyStore(
	cfg *config.DomainConfig,
	builder *services.RelationshipBuilder,
	layoutEngine *layout.Engine,
	snapshots ports.SnapshotStore,
	remote ports.TreeRepository,
	extractor ports.TreeExtractor,
	logger *zap.Logger,
) *FamilyStore {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	s := &FamilyStore{
		cfg:       cfg,
		builder:   builder,
		layout:    layoutEngine,
		snapshots: snapshots,
		remote:    remote,
		extractor: extractor,
		logger:    logger,
		tree:      aggregates.NewFamilyTree(cfg),
	}

	if snapshots != nil {
		if snap, err := snapshots.Load(); err != nil {
			logger.Warn("Failed to restore local snapshot", zap.Error(err))
		} else if snap != nil {
			if tree, err := snapshot.ToTree(snap, cfg); err != nil {
				logger.Warn("Discarding unreadable local snapshot", zap.Error(err))
			} else {
				s.tree = tree
				if snap.SelectedNodeID != "" {
					if id, err := valueobjects.NewPersonIDFromString(snap.SelectedNodeID); err == nil && tree.HasPerson(id) {
						s.selected = id
					}
				}
			}
		}
	}

	return s
}

// Subscribe registers an observer notified after every state change
func (s *FamilyStore) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Snapshot returns the current editor state
func (s *FamilyStore) Snapshot() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.FromTree(s.tree, s.selected)
}

// AddPerson creates a standalone person; the new person becomes the
// selection. Returns the new person's id.
func (s *FamilyStore) AddPerson() (string, error) {
	s.mu.Lock()
	person, err := s.builder.AddPerson(s.tree)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.selected = person.ID()
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return person.ID().String(), nil
}

// AddSpouse creates a spouse for the given person. Returns the new
// person's id, or empty when the target person does not exist (no-op).
func (s *FamilyStore) AddSpouse(personID string) (string, error) {
	id, err := valueobjects.NewPersonIDFromString(personID)
	if err != nil {
		return "", nil
	}

	s.mu.Lock()
	spouse, err := s.builder.AddSpouse(s.tree, id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if spouse == nil {
		s.mu.Unlock()
		return "", nil
	}
	s.selected = spouse.ID()
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return spouse.ID().String(), nil
}

// AddChild creates a child below the given parent, propagating a second
// hierarchy edge from the parent's first spouse when one exists. Returns
// the new person's id, or empty when the parent does not exist (no-op).
func (s *FamilyStore) AddChild(personID string) (string, error) {
	id, err := valueobjects.NewPersonIDFromString(personID)
	if err != nil {
		return "", nil
	}

	s.mu.Lock()
	child, err := s.builder.AddChild(s.tree, id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if child == nil {
		s.mu.Unlock()
		return "", nil
	}
	s.selected = child.ID()
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return child.ID().String(), nil
}

// UpdatePerson merges a partial attribute update into the person. Returns
// false when the person does not exist (no-op).
func (s *FamilyStore) UpdatePerson(personID string, update entities.PersonUpdate) (bool, error) {
	id, err := valueobjects.NewPersonIDFromString(personID)
	if err != nil {
		return false, nil
	}

	s.mu.Lock()
	person, err := s.tree.GetPerson(id)
	if err != nil {
		s.mu.Unlock()
		return false, nil
	}
	if err := person.ApplyUpdate(update); err != nil {
		s.mu.Unlock()
		return true, err
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return true, nil
}

// DeletePerson removes the person and every incident relationship. The
// selection is cleared when the deleted person was selected. Returns false
// when the person does not exist (no-op).
func (s *FamilyStore) DeletePerson(personID string) bool {
	id, err := valueobjects.NewPersonIDFromString(personID)
	if err != nil {
		return false
	}

	s.mu.Lock()
	if err := s.tree.RemovePerson(id); err != nil {
		s.mu.Unlock()
		return false
	}
	if s.selected.Equals(id) {
		s.selected = valueobjects.PersonID{}
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// SelectNode sets the selection, or clears it for an empty id
func (s *FamilyStore) SelectNode(personID string) {
	s.mu.Lock()
	if personID == "" {
		s.selected = valueobjects.PersonID{}
	} else if id, err := valueobjects.NewPersonIDFromString(personID); err == nil {
		s.selected = id
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
}

// Connect merges a view connection attempt as a freeform relationship.
// Returns the new edge id, or empty for unknown endpoints (no-op).
func (s *FamilyStore) Connect(conn Connection) (string, error) {
	source, err := valueobjects.NewPersonIDFromString(conn.Source)
	if err != nil {
		return "", nil
	}
	target, err := valueobjects.NewPersonIDFromString(conn.Target)
	if err != nil {
		return "", nil
	}
	sourceHandle, err := valueobjects.ParseHandle(conn.SourceHandle)
	if err != nil {
		return "", err
	}
	targetHandle, err := valueobjects.ParseHandle(conn.TargetHandle)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	rel, err := s.builder.Connect(s.tree, source, target, sourceHandle, targetHandle)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if rel == nil {
		s.mu.Unlock()
		return "", nil
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return rel.ID(), nil
}

// ApplyNodeChanges merges a batch of raw node edits from the view layer
// without additional validation. Unknown ids are skipped.
func (s *FamilyStore) ApplyNodeChanges(changes []NodeChange) error {
	s.mu.Lock()
	for _, change := range changes {
		id, err := valueobjects.NewPersonIDFromString(change.ID)
		if err != nil {
			continue
		}
		switch change.Kind {
		case ChangePosition:
			if change.Position == nil {
				continue
			}
			person, err := s.tree.GetPerson(id)
			if err != nil {
				continue
			}
			position, err := valueobjects.NewPosition(change.Position.X, change.Position.Y)
			if err != nil {
				s.mu.Unlock()
				return err
			}
			person.MoveTo(position)
		case ChangeSelect:
			if change.Selected != nil && *change.Selected {
				s.selected = id
			} else if s.selected.Equals(id) {
				s.selected = valueobjects.PersonID{}
			}
		case ChangeRemove:
			if err := s.tree.RemovePerson(id); err == nil && s.selected.Equals(id) {
				s.selected = valueobjects.PersonID{}
			}
		}
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// ApplyEdgeChanges merges a batch of raw edge edits from the view layer
func (s *FamilyStore) ApplyEdgeChanges(changes []EdgeChange) {
	s.mu.Lock()
	for _, change := range changes {
		if change.Kind == ChangeRemove {
			_ = s.tree.RemoveRelationship(change.ID)
		}
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
}

// SetGraph replaces the whole graph and runs a layout pass. Used by both
// the AI-import and remote-load paths. The current state is untouched when
// the replacement content is invalid.
func (s *FamilyStore) SetGraph(snap *snapshot.Snapshot) error {
	return s.replaceGraph(snap, true)
}

// replaceGraph swaps in the new content, optionally re-running the layout
// engine. The replacement tree is built aside first so failures leave the
// current state untouched.
func (s *FamilyStore) replaceGraph(snap *snapshot.Snapshot, runLayout bool) error {
	tree, err := snapshot.ToTree(snap, s.cfg)
	if err != nil {
		return err
	}
	if runLayout {
		if err := s.layout.Apply(tree); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.tree = tree
	if !s.selected.IsZero() && !tree.HasPerson(s.selected) {
		s.selected = valueobjects.PersonID{}
	}
	out := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(out)
	return nil
}

// AutoLayout re-runs the layout engine on the current graph without
// changing topology
func (s *FamilyStore) AutoLayout() error {
	s.mu.Lock()
	if err := s.layout.Apply(s.tree); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := snapshot.FromTree(s.tree, s.selected)
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// ImportDescription runs the AI extraction over a free-text description
// and replaces the graph with the result. Nothing is applied on failure.
func (s *FamilyStore) ImportDescription(ctx context.Context, description string) error {
	if s.extractor == nil {
		return pkgerrors.NewExternalError("ai-import", nil)
	}

	extraction, err := s.extractor.Extract(ctx, description)
	if err != nil {
		return err
	}

	snap := &snapshot.Snapshot{
		Nodes: make([]snapshot.Node, 0, len(extraction.Nodes)),
		Edges: make([]snapshot.Edge, 0, len(extraction.Edges)),
	}
	for _, node := range extraction.Nodes {
		snap.Nodes = append(snap.Nodes, snapshot.Node{
			ID:        node.ID,
			Name:      node.Label,
			Gender:    string(entities.ParseGender(node.Gender)),
			BirthDate: node.BirthDate,
			Bio:       node.Bio,
		})
	}
	for _, edge := range extraction.Edges {
		source, err := valueobjects.NewPersonIDFromString(edge.Source)
		if err != nil {
			return pkgerrors.NewValidationError("extracted edge has empty source")
		}
		target, err := valueobjects.NewPersonIDFromString(edge.Target)
		if err != nil {
			return pkgerrors.NewValidationError("extracted edge has empty target")
		}
		snap.Edges = append(snap.Edges, snapshot.Edge{
			ID:           entities.HierarchyEdgeID(source, target),
			Source:       edge.Source,
			Target:       edge.Target,
			SourceHandle: valueobjects.HandleBottom.String(),
			TargetHandle: valueobjects.HandleTop.String(),
			Label:        edge.Label,
		})
	}

	return s.SetGraph(snap)
}

// SaveToRemote pushes every current node position to the remote
// persistence capability as one bulk upsert
func (s *FamilyStore) SaveToRemote(ctx context.Context, treeID string) error {
	if s.remote == nil {
		return pkgerrors.NewExternalError("remote-persistence", nil)
	}

	s.mu.Lock()
	positions := make([]ports.RemotePosition, 0, s.tree.PersonCount())
	for _, person := range s.tree.Persons() {
		positions = append(positions, ports.RemotePosition{
			FamilyTreeID: treeID,
			PersonID:     person.ID().String(),
			X:            person.Position().X(),
			Y:            person.Position().Y(),
		})
	}
	s.mu.Unlock()

	return s.remote.SaveAllPositions(ctx, treeID, positions)
}

// LoadFromRemote pulls people, relationships and positions for a tree as
// three independent fetches, joins them by id, and fully replaces local
// state (with a layout pass when no stored positions exist). Local state
// is left at its last consistent value on any failure.
func (s *FamilyStore) LoadFromRemote(ctx context.Context, treeID string) error {
	if s.remote == nil {
		return pkgerrors.NewExternalError("remote-persistence", nil)
	}

	people, err := s.remote.GetPeople(ctx, treeID)
	if err != nil {
		return err
	}
	relationships, err := s.remote.GetRelationships(ctx, treeID)
	if err != nil {
		return err
	}
	positions, err := s.remote.GetPositions(ctx, treeID)
	if err != nil {
		return err
	}

	positionByPerson := make(map[string]ports.RemotePosition, len(positions))
	for _, pos := range positions {
		positionByPerson[pos.PersonID] = pos
	}

	snap := &snapshot.Snapshot{
		Nodes: make([]snapshot.Node, 0, len(people)),
		Edges: make([]snapshot.Edge, 0, len(relationships)),
	}
	for _, row := range people {
		node := snapshot.Node{
			ID:        row.ID,
			Name:      row.Name,
			Gender:    string(entities.ParseGender(row.Gender)),
			BirthDate: row.BirthDate,
		}
		if pos, ok := positionByPerson[row.ID]; ok {
			node.Position = snapshot.Position{X: pos.X, Y: pos.Y}
		}
		snap.Nodes = append(snap.Nodes, node)
	}
	for _, row := range relationships {
		edge := snapshot.Edge{
			ID:           row.ID,
			Source:       row.SourcePersonID,
			Target:       row.TargetPersonID,
			SourceHandle: valueobjects.HandleBottom.String(),
			TargetHandle: valueobjects.HandleTop.String(),
		}
		if entities.RelationshipKind(row.RelationshipType) == entities.KindSpousal {
			edge.IsSpouse = true
			edge.SourceHandle = valueobjects.HandleRight.String()
			edge.TargetHandle = valueobjects.HandleLeft.String()
		}
		snap.Edges = append(snap.Edges, edge)
	}

	// Stored positions win; autolayout only fills the gap when none exist.
	return s.replaceGraph(snap, len(positions) == 0)
}

// publish persists the snapshot locally and notifies observers. Snapshot
// write failures are logged, never surfaced to the triggering operation.
func (s *FamilyStore) publish(snap *snapshot.Snapshot) {
	if s.snapshots != nil {
		if err := s.snapshots.Save(snap); err != nil {
			s.logger.Error("Failed to persist local snapshot", zap.Error(err))
		}
	}

	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(snap)
	}
}

package entities

import (
	"github.com/google/uuid"

	"familytree-backend/domain/core/valueobjects"
	pkgerrors "familytree-backend/pkg/errors"
)

// RelationshipKind determines layout treatment and default handle semantics
type RelationshipKind string

const (
	// KindHierarchy is a parent->child edge, anchored bottom->top
	KindHierarchy RelationshipKind = "HIERARCHY"
	// KindSpousal is a partner<->partner edge, anchored right->left.
	// Direction is arbitrary but fixed at creation: source is the
	// initiating person.
	KindSpousal RelationshipKind = "SPOUSAL"
)

// Relationship is a directed edge between two persons in the family graph
type Relationship struct {
	id           string
	source       valueobjects.PersonID
	target       valueobjects.PersonID
	kind         RelationshipKind
	sourceHandle valueobjects.Handle
	targetHandle valueobjects.Handle
	label        string
}

// HierarchyEdgeID derives the deterministic id used for hierarchy edges
func HierarchyEdgeID(source, target valueobjects.PersonID) string {
	return "e-" + source.String() + "-" + target.String()
}

// NewHierarchyRelationship creates a parent->child edge with the
// deterministic (source, target) id and bottom->top handles
func NewHierarchyRelationship(parent, child valueobjects.PersonID) (*Relationship, error) {
	if parent.IsZero() || child.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}
	return &Relationship{
		id:           HierarchyEdgeID(parent, child),
		source:       parent,
		target:       child,
		kind:         KindHierarchy,
		sourceHandle: valueobjects.HandleBottom,
		targetHandle: valueobjects.HandleTop,
	}, nil
}

// NewSpousalRelationship creates a partner edge with right->left handles
func NewSpousalRelationship(initiator, partner valueobjects.PersonID) (*Relationship, error) {
	if initiator.IsZero() || partner.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}
	return &Relationship{
		id:           "e-" + initiator.String() + "-" + partner.String(),
		source:       initiator,
		target:       partner,
		kind:         KindSpousal,
		sourceHandle: valueobjects.HandleRight,
		targetHandle: valueobjects.HandleLeft,
		label:        "Married",
	}, nil
}

// NewFreeformRelationship creates a user-drawn connection with the given
// handles and a random id. No genealogical validation is applied.
func NewFreeformRelationship(source, target valueobjects.PersonID, sourceHandle, targetHandle valueobjects.Handle) (*Relationship, error) {
	if source.IsZero() || target.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}
	return &Relationship{
		id:           uuid.New().String(),
		source:       source,
		target:       target,
		kind:         KindHierarchy,
		sourceHandle: sourceHandle,
		targetHandle: targetHandle,
	}, nil
}

// ReconstructRelationship recreates a relationship from stored or imported data
func ReconstructRelationship(
	id string,
	source, target valueobjects.PersonID,
	kind RelationshipKind,
	sourceHandle, targetHandle valueobjects.Handle,
	label string,
) (*Relationship, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("relationship ID cannot be empty")
	}
	if source.IsZero() || target.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}
	return &Relationship{
		id:           id,
		source:       source,
		target:       target,
		kind:         kind,
		sourceHandle: sourceHandle,
		targetHandle: targetHandle,
		label:        label,
	}, nil
}

// ID returns the relationship's unique identifier
func (r *Relationship) ID() string {
	return r.id
}

// Source returns the source person id. For hierarchy edges this is the parent.
func (r *Relationship) Source() valueobjects.PersonID {
	return r.source
}

// Target returns the target person id. For hierarchy edges this is the child.
func (r *Relationship) Target() valueobjects.PersonID {
	return r.target
}

// Kind returns the relationship kind
func (r *Relationship) Kind() RelationshipKind {
	return r.kind
}

// IsSpousal reports whether this is a spousal edge
func (r *Relationship) IsSpousal() bool {
	return r.kind == KindSpousal
}

// SourceHandle returns the anchor on the source node
func (r *Relationship) SourceHandle() valueobjects.Handle {
	return r.sourceHandle
}

// TargetHandle returns the anchor on the target node
func (r *Relationship) TargetHandle() valueobjects.Handle {
	return r.targetHandle
}

// Label returns the relationship's display label
func (r *Relationship) Label() string {
	return r.label
}

// Involves reports whether the given person is an endpoint of this edge
func (r *Relationship) Involves(id valueobjects.PersonID) bool {
	return r.source.Equals(id) || r.target.Equals(id)
}

// OtherEnd resolves the endpoint opposite to the given person id
func (r *Relationship) OtherEnd(id valueobjects.PersonID) valueobjects.PersonID {
	if r.source.Equals(id) {
		return r.target
	}
	return r.source
}

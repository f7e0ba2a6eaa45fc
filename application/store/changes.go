package store

import "familytree-backend/application/store/snapshot"

// ChangeKind identifies a structural edit reported by the view layer
type ChangeKind string

const (
	// ChangePosition moves a node to a dragged position
	ChangePosition ChangeKind = "position"
	// ChangeSelect marks a node selected or deselected
	ChangeSelect ChangeKind = "select"
	// ChangeRemove removes a node or edge
	ChangeRemove ChangeKind = "remove"
)

// NodeChange is one entry of a view node-change batch
type NodeChange struct {
	ID       string             `json:"id" validate:"required"`
	Kind     ChangeKind         `json:"kind" validate:"required,oneof=position select remove"`
	Position *snapshot.Position `json:"position,omitempty"`
	Selected *bool              `json:"selected,omitempty"`
}

// EdgeChange is one entry of a view edge-change batch
type EdgeChange struct {
	ID   string     `json:"id" validate:"required"`
	Kind ChangeKind `json:"kind" validate:"required,oneof=remove"`
}

// Connection is a connection attempt emitted by the view layer
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle" validate:"required,oneof=top bottom left right"`
	TargetHandle string `json:"targetHandle" validate:"required,oneof=top bottom left right"`
}

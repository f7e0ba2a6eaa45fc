package valueobjects

import pkgerrors "familytree-backend/pkg/errors"

// Handle is a named anchor point on a node where an edge visually attaches
type Handle string

const (
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
)

// ParseHandle validates a handle name
func ParseHandle(s string) (Handle, error) {
	switch Handle(s) {
	case HandleTop, HandleBottom, HandleLeft, HandleRight:
		return Handle(s), nil
	}
	return "", pkgerrors.NewValidationError("handle must be one of: top, bottom, left, right")
}

// String returns the handle name
func (h Handle) String() string {
	return string(h)
}

package entities

import (
	"time"

	"familytree-backend/domain/core/valueobjects"
	pkgerrors "familytree-backend/pkg/errors"
)

// Gender classifies a person. It is always one of the three enum values,
// never arbitrary text.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ParseGender coerces external input to a valid Gender, defaulting to OTHER
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s)
	}
	return GenderOther
}

// Opposite returns the heuristically opposite gender used when creating a
// spouse. This is a convenience default, not a guarantee: OTHER stays OTHER.
func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	}
	return GenderOther
}

// Person is the entity representing one individual in the family graph
type Person struct {
	id        valueobjects.PersonID
	name      string
	gender    Gender
	birthDate string
	deathDate string
	bio       string
	photoURL  string
	position  valueobjects.Position
	createdAt time.Time
	updatedAt time.Time
}

// PersonUpdate carries a partial attribute update. Nil fields are unchanged.
type PersonUpdate struct {
	Name      *string
	Gender    *Gender
	BirthDate *string
	DeathDate *string
	Bio       *string
	PhotoURL  *string
}

// NewPerson creates a new person with validation
func NewPerson(name string, gender Gender, position valueobjects.Position) (*Person, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("person name cannot be empty")
	}

	now := time.Now()
	return &Person{
		id:        valueobjects.NewPersonID(),
		name:      name,
		gender:    gender,
		position:  position,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPerson recreates a person from stored or imported data
func ReconstructPerson(
	id valueobjects.PersonID,
	name string,
	gender Gender,
	birthDate, deathDate, bio, photoURL string,
	position valueobjects.Position,
) (*Person, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("person ID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("person name cannot be empty")
	}

	now := time.Now()
	return &Person{
		id:        id,
		name:      name,
		gender:    gender,
		birthDate: birthDate,
		deathDate: deathDate,
		bio:       bio,
		photoURL:  photoURL,
		position:  position,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the person's unique identifier
func (p *Person) ID() valueobjects.PersonID {
	return p.id
}

// Name returns the person's name
func (p *Person) Name() string {
	return p.name
}

// Gender returns the person's gender
func (p *Person) Gender() Gender {
	return p.gender
}

// BirthDate returns the person's birth date, empty when unknown
func (p *Person) BirthDate() string {
	return p.birthDate
}

// DeathDate returns the person's death date, empty when unknown
func (p *Person) DeathDate() string {
	return p.deathDate
}

// Bio returns the person's biography text
func (p *Person) Bio() string {
	return p.bio
}

// PhotoURL returns the person's photo URL
func (p *Person) PhotoURL() string {
	return p.photoURL
}

// Position returns the person's canvas position
func (p *Person) Position() valueobjects.Position {
	return p.position
}

// CreatedAt returns when the person was created
func (p *Person) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the person was last updated
func (p *Person) UpdatedAt() time.Time {
	return p.updatedAt
}

// ApplyUpdate merges the given partial update into the person's attributes.
// Unset fields are left unchanged; applying the same update twice yields the
// same final attributes as applying it once.
func (p *Person) ApplyUpdate(update PersonUpdate) error {
	if update.Name != nil {
		if *update.Name == "" {
			return pkgerrors.NewValidationError("person name cannot be empty")
		}
		p.name = *update.Name
	}
	if update.Gender != nil {
		p.gender = *update.Gender
	}
	if update.BirthDate != nil {
		p.birthDate = *update.BirthDate
	}
	if update.DeathDate != nil {
		p.deathDate = *update.DeathDate
	}
	if update.Bio != nil {
		p.bio = *update.Bio
	}
	if update.PhotoURL != nil {
		p.photoURL = *update.PhotoURL
	}

	p.updatedAt = time.Now()
	return nil
}

// MoveTo moves the person to a new canvas position
func (p *Person) MoveTo(position valueobjects.Position) {
	if position.Equals(p.position) {
		return
	}
	p.position = position
	p.updatedAt = time.Now()
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the capability set every persisted row must expose. It is what
// the generic repository is parameterized over, instead of an inheritance
// hierarchy.
type Entity interface {
	EntityID() uuid.UUID
	Created() time.Time
	Touch(now time.Time)
	MarkDeleted(now time.Time)
	Deleted() bool
}

// BaseEntity carries the columns shared by every table: immutable id and
// created_at, nullable updated_at stamped on every mutating write, and the
// soft-delete flag.
type BaseEntity struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	IsDeleted bool       `json:"-"`
}

// NewBaseEntity assigns the id and creation timestamp. Both are fixed at
// construction time, before the row is ever staged.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
}

func (b *BaseEntity) EntityID() uuid.UUID { return b.ID }
func (b *BaseEntity) Created() time.Time  { return b.CreatedAt }
func (b *BaseEntity) Deleted() bool       { return b.IsDeleted }

func (b *BaseEntity) Touch(now time.Time) {
	t := now.UTC()
	b.UpdatedAt = &t
}

func (b *BaseEntity) MarkDeleted(now time.Time) {
	b.IsDeleted = true
	b.Touch(now)
}

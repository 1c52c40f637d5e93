package shared

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() primitive.ObjectID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all persisted entities.
// DeletedAt implements soft deletion: a non-nil value hides the record
// from normal queries without physically removing it.
type BaseEntity struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() primitive.ObjectID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// IsDeleted reports whether the entity has been soft deleted
func (e *BaseEntity) IsDeleted() bool {
	return e.DeletedAt != nil
}

// Touch updates the UpdatedAt timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with a generated ObjectID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

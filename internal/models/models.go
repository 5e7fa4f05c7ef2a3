package models

import (
	"context"
	"time"
)

// Model defines the base interface for persistent entities.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the data access operations shared by the entity repositories.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error
	Get(ctx context.Context, id string) (T, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, criteria map[string]any) ([]T, error)
}

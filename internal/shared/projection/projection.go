package projection

import "time"

// Metadata captures persistence timestamps shared by read projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMetadata falls back to createdAt when updatedAt was never set.
func NewMetadata(createdAt, updatedAt time.Time) Metadata {
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt}
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Versioned rows are written with a compare-and-swap on Version.
type Versioned struct {
	Version int64 `db:"version"`
}

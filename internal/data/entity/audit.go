package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records who moved a reservation into which state.
type AuditEntry struct {
	ID            int64             `db:"id"`
	ReservationID uuid.UUID         `db:"reservation_id"`
	Actor         string            `db:"actor"`
	Operation     string            `db:"operation"`
	Status        ReservationStatus `db:"status"`
	PaymentStatus PaymentStatus     `db:"payment_status"`
	CreatedAt     time.Time         `db:"created_at"`
}

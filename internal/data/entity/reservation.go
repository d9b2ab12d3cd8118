package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Reservation struct {
	Base
	Versioned
	PassengerID    uuid.UUID         `db:"passenger_id"`
	RunID          uuid.UUID         `db:"run_id"`
	SeatsBooked    int               `db:"seats_booked"`
	TravelDate     time.Time         `db:"travel_date"`
	DepartureAt    time.Time         `db:"departure_at"`
	ArrivalAt      time.Time         `db:"arrival_at"`
	Status         ReservationStatus `db:"status"`
	PaymentStatus  PaymentStatus     `db:"payment_status"`
	PaymentMethod  PaymentMethod     `db:"payment_method"`
	ExpiresAt      *time.Time        `db:"expires_at"`
	TicketID       *string           `db:"ticket_id"`
	TransactionID  *string           `db:"transaction_id"`
	DiscountPct    int               `db:"discount_pct"`
	TotalCost      decimal.Decimal   `db:"total_cost"`
	DiscountAmount decimal.Decimal   `db:"discount_amount"`
	FinalCost      decimal.Decimal   `db:"final_cost"`
	CancelledAt    *time.Time        `db:"cancelled_at"`
	EditedAt       *time.Time        `db:"edited_at"`
}

// IsExpiredAt reports whether the decision window had closed by now.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

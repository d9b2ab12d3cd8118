package response

import (
	"time"

	"transit-booking/internal/data/entity"
)

const dateLayout = "2006-01-02"

type PassengerResponse struct {
	ID          string             `json:"id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Phone       *string            `json:"phone,omitempty"`
	AccountType entity.AccountType `json:"account_type"`
}

// Money fields are fixed two-decimal strings so clients never see float rounding.
type FareResponse struct {
	DiscountPct    int    `json:"discount_pct"`
	TotalCost      string `json:"total_cost"`
	DiscountAmount string `json:"discount_amount"`
	FinalCost      string `json:"final_cost"`
}

// ReservationPreview is returned while the reservation is still editable.
type ReservationPreview struct {
	ID            string                   `json:"id"`
	RunID         string                   `json:"run_id"`
	Passenger     PassengerResponse        `json:"passenger"`
	SeatsBooked   int                      `json:"seats_booked"`
	TravelDate    string                   `json:"travel_date"`
	DepartureAt   time.Time                `json:"departure_at"`
	ArrivalAt     time.Time                `json:"arrival_at"`
	Status        entity.ReservationStatus `json:"status"`
	PaymentStatus entity.PaymentStatus     `json:"payment_status"`
	ExpiresAt     *time.Time               `json:"expires_at,omitempty"`
	Fare          FareResponse             `json:"fare"`
	CreatedAt     time.Time                `json:"created_at"`
	EditedAt      *time.Time               `json:"edited_at,omitempty"`
}

type ReservationSummary struct {
	ReservationPreview
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	TicketID      *string              `json:"ticket_id,omitempty"`
	TransactionID *string              `json:"transaction_id,omitempty"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	Version       int64                `json:"version"`
}

type ReservationFinal struct {
	ID            string                   `json:"id"`
	TicketID      string                   `json:"ticket_id"`
	TransactionID string                   `json:"transaction_id"`
	Status        entity.ReservationStatus `json:"status"`
	PaymentStatus entity.PaymentStatus     `json:"payment_status"`
	PaymentMethod entity.PaymentMethod     `json:"payment_method"`
	SeatsBooked   int                      `json:"seats_booked"`
	TravelDate    string                   `json:"travel_date"`
	DepartureAt   time.Time                `json:"departure_at"`
	ArrivalAt     time.Time                `json:"arrival_at"`
	Fare          FareResponse             `json:"fare"`
}

type RunAvailability struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	Fare           string `json:"fare"`
	Capacity       int    `json:"capacity"`
	AvailableSeats int    `json:"available_seats"`
}

// Helper converters
func PassengerToResponse(p *entity.Passenger) PassengerResponse {
	if p == nil {
		return PassengerResponse{}
	}
	return PassengerResponse{
		ID:          p.ID.String(),
		FullName:    p.FullName,
		Email:       p.Email,
		Phone:       p.Phone,
		AccountType: p.AccountType,
	}
}

func FareToResponse(r *entity.Reservation) FareResponse {
	return FareResponse{
		DiscountPct:    r.DiscountPct,
		TotalCost:      r.TotalCost.StringFixed(2),
		DiscountAmount: r.DiscountAmount.StringFixed(2),
		FinalCost:      r.FinalCost.StringFixed(2),
	}
}

func ReservationToPreview(r *entity.Reservation, p *entity.Passenger) *ReservationPreview {
	return &ReservationPreview{
		ID:            r.ID.String(),
		RunID:         r.RunID.String(),
		Passenger:     PassengerToResponse(p),
		SeatsBooked:   r.SeatsBooked,
		TravelDate:    r.TravelDate.Format(dateLayout),
		DepartureAt:   r.DepartureAt,
		ArrivalAt:     r.ArrivalAt,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		ExpiresAt:     r.ExpiresAt,
		Fare:          FareToResponse(r),
		CreatedAt:     r.CreatedAt,
		EditedAt:      r.EditedAt,
	}
}

func ReservationToSummary(r *entity.Reservation, p *entity.Passenger) *ReservationSummary {
	return &ReservationSummary{
		ReservationPreview: *ReservationToPreview(r, p),
		PaymentMethod:      r.PaymentMethod,
		TicketID:           r.TicketID,
		TransactionID:      r.TransactionID,
		CancelledAt:        r.CancelledAt,
		Version:            r.Version,
	}
}

func ReservationToFinal(r *entity.Reservation) *ReservationFinal {
	final := &ReservationFinal{
		ID:            r.ID.String(),
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		PaymentMethod: r.PaymentMethod,
		SeatsBooked:   r.SeatsBooked,
		TravelDate:    r.TravelDate.Format(dateLayout),
		DepartureAt:   r.DepartureAt,
		ArrivalAt:     r.ArrivalAt,
		Fare:          FareToResponse(r),
	}
	if r.TicketID != nil {
		final.TicketID = *r.TicketID
	}
	if r.TransactionID != nil {
		final.TransactionID = *r.TransactionID
	}
	return final
}

func RunToAvailability(v *entity.VehicleRun) *RunAvailability {
	return &RunAvailability{
		ID:             v.ID.String(),
		Code:           v.Code,
		Origin:         v.Origin,
		Destination:    v.Destination,
		DepartureTime:  clockTime(v.DepartureTime),
		ArrivalTime:    clockTime(v.ArrivalTime),
		Fare:           v.Fare.StringFixed(2),
		Capacity:       v.Capacity,
		AvailableSeats: v.AvailableSeats,
	}
}

func clockTime(d time.Duration) string {
	return time.Time{}.Add(d).Format("15:04")
}

package request

// PassengerInfo identifies the traveller. Email is the directory key: an
// unknown email creates a guest passenger.
type PassengerInfo struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
}

type CreateReservationRequest struct {
	RunID      string        `json:"run_id" validate:"required,uuid"`
	Seats      int           `json:"seats" validate:"gte=1"`
	Passenger  PassengerInfo `json:"passenger"`
	TravelDate string        `json:"travel_date" validate:"required,datetime=2006-01-02"`
}

type EditReservationRequest struct {
	Seats      int           `json:"seats" validate:"gte=1"`
	Passenger  PassengerInfo `json:"passenger"`
	TravelDate string        `json:"travel_date" validate:"required,datetime=2006-01-02"`
}

type ConfirmReservationRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=CARD UPI NET_BANKING WALLET CASH"`
}

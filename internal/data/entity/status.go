package entity

import "fmt"

type ReservationStatus string

const (
	StatusPending    ReservationStatus = "PENDING"
	StatusProcessing ReservationStatus = "PROCESSING"
	StatusConfirmed  ReservationStatus = "CONFIRMED"
	StatusCancelled  ReservationStatus = "CANCELLED"
	StatusExpired    ReservationStatus = "EXPIRED"
)

// HoldsSeats reports whether a reservation in this status counts against run inventory.
func (s ReservationStatus) HoldsSeats() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (s ReservationStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodNone       PaymentMethod = "NONE"
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodWallet     PaymentMethod = "WALLET"
	PaymentMethodCash       PaymentMethod = "CASH"
)

// ParsePaymentMethod accepts only methods a reservation can be confirmed with.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet, PaymentMethodCash:
		return m, nil
	}
	return "", fmt.Errorf("invalid payment method: %s", s)
}

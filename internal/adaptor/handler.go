package adaptor

import (
	"transit-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Reservation *ReservationHandler
	Run         *RunHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Reservation: NewReservationHandler(service.Booking, log),
		Run:         NewRunHandler(service.Run, log),
	}
}

package wire

import (
	"transit-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler) {
	r.Route("/api/reservations", func(r chi.Router) {
		// POST /api/reservations - hold seats, reservation starts PENDING
		r.Post("/", reservationHandler.Create)

		r.Get("/{id}", reservationHandler.Get)
		r.Put("/{id}", reservationHandler.Edit)

		// PENDING -> PROCESSING
		r.Post("/{id}/continue", reservationHandler.Continue)
		// PROCESSING -> CONFIRMED, issues ticket and transaction ids
		r.Post("/{id}/confirm", reservationHandler.Confirm)
		r.Post("/{id}/cancel", reservationHandler.Cancel)
	})
}

package wire

import (
	"transit-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRun(r chi.Router, runHandler *adaptor.RunHandler) {
	// GET /api/runs/{id} - fare and remaining seats
	r.Get("/api/runs/{id}", runHandler.GetAvailability)
}

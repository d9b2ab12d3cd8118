package adaptor

import (
	"net/http"

	"transit-booking/internal/usecase"
	"transit-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RunHandler struct {
	service usecase.RunService
	log     *zap.Logger
}

func NewRunHandler(service usecase.RunService, log *zap.Logger) *RunHandler {
	return &RunHandler{
		service: service,
		log:     log.With(zap.String("handler", "run")),
	}
}

// GetAvailability handles GET /api/runs/{id}
func (h *RunHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get run availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

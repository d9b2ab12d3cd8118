package wire

import (
	"net/http"

	"transit-booking/internal/adaptor"
	"transit-booking/internal/data/repository"
	"transit-booking/internal/usecase"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/middleware"
	"transit-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router and the background sweeper.
type App struct {
	Router  *chi.Mux
	Sweeper *usecase.ExpirySweeper
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, clk clock.Clock, scheduler usecase.Scheduler, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, clk, scheduler, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, logger),
		Sweeper: service.Sweeper,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Actor(logger))

	wireReservation(r, handler.Reservation)
	wireRun(r, handler.Run)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

package usecase

import (
	"transit-booking/internal/data/repository"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Run     RunService
	Sweeper *ExpirySweeper
}

func NewService(repo *repository.Repository, config *utils.Config, clk clock.Clock, scheduler Scheduler, log *zap.Logger) *Service {
	inventory := NewSeatInventory(repo.VehicleRun, log)
	fares := NewFareCalculator(config.Booking.MemberDiscountPct)
	ids := NewIdentifierGenerator(clk)

	return &Service{
		Booking: NewBookingService(repo, inventory, fares, ids, clk, config.Booking.HoldDuration(), log),
		Run:     NewRunService(repo.VehicleRun, log),
		Sweeper: NewExpirySweeper(repo, inventory, clk, scheduler, config.Booking.SweepInterval, log),
	}
}

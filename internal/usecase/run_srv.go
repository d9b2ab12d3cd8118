package usecase

import (
	"context"

	"transit-booking/internal/data/repository"
	"transit-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RunService interface {
	GetAvailability(ctx context.Context, runID string) (*response.RunAvailability, error)
}

type runService struct {
	runs repository.VehicleRunRepository
	log  *zap.Logger
}

func NewRunService(runs repository.VehicleRunRepository, log *zap.Logger) RunService {
	return &runService{
		runs: runs,
		log:  log.With(zap.String("service", "run")),
	}
}

func (s *runService) GetAvailability(ctx context.Context, runID string) (*response.RunAvailability, error) {
	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, validationError("invalid run ID %s", runID)
	}

	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get run availability", zap.Error(err), zap.String("run_id", runID))
		return nil, asServiceError(err)
	}
	if run == nil {
		return nil, notFoundError("vehicle run %s not found", runID)
	}

	return response.RunToAvailability(run), nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/data/repository"
	"transit-booking/internal/dto/request"
	"transit-booking/internal/dto/response"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/metrics"
	"transit-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"

	// maxIdentifierAttempts bounds regeneration when a candidate ticket or
	// transaction id is already taken.
	maxIdentifierAttempts = 5
)

type BookingService interface {
	CreateReservation(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationPreview, error)
	ContinueReservation(ctx context.Context, reservationID string) (*response.ReservationSummary, error)
	ConfirmReservation(ctx context.Context, reservationID string, req *request.ConfirmReservationRequest) (*response.ReservationFinal, error)
	CancelReservation(ctx context.Context, reservationID string) error
	EditReservation(ctx context.Context, reservationID string, req *request.EditReservationRequest) (*response.ReservationPreview, error)
	GetReservation(ctx context.Context, reservationID string) (*response.ReservationSummary, error)
}

type bookingService struct {
	*transitioner
	fares *FareCalculator
	ids   *IdentifierGenerator
	hold  time.Duration
}

func NewBookingService(
	repo *repository.Repository,
	inventory *SeatInventory,
	fares *FareCalculator,
	ids *IdentifierGenerator,
	clk clock.Clock,
	hold time.Duration,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		transitioner: &transitioner{
			repo:      repo,
			inventory: inventory,
			clock:     clk,
			log:       log.With(zap.String("service", "booking")),
		},
		fares: fares,
		ids:   ids,
		hold:  hold,
	}
}

func (s *bookingService) CreateReservation(ctx context.Context, req *request.CreateReservationRequest) (*response.ReservationPreview, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.reject(OpCreate, validationError("validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	runID, err := uuid.Parse(req.RunID)
	if err != nil {
		return nil, s.reject(OpCreate, validationError("invalid run ID %s", req.RunID))
	}

	travelDate, err := s.parseTravelDate(req.TravelDate)
	if err != nil {
		return nil, s.reject(OpCreate, err)
	}

	var (
		res       *entity.Reservation
		passenger *entity.Passenger
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		run, err := s.loadRun(ctx, runID)
		if err != nil {
			return err
		}

		passenger, err = s.findOrCreatePassenger(ctx, &req.Passenger)
		if err != nil {
			return err
		}

		if err := s.inventory.Reserve(ctx, run, req.Seats); err != nil {
			return err
		}

		now := s.clock.Now()
		expiresAt := now.Add(s.hold)
		departure, arrival := run.Schedule(travelDate)

		res = &entity.Reservation{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			PassengerID:   passenger.ID,
			RunID:         run.ID,
			SeatsBooked:   req.Seats,
			TravelDate:    travelDate,
			DepartureAt:   departure,
			ArrivalAt:     arrival,
			Status:        entity.StatusPending,
			PaymentStatus: entity.PaymentUnpaid,
			PaymentMethod: entity.PaymentMethodNone,
			ExpiresAt:     &expiresAt,
		}
		s.fares.Calculate(req.Seats, run.Fare, passenger).apply(res)

		if err := s.repo.Reservation.Create(ctx, res); err != nil {
			return err
		}
		return s.audit(ctx, res, OpCreate)
	})
	if err != nil {
		return nil, s.reject(OpCreate, err, zap.String("run_id", req.RunID), zap.Int("seats", req.Seats))
	}

	metrics.ReservationTransitions.WithLabelValues(OpCreate, res.Status.String()).Inc()
	s.log.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("run_id", res.RunID.String()),
		zap.Int("seats", res.SeatsBooked),
		zap.String("final_cost", res.FinalCost.StringFixed(2)),
	)

	return response.ReservationToPreview(res, passenger), nil
}

func (s *bookingService) ContinueReservation(ctx context.Context, reservationID string) (*response.ReservationSummary, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, s.reject(OpContinue, err)
	}

	var (
		res       *entity.Reservation
		passenger *entity.Passenger
		expired   bool
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		res, err = s.loadReservation(ctx, id)
		if err != nil {
			return err
		}

		if res.Status != entity.StatusPending || res.PaymentStatus != entity.PaymentUnpaid {
			return statusRejection(OpContinue, res)
		}

		// The expiry is committed, not rolled back, before reporting the timeout.
		if res.IsExpiredAt(s.clock.Now()) {
			expired = true
			return s.expire(ctx, res, entity.PaymentUnpaid, OpContinue)
		}

		res.Status = entity.StatusProcessing
		res.PaymentStatus = entity.PaymentPending
		if err := s.save(ctx, res, OpContinue); err != nil {
			return err
		}

		passenger, err = s.repo.Passenger.FindByID(ctx, res.PassengerID)
		return err
	})
	if err != nil {
		return nil, s.reject(OpContinue, err, zap.String("reservation_id", reservationID))
	}

	metrics.ReservationTransitions.WithLabelValues(OpContinue, res.Status.String()).Inc()
	if expired {
		return nil, s.reject(OpContinue, timedOutError("reservation %s expired at %s", id, res.ExpiresAt.Format(time.RFC3339)))
	}

	return response.ReservationToSummary(res, passenger), nil
}

func (s *bookingService) ConfirmReservation(ctx context.Context, reservationID string, req *request.ConfirmReservationRequest) (*response.ReservationFinal, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, s.reject(OpConfirm, err)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.reject(OpConfirm, validationError("validation failed: %s", utils.FormatValidationErrors(errs)))
	}
	method, err := entity.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, s.reject(OpConfirm, validationError("%s", err.Error()))
	}

	var (
		res     *entity.Reservation
		expired bool
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		res, err = s.loadReservation(ctx, id)
		if err != nil {
			return err
		}

		if res.Status != entity.StatusProcessing || res.PaymentStatus != entity.PaymentPending {
			return statusRejection(OpConfirm, res)
		}

		if res.IsExpiredAt(s.clock.Now()) {
			expired = true
			return s.expire(ctx, res, entity.PaymentFailed, OpConfirm)
		}

		ticketID, transactionID, err := s.issueIdentifiers(ctx, res.ID)
		if err != nil {
			return err
		}

		res.PaymentMethod = method
		res.PaymentStatus = entity.PaymentPaid
		res.Status = entity.StatusConfirmed
		res.TicketID = &ticketID
		res.TransactionID = &transactionID
		res.ExpiresAt = nil
		return s.save(ctx, res, OpConfirm)
	})
	if err != nil {
		return nil, s.reject(OpConfirm, err, zap.String("reservation_id", reservationID))
	}

	metrics.ReservationTransitions.WithLabelValues(OpConfirm, res.Status.String()).Inc()
	if expired {
		return nil, s.reject(OpConfirm, timedOutError("reservation %s expired at %s", id, res.ExpiresAt.Format(time.RFC3339)))
	}

	return response.ReservationToFinal(res), nil
}

func (s *bookingService) CancelReservation(ctx context.Context, reservationID string) error {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return s.reject(OpCancel, err)
	}

	var res *entity.Reservation
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		res, err = s.loadReservation(ctx, id)
		if err != nil {
			return err
		}

		switch res.Status {
		case entity.StatusPending, entity.StatusProcessing:
		default:
			return statusRejection(OpCancel, res)
		}

		run, err := s.loadRun(ctx, res.RunID)
		if err != nil {
			return err
		}
		if err := s.inventory.Release(ctx, run, res.SeatsBooked); err != nil {
			return err
		}

		now := s.clock.Now()
		res.Status = entity.StatusCancelled
		res.PaymentStatus = entity.PaymentUnpaid
		res.PaymentMethod = entity.PaymentMethodNone
		res.TicketID = nil
		res.TransactionID = nil
		res.CancelledAt = &now
		return s.save(ctx, res, OpCancel)
	})
	if err != nil {
		return s.reject(OpCancel, err, zap.String("reservation_id", reservationID))
	}

	metrics.ReservationTransitions.WithLabelValues(OpCancel, res.Status.String()).Inc()
	return nil
}

func (s *bookingService) EditReservation(ctx context.Context, reservationID string, req *request.EditReservationRequest) (*response.ReservationPreview, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, s.reject(OpEdit, err)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.reject(OpEdit, validationError("validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	travelDate, err := s.parseTravelDate(req.TravelDate)
	if err != nil {
		return nil, s.reject(OpEdit, err)
	}

	var (
		res       *entity.Reservation
		passenger *entity.Passenger
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		res, err = s.loadReservation(ctx, id)
		if err != nil {
			return err
		}

		if res.Status != entity.StatusPending || res.PaymentStatus != entity.PaymentUnpaid {
			return statusRejection(OpEdit, res)
		}
		now := s.clock.Now()
		if res.IsExpiredAt(now) {
			return forbiddenError("cannot edit reservation in status %s: hold lapsed at %s",
				res.Status, res.ExpiresAt.Format(time.RFC3339))
		}

		run, err := s.loadRun(ctx, res.RunID)
		if err != nil {
			return err
		}
		if err := s.inventory.Adjust(ctx, run, res.SeatsBooked, req.Seats); err != nil {
			return err
		}

		passenger, err = s.updatePassenger(ctx, res.PassengerID, &req.Passenger)
		if err != nil {
			return err
		}

		departure, arrival := run.Schedule(travelDate)
		res.SeatsBooked = req.Seats
		res.TravelDate = travelDate
		res.DepartureAt = departure
		res.ArrivalAt = arrival
		res.EditedAt = &now
		s.fares.Calculate(req.Seats, run.Fare, passenger).apply(res)

		return s.save(ctx, res, OpEdit)
	})
	if err != nil {
		return nil, s.reject(OpEdit, err, zap.String("reservation_id", reservationID))
	}

	metrics.ReservationTransitions.WithLabelValues(OpEdit, res.Status.String()).Inc()
	return response.ReservationToPreview(res, passenger), nil
}

func (s *bookingService) GetReservation(ctx context.Context, reservationID string) (*response.ReservationSummary, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, asServiceError(err)
	}

	res, err := s.loadReservation(ctx, id)
	if err != nil {
		return nil, asServiceError(err)
	}

	passenger, err := s.repo.Passenger.FindByID(ctx, res.PassengerID)
	if err != nil {
		return nil, asServiceError(err)
	}

	return response.ReservationToSummary(res, passenger), nil
}

// findOrCreatePassenger resolves the passenger by email. Unknown contacts are
// registered as guests; an existing record is used as stored.
func (s *bookingService) findOrCreatePassenger(ctx context.Context, info *request.PassengerInfo) (*entity.Passenger, error) {
	email := normalizeEmail(info.Email)

	passenger, err := s.repo.Passenger.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find passenger %s: %w", email, err)
	}
	if passenger != nil {
		return passenger, nil
	}

	now := s.clock.Now()
	passenger = &entity.Passenger{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:    strings.TrimSpace(info.FullName),
		Email:       email,
		Phone:       info.Phone,
		AccountType: entity.AccountGuest,
	}
	err = s.repo.Passenger.Create(ctx, passenger)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// another request registered this email after our lookup; a resubmission finds it
		return nil, retryableConflict(err, "passenger %s was registered concurrently, please retry", email)
	}
	if err != nil {
		return nil, err
	}
	return passenger, nil
}

// updatePassenger applies edited contact details to the reservation's
// passenger. Taking another passenger's email is a Conflict.
func (s *bookingService) updatePassenger(ctx context.Context, passengerID uuid.UUID, info *request.PassengerInfo) (*entity.Passenger, error) {
	passenger, err := s.repo.Passenger.FindByID(ctx, passengerID)
	if err != nil {
		return nil, fmt.Errorf("load passenger %s: %w", passengerID, err)
	}
	if passenger == nil {
		return nil, notFoundError("passenger %s not found", passengerID)
	}

	email := normalizeEmail(info.Email)
	if email != passenger.Email {
		other, err := s.repo.Passenger.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find passenger %s: %w", email, err)
		}
		if other != nil && other.ID != passenger.ID {
			return nil, newError(KindConflict, repository.ErrDuplicateEmail,
				"email %s is already registered to another passenger", email)
		}
	}

	passenger.FullName = strings.TrimSpace(info.FullName)
	passenger.Email = email
	passenger.Phone = info.Phone
	passenger.UpdatedAt = s.clock.Now()
	if err := s.repo.Passenger.Update(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

// issueIdentifiers draws ticket and transaction ids until neither is already
// stored. The UNIQUE constraints still catch a race with another confirm.
func (s *bookingService) issueIdentifiers(ctx context.Context, id uuid.UUID) (string, string, error) {
	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		ticketID := s.ids.TicketID(id)
		transactionID := s.ids.TransactionID(id)

		taken, err := s.repo.Reservation.IdentifierExists(ctx, ticketID, transactionID)
		if err != nil {
			return "", "", err
		}
		if !taken {
			return ticketID, transactionID, nil
		}

		s.log.Warn("Identifier collision, regenerating",
			zap.String("reservation_id", id.String()),
			zap.Int("attempt", attempt),
		)
	}
	return "", "", newError(KindInternal, repository.ErrDuplicateIdentifier,
		"could not issue unique identifiers after %d attempts", maxIdentifierAttempts)
}

func (s *bookingService) parseTravelDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationError("invalid travel date %s", value)
	}

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, validationError("travel date %s is in the past", value)
	}
	return date, nil
}

// reject records a failed operation and normalizes its error.
func (s *bookingService) reject(operation string, err error, fields ...zap.Field) error {
	kind := KindOf(err)
	metrics.ReservationRejections.WithLabelValues(operation, kind.String()).Inc()

	fields = append(fields, zap.Error(err), zap.String("operation", operation), zap.String("kind", kind.String()))
	if kind == KindInternal {
		s.log.Error("Reservation operation failed", fields...)
	} else {
		s.log.Warn("Reservation operation rejected", fields...)
	}
	return asServiceError(err)
}

func parseReservationID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, validationError("invalid reservation ID %s", value)
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package usecase

import (
	"context"
	"fmt"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/data/repository"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operation names recorded in the audit log and metrics.
const (
	OpCreate   = "create"
	OpContinue = "continue"
	OpConfirm  = "confirm"
	OpCancel   = "cancel"
	OpEdit     = "edit"
	OpSweep    = "sweep"
)

// transitioner persists reservation state changes. All of its methods must
// run inside repo.Tx so the reservation row, the run row and the audit entry
// commit together.
type transitioner struct {
	repo      *repository.Repository
	inventory *SeatInventory
	clock     clock.Clock
	log       *zap.Logger
}

func (t *transitioner) loadReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	res, err := t.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation %s: %w", id, err)
	}
	if res == nil {
		return nil, notFoundError("reservation %s not found", id)
	}
	return res, nil
}

func (t *transitioner) loadRun(ctx context.Context, id uuid.UUID) (*entity.VehicleRun, error) {
	run, err := t.repo.VehicleRun.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load vehicle run %s: %w", id, err)
	}
	if run == nil {
		return nil, notFoundError("vehicle run %s not found", id)
	}
	return run, nil
}

// save writes res with a version check and appends the audit entry.
func (t *transitioner) save(ctx context.Context, res *entity.Reservation, operation string) error {
	now := t.clock.Now()
	res.UpdatedAt = now

	if err := t.repo.Reservation.Update(ctx, res); err != nil {
		return err
	}
	return t.audit(ctx, res, operation)
}

func (t *transitioner) audit(ctx context.Context, res *entity.Reservation, operation string) error {
	entry := &entity.AuditEntry{
		ReservationID: res.ID,
		Actor:         utils.GetActorFromContext(ctx),
		Operation:     operation,
		Status:        res.Status,
		PaymentStatus: res.PaymentStatus,
		CreatedAt:     t.clock.Now(),
	}
	if err := t.repo.Audit.Record(ctx, entry); err != nil {
		return err
	}

	t.log.Info("Reservation transition",
		zap.String("reservation_id", res.ID.String()),
		zap.String("actor", entry.Actor),
		zap.String("operation", operation),
		zap.String("status", res.Status.String()),
		zap.String("payment_status", string(res.PaymentStatus)),
	)
	return nil
}

// expire closes a live reservation whose window has lapsed and returns its
// seats. payment is UNPAID for PENDING holds and FAILED for PROCESSING ones.
func (t *transitioner) expire(ctx context.Context, res *entity.Reservation, payment entity.PaymentStatus, operation string) error {
	run, err := t.loadRun(ctx, res.RunID)
	if err != nil {
		return err
	}
	if err := t.inventory.Release(ctx, run, res.SeatsBooked); err != nil {
		return err
	}

	res.Status = entity.StatusExpired
	res.PaymentStatus = payment
	return t.save(ctx, res, operation)
}

// expiryPayment is the payment status a live reservation ends with when its
// window lapses.
func expiryPayment(status entity.ReservationStatus) entity.PaymentStatus {
	if status == entity.StatusProcessing {
		return entity.PaymentFailed
	}
	return entity.PaymentUnpaid
}

// statusRejection builds the Forbidden error for op attempted on res.
func statusRejection(op string, res *entity.Reservation) *Error {
	var reason string
	switch res.Status {
	case entity.StatusPending:
		reason = "reservation has not been continued yet"
	case entity.StatusProcessing:
		reason = "reservation is already being processed"
	case entity.StatusConfirmed:
		reason = "reservation is already confirmed"
	case entity.StatusCancelled:
		reason = "reservation is already cancelled"
	case entity.StatusExpired:
		reason = "reservation has expired"
	default:
		reason = "reservation is in an unknown state"
	}
	return forbiddenError("cannot %s reservation in status %s (payment %s): %s",
		op, res.Status, res.PaymentStatus, reason)
}

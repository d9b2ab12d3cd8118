package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/data/repository"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/metrics"
	"transit-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweeperActor is the audit actor for expiries the sweeper performs.
const SweeperActor = "system:expiry-sweeper"

// Scheduler is the subset of *cron.Cron the sweeper drives.
type Scheduler interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Start()
	Stop() context.Context
}

// NewCronScheduler returns a cron scheduler that recovers panicking jobs and
// never overlaps two runs of the same job.
func NewCronScheduler(log *zap.Logger) *cron.Cron {
	logger := cronLogger{log: log.With(zap.String("component", "cron")).Sugar()}
	return cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

type SweepResult struct {
	Scanned int
	Expired int
	Skipped int
}

// ExpirySweeper force-expires live reservations whose deadline has passed.
type ExpirySweeper struct {
	*transitioner
	scheduler Scheduler
	interval  time.Duration

	mu      sync.Mutex
	running bool
}

func NewExpirySweeper(
	repo *repository.Repository,
	inventory *SeatInventory,
	clk clock.Clock,
	scheduler Scheduler,
	interval time.Duration,
	log *zap.Logger,
) *ExpirySweeper {
	return &ExpirySweeper{
		transitioner: &transitioner{
			repo:      repo,
			inventory: inventory,
			clock:     clk,
			log:       log.With(zap.String("service", "sweeper")),
		},
		scheduler: scheduler,
		interval:  interval,
	}
}

// Start schedules RunOnce every interval. ctx bounds each tick's work.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("expiry sweeper already started")
	}
	if s.interval <= 0 {
		return fmt.Errorf("invalid sweep interval %s", s.interval)
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.scheduler.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}
	s.scheduler.Start()
	s.running = true

	s.log.Info("Expiry sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the schedule and waits for an in-flight tick to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.scheduler.Stop().Done()
	s.running = false

	s.log.Info("Expiry sweeper stopped")
}

// RunOnce performs one sweep. Per-reservation failures are logged and
// skipped; they never stop the remaining items.
func (s *ExpirySweeper) RunOnce(ctx context.Context) SweepResult {
	timer := prometheus.NewTimer(metrics.SweepDuration)
	defer timer.ObserveDuration()

	ctx = utils.SetActorContext(ctx, SweeperActor)

	var result SweepResult
	live, err := s.repo.Reservation.FindLive(ctx)
	if err != nil {
		s.log.Error("Failed to list live reservations", zap.Error(err))
		return result
	}

	now := s.clock.Now()
	for _, res := range live {
		if ctx.Err() != nil {
			s.log.Warn("Expiry sweep interrupted", zap.Error(ctx.Err()))
			break
		}

		result.Scanned++
		if res.ExpiresAt == nil || !res.ExpiresAt.Before(now) {
			continue
		}

		if err := s.expireOne(ctx, res); err != nil {
			result.Skipped++
			reason := "error"
			if KindOf(err) == KindConflict {
				reason = "conflict"
			}
			metrics.SweepSkipped.WithLabelValues(reason).Inc()
			s.log.Warn("Skipped reservation during expiry sweep",
				zap.Error(err),
				zap.String("reservation_id", res.ID.String()),
				zap.String("reason", reason),
			)
			continue
		}

		result.Expired++
		metrics.SweepExpired.Inc()
		metrics.ReservationTransitions.WithLabelValues(OpSweep, entity.StatusExpired.String()).Inc()
	}

	if result.Expired > 0 || result.Skipped > 0 {
		s.log.Info("Expiry sweep finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("expired", result.Expired),
			zap.Int("skipped", result.Skipped),
		)
	}
	return result
}

// expireOne writes against the version read by the scan, so a reservation
// confirmed or cancelled in between fails with a conflict instead of being
// overwritten.
func (s *ExpirySweeper) expireOne(ctx context.Context, res *entity.Reservation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("expire reservation %s: panic: %v", res.ID, r)
		}
	}()

	payment := expiryPayment(res.Status)
	return s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		return s.expire(ctx, res, payment, OpSweep)
	})
}

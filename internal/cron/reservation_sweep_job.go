package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bistro-backend/internal/reservations"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const reservationSweepJobName = "reservation-sweep"

type reservationSweepRepository interface {
	FindBefore(ctx context.Context, status enums.ReservationStatus, date string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) error
}

// ReservationSweepJobParams configure the past reservation sweep.
type ReservationSweepJobParams struct {
	Logger *logger.Logger
	Repo   reservationSweepRepository
	Now    func() time.Time
}

// ReservationSweepJob closes out reservations whose date has passed:
// confirmed ones become completed and pending ones are cancelled.
type ReservationSweepJob struct {
	logg *logger.Logger
	repo reservationSweepRepository
	now  func() time.Time
}

func NewReservationSweepJob(params ReservationSweepJobParams) (*ReservationSweepJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ReservationSweepJob{logg: params.Logger, repo: params.Repo, now: now}, nil
}

func (j *ReservationSweepJob) Name() string { return reservationSweepJobName }

func (j *ReservationSweepJob) Run(ctx context.Context) error {
	today := j.now().Format(reservations.DateLayout)

	completed, errCompleted := j.transition(ctx, enums.ReservationStatusConfirmed, enums.ReservationStatusCompleted, today)
	cancelled, errCancelled := j.transition(ctx, enums.ReservationStatusPending, enums.ReservationStatusCancelled, today)

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"today":     today,
		"completed": completed,
		"cancelled": cancelled,
	}), "past reservations swept")
	return multierr.Combine(errCompleted, errCancelled)
}

func (j *ReservationSweepJob) transition(ctx context.Context, from, to enums.ReservationStatus, today string) (int, error) {
	rows, err := j.repo.FindBefore(ctx, from, today)
	if err != nil {
		return 0, fmt.Errorf("find %s reservations: %w", from, err)
	}
	var (
		errs  error
		moved int
	)
	for _, res := range rows {
		if err := j.repo.UpdateStatus(ctx, res.ID, to); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reservation %s: %w", res.ID, err))
			continue
		}
		moved++
	}
	return moved, errs
}

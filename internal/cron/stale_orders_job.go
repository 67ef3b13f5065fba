package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const staleOrdersJobName = "stale-orders"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleOrderRepository interface {
	FindStalePending(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// StaleOrdersJobParams configure the stale order sweep.
type StaleOrdersJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Repo   staleOrderRepository
	TTL    time.Duration
	Now    func() time.Time
}

// StaleOrdersJob cancels unpaid orders left pending past the TTL.
type StaleOrdersJob struct {
	logg *logger.Logger
	db   txRunner
	repo staleOrderRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewStaleOrdersJob(params StaleOrdersJobParams) (*StaleOrdersJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("pending order ttl must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &StaleOrdersJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repo,
		ttl:  params.TTL,
		now:  now,
	}, nil
}

func (j *StaleOrdersJob) Name() string { return staleOrdersJobName }

func (j *StaleOrdersJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.repo.FindStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("find stale orders: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	var (
		errs      error
		cancelled int
	)
	for _, order := range stale {
		done, err := j.cancel(ctx, order.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		if done {
			cancelled++
		}
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"found":     len(stale),
		"cancelled": cancelled,
		"cutoff":    cutoff.Format(time.RFC3339),
	}), "stale orders swept")
	return errs
}

var errNoLongerStale = errors.New("order no longer pending")

// cancel re-reads the order inside the transaction so a concurrent payment or
// status change wins over the sweep.
func (j *StaleOrdersJob) cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := orders.NewRepository(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != enums.OrderStatusPending || current.PaymentStatus != enums.PaymentStatusPending {
			return errNoLongerStale
		}
		return repo.Update(ctx, id, map[string]any{
			"status":         enums.OrderStatusCancelled,
			"payment_status": enums.PaymentStatusFailed,
		})
	})
	if errors.Is(err, errNoLongerStale) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	j.logg.Info(j.logg.WithOrderID(ctx, id.String()), "stale order cancelled")
	return true, nil
}

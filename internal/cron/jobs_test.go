package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/internal/reservations"
	"github.com/angelmondragon/bistro-backend/pkg/db/dbtest"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var sweepNow = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func seedOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, payment enums.PaymentStatus, createdAt time.Time) uuid.UUID {
	t.Helper()
	order := models.Order{
		CustomerName:  "Guest",
		CustomerEmail: "guest@example.com",
		CustomerPhone: "03001234567",
		OrderType:     enums.OrderTypeTakeaway,
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: payment,
		Status:        status,
		Subtotal:      decimal.NewFromInt(100),
		DeliveryFee:   decimal.Zero,
		Tax:           decimal.NewFromInt(5),
		Total:         decimal.NewFromInt(105),
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order.ID
}

func TestStaleOrdersJobCancelsOnlyStaleUnpaid(t *testing.T) {
	client := dbtest.Open(t)
	repo := orders.NewRepository(client.DB())
	ctx := context.Background()

	old := sweepNow.Add(-3 * time.Hour)
	stale := seedOrder(t, client.DB(), enums.OrderStatusPending, enums.PaymentStatusPending, old)
	paid := seedOrder(t, client.DB(), enums.OrderStatusPending, enums.PaymentStatusPaid, old)
	confirmed := seedOrder(t, client.DB(), enums.OrderStatusConfirmed, enums.PaymentStatusPending, old)
	fresh := seedOrder(t, client.DB(), enums.OrderStatusPending, enums.PaymentStatusPending, sweepNow.Add(-time.Hour))

	job, err := NewStaleOrdersJob(StaleOrdersJobParams{
		Logger: logger.Nop(),
		DB:     client,
		Repo:   repo,
		TTL:    2 * time.Hour,
		Now:    func() time.Time { return sweepNow },
	})
	require.NoError(t, err)
	assert.Equal(t, "stale-orders", job.Name())
	require.NoError(t, job.Run(ctx))

	got, err := repo.FindByID(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, got.Status)
	assert.Equal(t, enums.PaymentStatusFailed, got.PaymentStatus)

	for _, id := range []uuid.UUID{paid, confirmed, fresh} {
		other, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, enums.OrderStatusCancelled, other.Status)
	}

	require.NoError(t, job.Run(ctx))
}

type staleRepoStub struct {
	rows []models.Order
	err  error
}

func (s staleRepoStub) FindStalePending(context.Context, time.Time) ([]models.Order, error) {
	return s.rows, s.err
}

func TestStaleOrdersJobAggregatesErrors(t *testing.T) {
	client := dbtest.Open(t)
	missing := []models.Order{{ID: uuid.New()}, {ID: uuid.New()}}
	job, err := NewStaleOrdersJob(StaleOrdersJobParams{
		Logger: logger.Nop(),
		DB:     client,
		Repo:   staleRepoStub{rows: missing},
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing[0].ID.String())
	assert.Contains(t, err.Error(), missing[1].ID.String())

	job.repo = staleRepoStub{err: errors.New("db down")}
	assert.ErrorContains(t, job.Run(context.Background()), "db down")
}

func TestNewStaleOrdersJobValidates(t *testing.T) {
	client := dbtest.Open(t)
	repo := orders.NewRepository(client.DB())
	_, err := NewStaleOrdersJob(StaleOrdersJobParams{DB: client, Repo: repo, TTL: time.Hour})
	assert.Error(t, err)
	_, err = NewStaleOrdersJob(StaleOrdersJobParams{Logger: logger.Nop(), DB: client, Repo: repo})
	assert.Error(t, err)
}

func seedReservation(t *testing.T, db *gorm.DB, table int, date string, status enums.ReservationStatus) uuid.UUID {
	t.Helper()
	res := models.Reservation{
		TableNumber: table,
		GuestName:   "Guest",
		Email:       "guest@example.com",
		Phone:       "03001234567",
		Guests:      2,
		Date:        date,
		Time:        "19:00",
		Fee:         decimal.NewFromInt(500),
		Status:      status,
	}
	require.NoError(t, db.Create(&res).Error)
	return res.ID
}

func TestReservationSweepJob(t *testing.T) {
	client := dbtest.Open(t)
	repo := reservations.NewRepository(client.DB())
	ctx := context.Background()

	pastConfirmed := seedReservation(t, client.DB(), 1, "2026-05-09", enums.ReservationStatusConfirmed)
	pastPending := seedReservation(t, client.DB(), 2, "2026-05-01", enums.ReservationStatusPending)
	todayConfirmed := seedReservation(t, client.DB(), 4, "2026-05-10", enums.ReservationStatusConfirmed)
	futurePending := seedReservation(t, client.DB(), 5, "2026-06-01", enums.ReservationStatusPending)

	job, err := NewReservationSweepJob(ReservationSweepJobParams{
		Logger: logger.Nop(),
		Repo:   repo,
		Now:    func() time.Time { return sweepNow },
	})
	require.NoError(t, err)
	assert.Equal(t, "reservation-sweep", job.Name())
	require.NoError(t, job.Run(ctx))

	expect := map[uuid.UUID]enums.ReservationStatus{
		pastConfirmed:  enums.ReservationStatusCompleted,
		pastPending:    enums.ReservationStatusCancelled,
		todayConfirmed: enums.ReservationStatusConfirmed,
		futurePending:  enums.ReservationStatusPending,
	}
	for id, want := range expect {
		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, id.String())
	}
}

type failingSweepRepo struct{}

func (failingSweepRepo) FindBefore(_ context.Context, status enums.ReservationStatus, _ string) ([]models.Reservation, error) {
	return nil, errors.New("find " + status.String())
}

func (failingSweepRepo) UpdateStatus(context.Context, uuid.UUID, enums.ReservationStatus) error {
	return nil
}

func TestReservationSweepJobCombinesErrors(t *testing.T) {
	job, err := NewReservationSweepJob(ReservationSweepJobParams{Logger: logger.Nop(), Repo: failingSweepRepo{}})
	require.NoError(t, err)
	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmed")
	assert.Contains(t, err.Error(), "pending")
}

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bistro-backend/internal/menu"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/internal/reservations"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit       = 5
	maxReportDays     = 365
	defaultReportDays = 7
	defaultPopular    = 10
	maxPopular        = 100
)

type menuCounter interface {
	Counts(ctx context.Context) (menu.Counts, error)
}

// Service builds the back-office dashboard and reports.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Sales(ctx context.Context, days int) (*SalesReport, error)
	PopularItems(ctx context.Context, limit int) ([]PopularItem, error)
}

type service struct {
	repo         *Repository
	menu         menuCounter
	orders       orders.Service
	reservations reservations.Service
	now          func() time.Time
}

func NewService(repo *Repository, menuCounts menuCounter, ordersSvc orders.Service, reservationsSvc reservations.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if menuCounts == nil {
		return nil, fmt.Errorf("menu counter required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if reservationsSvc == nil {
		return nil, fmt.Errorf("reservations service required")
	}
	return &service{repo: repo, menu: menuCounts, orders: ordersSvc, reservations: reservationsSvc, now: time.Now}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dashboard gathers every panel concurrently; the first failure cancels the rest.
func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	dayStart := startOfDay(now)
	weekStart := dayStart.AddDate(0, 0, -6)
	today := now.Format(reservations.DateLayout)
	recent := pagination.Params{Page: 1, PageSize: recentLimit}

	var out DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Orders, err = s.repo.OrderStats(gctx, dayStart)
		return err
	})
	g.Go(func() (err error) {
		out.Revenue, err = s.repo.RevenueStats(gctx, dayStart, weekStart)
		return err
	})
	g.Go(func() (err error) {
		out.Reservations, err = s.repo.ReservationStats(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		out.Users, err = s.repo.UserStats(gctx, weekStart)
		return err
	})
	g.Go(func() (err error) {
		out.Menu, err = s.menu.Counts(gctx)
		return err
	})
	g.Go(func() error {
		res, err := s.orders.List(gctx, orders.ListFilters{Page: recent})
		if err != nil {
			return err
		}
		out.RecentOrders = res.Orders
		return nil
	})
	g.Go(func() error {
		res, err := s.reservations.List(gctx, reservations.ListFilters{Page: recent})
		if err != nil {
			return err
		}
		out.RecentReservations = res.Reservations
		return nil
	})
	if err := g.Wait(); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard")
	}
	return &out, nil
}

// Sales buckets the last days calendar days including today. Revenue counts
// paid orders; the order count includes every non-cancelled order.
func (s *service) Sales(ctx context.Context, days int) (*SalesReport, error) {
	if days <= 0 {
		days = defaultReportDays
	}
	days = min(days, maxReportDays)

	now := s.now()
	first := startOfDay(now).AddDate(0, 0, -(days - 1))
	points, err := s.repo.OrdersSince(ctx, first)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales")
	}

	report := &SalesReport{Days: days, Daily: make([]DailySales, days), TotalRevenue: decimal.Zero}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format(reservations.DateLayout)
		report.Daily[i] = DailySales{Date: date, Revenue: decimal.Zero}
		index[date] = i
	}
	for _, p := range points {
		i, ok := index[p.CreatedAt.In(now.Location()).Format(reservations.DateLayout)]
		if !ok {
			continue
		}
		report.Daily[i].Orders++
		report.TotalOrders++
		if p.PaymentStatus == enums.PaymentStatusPaid {
			report.Daily[i].Revenue = report.Daily[i].Revenue.Add(p.Total)
			report.TotalRevenue = report.TotalRevenue.Add(p.Total)
		}
	}
	return report, nil
}

func (s *service) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	if limit <= 0 {
		limit = defaultPopular
	}
	limit = min(limit, maxPopular)
	items, err := s.repo.PopularItems(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load popular items")
	}
	return items, nil
}

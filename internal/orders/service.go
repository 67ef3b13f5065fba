package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/bistro-backend/internal/cart"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/metrics"
	"github.com/angelmondragon/bistro-backend/pkg/money"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records orders and drives their status lifecycle.
type Service interface {
	// PlaceFromLedger prices and persists the ledger; it does not clear it.
	PlaceFromLedger(ctx context.Context, ledger *cart.Ledger, input PlaceInput) (*OrderDTO, error)
	PlaceDirect(ctx context.Context, lines []DirectLine, input PlaceInput) (*OrderDTO, error)
	Track(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)

	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	catalog  cart.CatalogLookup
	fees     cart.FeeSchedule
	metrics  *metrics.OrderMetrics
	validate *validator.Validate
}

// NewService wires the order service. A nil metrics sink disables counters.
func NewService(repo *Repository, tx txRunner, catalog cart.CatalogLookup, fees cart.FeeSchedule, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		catalog:  catalog,
		fees:     fees,
		metrics:  m,
		validate: validator.New(),
	}, nil
}

func (s *service) validatePlacement(input *PlaceInput) error {
	input.Customer.Name = strings.TrimSpace(input.Customer.Name)
	input.Customer.Email = strings.TrimSpace(strings.ToLower(input.Customer.Email))
	input.Customer.Phone = strings.TrimSpace(input.Customer.Phone)
	input.Customer.Address = strings.TrimSpace(input.Customer.Address)

	if !input.OrderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if err := s.validate.Struct(input.Customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer details")
	}
	if input.OrderType.ChargesDelivery() && input.Customer.Address == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	return nil
}

func (s *service) PlaceFromLedger(ctx context.Context, ledger *cart.Ledger, input PlaceInput) (*OrderDTO, error) {
	if ledger == nil || ledger.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := s.validatePlacement(&input); err != nil {
		return nil, err
	}

	order := buildOrder(ledger, input, s.fees.For(input.OrderType))
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order")
	}
	total, _ := order.Total.Float64()
	s.metrics.ObservePlaced(order.OrderType.String(), total)
	dto := toDTO(*order)
	return &dto, nil
}

func (s *service) PlaceDirect(ctx context.Context, lines []DirectLine, input PlaceInput) (*OrderDTO, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	ledger := cart.NewLedger()
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		item, err := s.catalog.GetCatalogItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.IsAvailable {
			return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is not available", item.Name)
		}
		if err := ledger.AddItem(item, line.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line")
		}
	}
	return s.PlaceFromLedger(ctx, ledger, input)
}

func buildOrder(ledger *cart.Ledger, input PlaceInput, fees cart.Fees) *models.Order {
	summary := ledger.Summarize(fees)
	lines := ledger.Lines()
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItem{
			MenuItemID: line.ItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			LineTotal:  money.Round(line.LineTotal(), money.Places),
			Position:   i,
		}
	}
	return &models.Order{
		UserID:              input.UserID,
		CustomerName:        input.Customer.Name,
		CustomerEmail:       input.Customer.Email,
		CustomerPhone:       input.Customer.Phone,
		DeliveryAddress:     input.Customer.Address,
		OrderType:           input.OrderType,
		PaymentMethod:       input.PaymentMethod,
		PaymentStatus:       enums.PaymentStatusPending,
		PaymentReference:    strings.TrimSpace(input.PaymentReference),
		Status:              enums.OrderStatusPending,
		SpecialInstructions: strings.TrimSpace(input.SpecialInstructions),
		Subtotal:            money.Round(summary.Subtotal, money.Places),
		DeliveryFee:         money.Round(summary.DeliveryFee, money.Places),
		Tax:                 money.Round(summary.Tax, money.Places),
		Total:               money.Round(summary.Total, money.Places),
		Items:               items,
	}
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) Track(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.Get(ctx, id)
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return out, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	filters.Page = filters.Page.Normalize()
	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, len(rows))
	for i, row := range rows {
		out[i] = toDTO(row)
	}
	return &ListResult{Orders: out, Meta: pagination.NewMeta(filters.Page, total)}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*order)
	return &dto, nil
}

// UpdateStatus applies an admin change. Delivering a pending-payment order
// marks it paid; cancelling a paid order marks it refunded unless the caller
// set the payment status explicitly.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*OrderDTO, error) {
	if update.Status == nil && update.PaymentStatus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status or payment_status is required")
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		payment := current.PaymentStatus
		if update.PaymentStatus != nil {
			payment = *update.PaymentStatus
		}
		if update.Status != nil {
			updates["status"] = *update.Status
			if update.PaymentStatus == nil {
				switch {
				case *update.Status == enums.OrderStatusDelivered && payment == enums.PaymentStatusPending:
					payment = enums.PaymentStatusPaid
				case *update.Status == enums.OrderStatusCancelled && payment == enums.PaymentStatusPaid:
					payment = enums.PaymentStatusRefunded
				}
			}
		}
		if payment != current.PaymentStatus {
			updates["payment_status"] = payment
		}
		if len(updates) == 0 {
			return nil
		}
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	if update.Status != nil {
		s.metrics.IncStatusChange(update.Status.String())
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/bistro-backend/internal/cart"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	pkgcheckout "github.com/angelmondragon/bistro-backend/pkg/checkout"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/angelmondragon/bistro-backend/pkg/money"
	"github.com/google/uuid"
)

// Service turns a session cart into a placed order.
type Service interface {
	Execute(ctx context.Context, sessionID string, input Input) (*Result, error)
}

// Input is the customer side of a checkout.
type Input struct {
	UserID              *uuid.UUID
	Customer            orders.Customer
	OrderType           enums.OrderType
	PaymentMethod       enums.PaymentMethod
	PaymentReference    string
	SpecialInstructions string
}

// Result reports the placed order and whether the client must continue to a
// hosted payment page.
type Result struct {
	Order                   orders.OrderDTO `json:"order"`
	PaymentRedirectRequired bool            `json:"payment_redirect_required"`
}

type service struct {
	carts       cart.Service
	orders      orders.Service
	catalog     cart.CatalogLookup
	logg        *logger.Logger
	maxQuantity int
}

// NewService builds the checkout service.
func NewService(carts cart.Service, ordersSvc orders.Service, catalog cart.CatalogLookup, logg *logger.Logger, maxQuantity int) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carts: carts, orders: ordersSvc, catalog: catalog, logg: logg, maxQuantity: maxQuantity}, nil
}

func (s *service) Execute(ctx context.Context, sessionID string, input Input) (*Result, error) {
	var placed *orders.OrderDTO
	err := s.carts.Consume(ctx, sessionID, func(ledger *cart.Ledger) error {
		if ledger.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		if err := s.checkLines(ctx, ledger); err != nil {
			return err
		}
		order, err := s.orders.PlaceFromLedger(ctx, ledger, orders.PlaceInput{
			UserID:              input.UserID,
			Customer:            input.Customer,
			OrderType:           input.OrderType,
			PaymentMethod:       input.PaymentMethod,
			PaymentReference:    input.PaymentReference,
			SpecialInstructions: input.SpecialInstructions,
		})
		if err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		if !errors.Is(err, cart.ErrNotCleared) || placed == nil {
			return nil, err
		}
		logCtx := s.logg.WithOrderID(s.logg.WithCartSession(ctx, sessionID), placed.ID.String())
		s.logg.Warn(logCtx, "order placed but cart could not be cleared")
	}

	logCtx := s.logg.WithOrderID(ctx, placed.ID.String())
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"order_type": placed.OrderType.String(),
		"total":      money.Format(placed.Total, money.Places),
	}), "order placed from cart")

	return &Result{
		Order:                   *placed,
		PaymentRedirectRequired: placed.PaymentMethod.RequiresRedirect(),
	}, nil
}

// checkLines re-reads every line from the catalog so items pulled from the
// menu after they were added cannot be ordered.
func (s *service) checkLines(ctx context.Context, ledger *cart.Ledger) error {
	lines := ledger.Lines()
	checks := make([]pkgcheckout.LineCheck, len(lines))
	for i, line := range lines {
		check := pkgcheckout.LineCheck{ItemID: line.ItemID, Name: line.Name, Quantity: line.Quantity}
		item, err := s.catalog.GetCatalogItem(ctx, line.ItemID)
		switch {
		case err == nil:
			check.Found = true
			check.Available = item.IsAvailable
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		default:
			return err
		}
		checks[i] = check
	}
	return pkgcheckout.ValidateLines(checks, s.maxQuantity)
}

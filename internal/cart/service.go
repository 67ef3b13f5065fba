package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/google/uuid"
)

// CatalogLookup resolves a menu entry for pricing at add time.
type CatalogLookup interface {
	GetCatalogItem(ctx context.Context, id uuid.UUID) (types.CatalogItem, error)
}

// Service manages session-scoped carts. Mutations on one session are
// serialized; different sessions proceed in parallel.
type Service interface {
	Get(ctx context.Context, sessionID string, orderType enums.OrderType) (*View, error)
	// Mutations return the cart priced for orderType, the same way Get does.
	AddItem(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) error
	// Consume hands the stored ledger to fn under the session lock and clears
	// the cart only when fn succeeds.
	Consume(ctx context.Context, sessionID string, fn func(*Ledger) error) error
}

// ErrNotCleared means Consume's callback succeeded but the cart could not be
// emptied afterwards.
var ErrNotCleared = errors.New("cart not cleared")

// View is the priced cart returned to callers.
type View struct {
	SessionID string          `json:"session_id"`
	OrderType enums.OrderType `json:"order_type"`
	Summary
}

type service struct {
	store       Store
	catalog     CatalogLookup
	fees        FeeSchedule
	maxQuantity int
	locks       *keyedLocker
}

// NewService builds a cart service. maxQuantity <= 0 disables the per-line cap.
func NewService(store Store, catalog CatalogLookup, fees FeeSchedule, maxQuantity int) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	return &service{
		store:       store,
		catalog:     catalog,
		fees:        fees,
		maxQuantity: maxQuantity,
		locks:       newKeyedLocker(),
	}, nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}

func (s *service) view(sessionID string, orderType enums.OrderType, ledger *Ledger) *View {
	if !orderType.IsValid() {
		orderType = enums.OrderTypeDelivery
	}
	return &View{SessionID: sessionID, OrderType: orderType, Summary: ledger.Summarize(s.fees.For(orderType))}
}

func (s *service) load(ctx context.Context, sessionID string) (*Ledger, error) {
	ledger, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return ledger, nil
}

func (s *service) save(ctx context.Context, sessionID string, ledger *Ledger) error {
	if err := s.store.Save(ctx, sessionID, ledger); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) Get(ctx context.Context, sessionID string, orderType enums.OrderType) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, orderType, ledger), nil
}

func (s *service) mutate(ctx context.Context, sessionID string, orderType enums.OrderType, fn func(*Ledger) error) (*View, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(ledger); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, ledger); err != nil {
		return nil, err
	}
	return s.view(sessionID, orderType, ledger), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*View, error) {
	if qty < 1 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, ErrInvalidQuantity.Error())
	}
	item, err := s.catalog.GetCatalogItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "menu item is not available").
			WithDetails(map[string]any{"item_id": itemID})
	}
	return s.mutate(ctx, sessionID, orderType, func(l *Ledger) error {
		if s.maxQuantity > 0 {
			existing, _ := l.Line(itemID)
			if existing.Quantity+qty > s.maxQuantity {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity cannot exceed %d", s.maxQuantity)
			}
		}
		if err := l.AddItem(item, qty); err != nil {
			if errors.Is(err, ErrInvalidQuantity) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
			}
			return err
		}
		return nil
	})
}

// UpdateQuantity follows the ledger rule: values below one leave the line as is.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID, qty int) (*View, error) {
	return s.mutate(ctx, sessionID, orderType, func(l *Ledger) error {
		if s.maxQuantity > 0 && qty > s.maxQuantity {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity cannot exceed %d", s.maxQuantity)
		}
		l.UpdateQuantity(itemID, qty)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, orderType enums.OrderType, itemID uuid.UUID) (*View, error) {
	return s.mutate(ctx, sessionID, orderType, func(l *Ledger) error {
		l.RemoveItem(itemID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Consume(ctx context.Context, sessionID string, fn func(*Ledger) error) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	ledger, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrNotCleared, err)
	}
	return nil
}

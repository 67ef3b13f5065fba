package controllers

import (
	"net/http"

	"github.com/angelmondragon/bistro-backend/api/responses"
	"github.com/angelmondragon/bistro-backend/api/validators"
	"github.com/angelmondragon/bistro-backend/internal/checkout"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
)

// orderRequest is the customer block shared by checkout and direct orders.
type orderRequest struct {
	Customer            orders.Customer `json:"customer"`
	OrderType           string          `json:"order_type" validate:"required"`
	PaymentMethod       string          `json:"payment_method" validate:"required"`
	PaymentReference    string          `json:"payment_reference" validate:"max=120"`
	SpecialInstructions string          `json:"special_instructions" validate:"max=500"`
}

func (o orderRequest) parseEnums() (enums.OrderType, enums.PaymentMethod, error) {
	orderType, err := enums.ParseOrderType(o.OrderType)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order_type")
	}
	method, err := enums.ParsePaymentMethod(o.PaymentMethod)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
	}
	return orderType, method, nil
}

func (o orderRequest) placeInput(r *http.Request) (orders.PlaceInput, error) {
	orderType, method, err := o.parseEnums()
	if err != nil {
		return orders.PlaceInput{}, err
	}
	return orders.PlaceInput{
		UserID:              optionalUserID(r),
		Customer:            o.Customer,
		OrderType:           orderType,
		PaymentMethod:       method,
		PaymentReference:    validators.SanitizeString(o.PaymentReference, 120),
		SpecialInstructions: validators.SanitizeString(o.SpecialInstructions, 500),
	}, nil
}

// Checkout places an order from the session cart and clears it.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("checkout service"))
			return
		}
		sessionID, err := cartSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.placeInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), sessionID, checkout.Input{
			UserID:              input.UserID,
			Customer:            input.Customer,
			OrderType:           input.OrderType,
			PaymentMethod:       input.PaymentMethod,
			PaymentReference:    input.PaymentReference,
			SpecialInstructions: input.SpecialInstructions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithOrderID(r.Context(), result.Order.ID.String())
			logg.Info(ctx, "checkout.completed")
		}
		responses.WriteCreated(w, result)
	}
}

package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bistro-backend/api/responses"
	"github.com/angelmondragon/bistro-backend/api/validators"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
)

type orderStatusRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

func (o orderStatusRequest) toUpdate() (orders.StatusUpdate, error) {
	var update orders.StatusUpdate
	if o.Status != nil {
		status, err := enums.ParseOrderStatus(*o.Status)
		if err != nil {
			return update, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		update.Status = &status
	}
	if o.PaymentStatus != nil {
		payment, err := enums.ParsePaymentStatus(*o.PaymentStatus)
		if err != nil {
			return update, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		update.PaymentStatus = &payment
	}
	return update, nil
}

func parseOrderFilters(r *http.Request) (orders.ListFilters, error) {
	q := r.URL.Query()
	var filters orders.ListFilters
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filters.Status = status
	}
	if raw := strings.TrimSpace(q.Get("payment_status")); raw != "" {
		payment, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		filters.PaymentStatus = payment
	}
	if raw := strings.TrimSpace(q.Get("order_type")); raw != "" {
		orderType, err := enums.ParseOrderType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order_type")
		}
		filters.OrderType = orderType
	}
	from, err := validators.ParseQueryDate(r, "date_from")
	if err != nil {
		return filters, err
	}
	to, err := validators.ParseQueryDate(r, "date_to")
	if err != nil {
		return filters, err
	}
	if to != nil {
		// date_to is inclusive of the whole day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	filters.From, filters.To = from, to
	filters.Query = validators.QueryString(q, "q", maxSearchLen)
	page, err := validators.ParsePage(r)
	if err != nil {
		return filters, err
	}
	filters.Page = page
	return filters, nil
}

func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("orders service"))
			return
		}
		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("orders service"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("orders service"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		update, err := payload.toUpdate()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateStatus(r.Context(), id, update)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(logg.WithOrderID(r.Context(), id.String()), map[string]any{
				"status":         order.Status,
				"payment_status": order.PaymentStatus,
			})
			logg.Info(ctx, "order.status_updated")
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminOrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("orders service"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

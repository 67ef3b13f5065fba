package controllers

import (
	"net/http"

	"github.com/angelmondragon/bistro-backend/api/responses"
	"github.com/angelmondragon/bistro-backend/api/validators"
	"github.com/angelmondragon/bistro-backend/internal/menu"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
)

const maxSearchLen = 100

// MenuBrowse serves the public menu page. Malformed filters are ignored
// rather than rejected.
func MenuBrowse(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("menu service"))
			return
		}
		q := r.URL.Query()
		params := menu.QueryParams{
			Search:   validators.QueryString(q, "q", maxSearchLen),
			Category: validators.QueryString(q, "category", maxSearchLen),
			MinPrice: validators.QueryDecimalOrNil(r, "min_price"),
			MaxPrice: validators.QueryDecimalOrNil(r, "max_price"),
			Sort:     menu.ParseSortKey(q.Get("sort")),
		}
		result, err := svc.Browse(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MenuItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("menu service"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

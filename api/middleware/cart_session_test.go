package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/angelmondragon/bistro-backend/pkg/metrics"
)

func TestCartSessionKeepsValidHeader(t *testing.T) {
	existing := uuid.NewString()
	var seen string
	h := CartSession(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, existing)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, existing, seen)
	assert.Equal(t, existing, rec.Header().Get(CartSessionHeader))
}

func TestCartSessionMintsWhenMissingOrMalformed(t *testing.T) {
	var seen string
	h := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))
	for _, header := range []string{"", "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(CartSessionHeader, header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.NotEqual(t, header, seen)
		assert.Equal(t, seen, rec.Header().Get(CartSessionHeader))
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Metrics(metrics.NewHTTPMetrics(reg)))
	r.Get("/api/v1/menu/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/menu/abc", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/api/v1/menu/{itemId}" && labels["status"] == "404" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a sample labelled with the route pattern")
}

package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"required,email"`
	Qty   int    `json:"qty" validate:"gte=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","email":"a@b.co","qty":2}`))
	var dst sample
	require.NoError(t, DecodeJSONBody(req, &dst))
	assert.Equal(t, 2, dst.Qty)
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"toolong","email":"nope","qty":0}`))
	var dst sample
	err := DecodeJSONBody(req, &dst)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at most 5", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 1", details["qty"])
}

func TestDecodeJSONBodyRejectsUnknownAndEmpty(t *testing.T) {
	var dst sample
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","email":"a@b.co","qty":1,"extra":true}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &dst), pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := DecodeJSONBody(req, &dst)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&page_size=5&flag=true&min=12.5&bad=x&day=2026-05-10", nil)

	page, err := ParsePage(req)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)

	flag, err := ParseQueryBool(req, "flag")
	require.NoError(t, err)
	require.NotNil(t, flag)
	assert.True(t, *flag)

	missing, err := ParseQueryBool(req, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ParseQueryBool(req, "bad")
	assert.Error(t, err)

	minPrice := QueryDecimalOrNil(req, "min")
	require.NotNil(t, minPrice)
	assert.Equal(t, "12.5", minPrice.String())
	assert.Nil(t, QueryDecimalOrNil(req, "bad"))

	huge := httptest.NewRequest(http.MethodGet, "/?max=1e20000000&neg=-1e-30&ok=1e9", nil)
	assert.Nil(t, QueryDecimalOrNil(huge, "max"))
	assert.Nil(t, QueryDecimalOrNil(huge, "neg"))
	assert.NotNil(t, QueryDecimalOrNil(huge, "ok"))

	day, err := ParseQueryDate(req, "day")
	require.NoError(t, err)
	assert.Equal(t, 10, day.Day())
	_, err = ParseQueryDate(req, "bad")
	assert.Error(t, err)

	_, err = ParseQueryInt(req, "page", 1, 1, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", id.String())
	rc.URLParams.Add("bad", "zzz")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "itemId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = ParseUUIDParam(req, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abc  ", 0))
	assert.Equal(t, "ab", SanitizeString("abc", 2))
	assert.Equal(t, "çé", SanitizeString("çéè", 2))
	assert.Equal(t, "x", QueryString(map[string][]string{"q": {" x "}}, "q", 10))
	assert.Equal(t, "", QueryString(nil, "q", 10))
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestSuccess(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, Success(c, http.StatusCreated, map[string]string{"id": "1"}, ""))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Success", resp.Message)
	assert.Nil(t, resp.Error)
}

func TestHandleAppError_AppError(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, HandleAppError(c, domainerrors.ErrOutOfStock))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_STOCK", resp.Error.Code)
}

func TestHandleAppError_WrappedAppError(t *testing.T) {
	c, rec := newTestContext(t)

	err := errors.Wrap(domainerrors.ErrRefundConflict, "resolve refund")
	require.NoError(t, HandleAppError(c, err))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REFUND_CONFLICT", resp.Error.Code)
}

func TestHandleAppError_RepositorySentinel(t *testing.T) {
	c, rec := newTestContext(t)

	err := errors.Wrap(repository.ErrOrderNotFound, "find order")
	require.NoError(t, HandleAppError(c, err))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ORDER_NOT_FOUND", resp.Error.Code)
}

func TestHandleAppError_UnknownError(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, HandleAppError(c, errors.New("boom")))

	resp := decodeResponse(t, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

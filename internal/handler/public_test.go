package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukavran/winelabel/internal/qr"
	"github.com/lukavran/winelabel/internal/repository"
)

func newPublicHandler(t *testing.T, qrBase string) (*PublicHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewPublicHandler(repository.NewProductRepo(db), qr.New(qrBase), "https://labels.example")
	return h, mock, func() { db.Close() }
}

func publicCtx(target, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func TestLabelPage_RendersProduct(t *testing.T) {
	h, mock, done := newPublicHandler(t, "")
	defer done()

	mock.ExpectQuery(`FROM products WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(productRow(7, 1, "Chardonnay 2021"))

	c, rec := publicCtx("/public/product/7", "7")
	require.NoError(t, h.LabelPage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chardonnay 2021")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelPage_InvalidAndMissingIDLookTheSame(t *testing.T) {
	h, mock, done := newPublicHandler(t, "")
	defer done()

	// Invalid id: rejected before the store is touched.
	c, recInvalid := publicCtx("/public/product/abc", "abc")
	require.NoError(t, h.LabelPage(c))
	assert.Equal(t, http.StatusNotFound, recInvalid.Code)

	// Missing row: same page, same status.
	mock.ExpectQuery(`FROM products WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(productCols))
	c, recMissing := publicCtx("/public/product/99", "99")
	require.NoError(t, h.LabelPage(c))
	assert.Equal(t, http.StatusNotFound, recMissing.Code)

	assert.Equal(t, recInvalid.Body.String(), recMissing.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicGetProduct_HidesOwnerAndTimestamps(t *testing.T) {
	h, mock, done := newPublicHandler(t, "")
	defer done()

	mock.ExpectQuery(`FROM products WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(productRow(7, 1, "Chardonnay 2021"))

	c, rec := publicCtx("/api/public/products/7", "7")
	require.NoError(t, h.GetProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Chardonnay 2021", got["name"])
	assert.NotContains(t, got, "ownerId")
	assert.NotContains(t, got, "createdAt")
	assert.NotContains(t, got, "updatedAt")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRImage_ProxiesRenderer(t *testing.T) {
	renderer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://labels.example/public/product/7", r.URL.Query().Get("data"))
		assert.Equal(t, "300x300", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer renderer.Close()

	h, mock, done := newPublicHandler(t, renderer.URL)
	defer done()

	mock.ExpectQuery(`FROM products WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(productRow(7, 1, "Chardonnay 2021"))

	c, rec := publicCtx("/public/product/7/qr.png?size=300", "7")
	require.NoError(t, h.QRImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRImage_UnknownProductIs404(t *testing.T) {
	h, mock, done := newPublicHandler(t, "")
	defer done()

	mock.ExpectQuery(`FROM products WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(productCols))

	c, rec := publicCtx("/public/product/99/qr.png", "99")
	require.NoError(t, h.QRImage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

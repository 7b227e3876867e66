package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukavran/winelabel/internal/auth"
	"github.com/lukavran/winelabel/internal/config"
	"github.com/lukavran/winelabel/internal/middleware"
	"github.com/lukavran/winelabel/internal/repository"
)

var userCols = []string{"id", "email", "username", "password_hash", "created_at", "updated_at"}

// testCfg keeps the bcrypt cost low so hashing doesn't dominate test time.
var testCfg = config.Config{
	JWTSecret:      "test-secret",
	AccessTTLMin:   15,
	RefreshTTLDays: 7,
	BcryptCost:     4,
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	resolver := auth.NewSessionResolver(testCfg.JWTSecret,
		time.Duration(testCfg.AccessTTLMin)*time.Minute, users, tokens)
	return NewAuthHandler(testCfg, users, tokens, resolver), mock, func() { db.Close() }
}

func authCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func userRow(t *testing.T, id uint64, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).AddRow(id, email, "vintner", hash, now, now)
}

func sessionCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestLogin_Success_SetsSessionCookies(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE email = \?`).
		WithArgs("lena@cellar.example").
		WillReturnRows(userRow(t, 3, "lena@cellar.example", "hunter22"))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(uint64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := authCtx(http.MethodPost, "/api/auth/login",
		`{"email":"Lena@Cellar.example","password":"hunter22"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(3), resp.User.ID)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NotEmpty(t, resp.Refresh.Token)

	cks := sessionCookies(rec)
	require.Contains(t, cks, auth.AccessCookie)
	require.Contains(t, cks, auth.RefreshCookie)
	assert.Equal(t, resp.Refresh.Token, cks[auth.RefreshCookie].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE email = \?`).
		WithArgs("lena@cellar.example").
		WillReturnRows(userRow(t, 3, "lena@cellar.example", "hunter22"))

	c, rec := authCtx(http.MethodPost, "/api/auth/login",
		`{"email":"lena@cellar.example","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE email = \?`).
		WithArgs("ghost@cellar.example").
		WillReturnRows(sqlmock.NewRows(userCols))

	c, rec := authCtx(http.MethodPost, "/api/auth/login",
		`{"email":"ghost@cellar.example","password":"whatever"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	c, rec := authCtx(http.MethodPost, "/api/auth/register",
		`{"email":"lena@cellar.example","username":"vintner","password":"hunter22"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_ValidatesBody(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	cases := []string{
		`{"email":"not-an-email","username":"vintner","password":"hunter22"}`,
		`{"email":"a@b.example","username":"ab","password":"hunter22"}`,
		`{"email":"a@b.example","username":"vintner","password":"short"}`,
	}
	for _, body := range cases {
		c, rec := authCtx(http.MethodPost, "/api/auth/register", body)
		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RotatesToken(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	raw := "raw-refresh-token"
	hash := auth.HashRefreshRaw(raw)
	future := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(3), future, nil))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = NOW\(\)`).
		WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(uint64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := authCtx(http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+raw+`"}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Refresh tokenPart `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, raw, resp.Refresh.Token, "presented token must not be reissued")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RevokedTokenRejected(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	raw := "stale-token"
	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).
		WithArgs(auth.HashRefreshRaw(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(uint64(3), time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	c, rec := authCtx(http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+raw+`"}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	c, rec := authCtx(http.MethodPost, "/api/auth/logout", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cks := sessionCookies(rec)
	require.Contains(t, cks, auth.AccessCookie)
	assert.Empty(t, cks[auth.AccessCookie].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(userRow(t, 3, "lena@cellar.example", "hunter22"))

	c, rec := authCtx(http.MethodPut, "/api/auth/password",
		`{"currentPassword":"wrong","newPassword":"hunter23"}`)
	c.Set(middleware.ContextUserID, uint64(3))
	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(userRow(t, 3, "lena@cellar.example", "hunter22"))
	mock.ExpectExec(`UPDATE users SET password_hash = \?`).
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = NOW\(\) WHERE user_id = \?`).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(uint64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))

	c, rec := authCtx(http.MethodPut, "/api/auth/password",
		`{"currentPassword":"hunter22","newPassword":"hunter23"}`)
	c.Set(middleware.ContextUserID, uint64(3))
	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

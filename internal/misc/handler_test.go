package misc

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/liftlog/backend/internal/auth"
	"github.com/liftlog/backend/pkg"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"),
	)
}

func newTestHandler(t *testing.T) (*Handler, redismock.ClientMock) {
	t.Helper()

	passwordHash, err := pkg.HashPassword("test-password")
	require.NoError(t, err)

	db, redisMock := redismock.NewClientMock()
	authService := auth.NewAuthService(&auth.Admin{
		Username:     "admin",
		PasswordHash: passwordHash,
	}, auth.DefaultTTL, db)
	authService.RandStringFunc = func(_ int) (string, error) {
		return "test-token", nil
	}

	return NewHandler("test-version", authService), redisMock
}

func TestHandler_Root(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.handleRoot(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestHandler_Version(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rr := httptest.NewRecorder()

	handler.handleGetVersionInfo(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
}

func TestHandler_Login(t *testing.T) {
	handler, redisMock := newTestHandler(t)

	redisMock.Regexp().
		ExpectSet("liftlog-service-session||test-token", `\d+`, 0).
		SetVal("OK")
	redisMock.ExpectSAdd("liftlog-service-sessions", "test-token").SetVal(1)

	req := httptest.NewRequest(
		http.MethodPost, "/a/login",
		strings.NewReader(`{"username":"admin","password":"test-password"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.handleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token": "test-token"}`, rr.Body.String())
}

func TestHandler_Login_Form(t *testing.T) {
	handler, redisMock := newTestHandler(t)

	redisMock.Regexp().
		ExpectSet("liftlog-service-session||test-token", `\d+`, 0).
		SetVal("OK")
	redisMock.ExpectSAdd("liftlog-service-sessions", "test-token").SetVal(1)

	req := httptest.NewRequest(
		http.MethodPost, "/a/login",
		strings.NewReader("username=admin&password=test-password"),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	handler.handleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_Login_WrongCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	testCases := map[string]string{
		"wrong password": `{"username":"admin","password":"nope"}`,
		"wrong username": `{"username":"not-admin","password":"test-password"}`,
	}

	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/a/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.handleLogin(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	handler, redisMock := newTestHandler(t)

	createdAt := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	redisMock.ExpectGet("liftlog-service-session||test-token").SetVal(createdAt)
	redisMock.ExpectSet("liftlog-service-session||test-token", 0, 0).SetVal("OK")
	redisMock.ExpectSRem("liftlog-service-sessions", "test-token").SetVal(1)

	req := httptest.NewRequest(http.MethodGet, "/a/logout", nil)
	req.Header.Set("X-LIFTLOG-TOKEN", "test-token")
	rr := httptest.NewRecorder()

	handler.handleLogout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())
}

func TestHandler_Logout_NoToken(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/a/logout", nil)
	rr := httptest.NewRecorder()

	handler.handleLogout(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-box-office/internal/cinema"
	"github.com/iliyamo/cinema-box-office/internal/config"
	"github.com/iliyamo/cinema-box-office/internal/handler"
	"github.com/iliyamo/cinema-box-office/internal/middleware"
	"github.com/iliyamo/cinema-box-office/internal/utils"
)

const secret = "router-secret"

func newServer(t *testing.T) (*echo.Echo, *cinema.Cinema) {
	t.Helper()
	c := cinema.New()
	e := echo.New()
	RegisterRoutes(e)
	RegisterBoxOffice(e, Deps{
		BoxOffice: handler.NewBoxOfficeHandler(c, nil, nil),
		JWTSecret: secret,
		Cache:     middleware.NewRedisCache(config.CacheConfig{}, nil),
		RateLimit: middleware.NewTokenBucket(config.RateLimitConfig{}, nil),
	})
	return e, c
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, sub, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func call(e *echo.Echo, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := newServer(t)
	rec := call(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestOpenRoom_RequiresOwner(t *testing.T) {
	e, _ := newServer(t)
	body := `{"movie":"Star Wars","capacity":10}`

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/v1/rooms", "", body).Code)
	assert.Equal(t, http.StatusForbidden, call(e, http.MethodPost, "/v1/rooms", token(t, "Jeremy_1", utils.RoleCustomer), body).Code)
	assert.Equal(t, http.StatusCreated, call(e, http.MethodPost, "/v1/rooms", token(t, "owner", utils.RoleOwner), body).Code)
}

func TestConcurrentBookingOverHTTP(t *testing.T) {
	e, c := newServer(t)
	c.RegisterRoom("Star Wars", 10)
	tok := token(t, "Jeremy", utils.RoleCustomer)

	var wg sync.WaitGroup
	var mu sync.Mutex
	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := call(e, http.MethodPost, "/v1/rooms/Star%20Wars/reservations", tok, "")
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, codes[http.StatusCreated])
	assert.Equal(t, 20, codes[http.StatusConflict])

	rec := call(e, http.MethodGet, "/v1/rooms", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":0`)
}

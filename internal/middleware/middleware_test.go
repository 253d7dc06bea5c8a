package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-box-office/internal/config"
    "github.com/iliyamo/cinema-box-office/internal/utils"
)

const secret = "test-secret"

func serve(t *testing.T, e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
    t.Helper()
    req := httptest.NewRequest(method, path, nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func protected() *echo.Echo {
    e := echo.New()
    g := e.Group("", JWTAuth(secret), RequireRole(utils.RoleOwner))
    g.GET("/whoami", func(c echo.Context) error { return c.String(http.StatusOK, Subject(c)) })
    return e
}

func TestJWTAuth_AcceptsValidToken(t *testing.T) {
    tok, err := utils.NewAccessToken(secret, "owner-1", utils.RoleOwner, 5)
    require.NoError(t, err)

    rec := serve(t, protected(), http.MethodGet, "/whoami", tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "owner-1", rec.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
    wrong, err := utils.NewAccessToken("other-secret", "owner-1", utils.RoleOwner, 5)
    require.NoError(t, err)
    expired, err := utils.NewAccessToken(secret, "owner-1", utils.RoleOwner, -5)
    require.NoError(t, err)

    assert.Equal(t, http.StatusUnauthorized, serve(t, protected(), http.MethodGet, "/whoami", "").Code)
    assert.Equal(t, http.StatusUnauthorized, serve(t, protected(), http.MethodGet, "/whoami", wrong.Token).Code)
    assert.Equal(t, http.StatusUnauthorized, serve(t, protected(), http.MethodGet, "/whoami", expired.Token).Code)
}

func TestRequireRole_ForbidsOtherRoles(t *testing.T) {
    tok, err := utils.NewAccessToken(secret, "Jeremy_1", utils.RoleCustomer, 5)
    require.NoError(t, err)

    rec := serve(t, protected(), http.MethodGet, "/whoami", tok.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenBucket_LocalFallbackBlocksAfterBurst(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "route",
        Prefix:         "rl",
    }
    e := echo.New()
    e.POST("/book", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, NewTokenBucket(cfg, nil))

    assert.Equal(t, http.StatusCreated, serve(t, e, http.MethodPost, "/book", "").Code)
    assert.Equal(t, http.StatusCreated, serve(t, e, http.MethodPost, "/book", "").Code)
    rec := serve(t, e, http.MethodPost, "/book", "")
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_DisabledPassesThrough(t *testing.T) {
    e := echo.New()
    e.POST("/book", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
        NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
    for i := 0; i < 5; i++ {
        assert.Equal(t, http.StatusCreated, serve(t, e, http.MethodPost, "/book", "").Code)
    }
    assert.Empty(t, serve(t, e, http.MethodPost, "/book", "").Header().Get("X-RateLimit-Limit"))
}

func TestLocalBucket_SweepsIdleKeys(t *testing.T) {
    b := newLocalBucket(config.RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute})
    now := time.Now()
    ok, _, _, err := b.take(context.Background(), "a", now)
    require.NoError(t, err)
    assert.True(t, ok)

    ok, _, retry, _ := b.take(context.Background(), "a", now)
    assert.False(t, ok)
    assert.Positive(t, retry)

    _, _, _, _ = b.take(context.Background(), "b", now.Add(2*time.Minute))
    assert.NotContains(t, b.entries, "a")
    assert.Contains(t, b.entries, "b")
}

func TestCachedResponse_Decode(t *testing.T) {
    cr := cachedResponse{status: http.StatusOK, header: http.Header{"Content-Type": {"application/json"}}, body: []byte(`[]`)}
    bs, err := cr.encode()
    require.NoError(t, err)

    got, err := decodeCachedResponse(bs)
    require.NoError(t, err)
    assert.Equal(t, cr, got)

    _, err = decodeCachedResponse(bs[:4])
    assert.ErrorIs(t, err, errShortPayload)
}

func TestCache_WithoutRedisIsNoop(t *testing.T) {
    e := echo.New()
    e.GET("/v1/rooms", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) },
        NewRedisCache(config.LoadCacheConfig(), nil))
    rec := serve(t, e, http.MethodGet, "/v1/rooms", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))

    var p *CachePurger
    assert.NoError(t, p.Purge(context.Background()))
    assert.Nil(t, NewCachePurger(config.LoadCacheConfig(), nil))
}

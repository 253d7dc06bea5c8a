package middleware

import (
    "context"
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/cinema-box-office/internal/config"
)

// bucket takes one token for key.  retryMs is only meaningful when the
// token was refused.
type bucket interface {
    take(ctx context.Context, key string, now time.Time) (allowed bool, remaining, retryMs int64, err error)
}

// NewTokenBucket limits requests per key (see RateLimitConfig.KeyStrategy).
// Buckets live in Redis when rdb is non-nil so every instance of the box
// office shares them; otherwise each process keeps its own buckets.  A
// Redis failure lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    var b bucket
    if rdb != nil {
        b = &redisBucket{cfg: cfg, rdb: rdb}
    } else {
        b = newLocalBucket(cfg)
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            allowed, remaining, retryMs, err := b.take(c.Request().Context(), key, time.Now())
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] bucket error for key=%s: %v", key, err)
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                if secs < 0 { secs = 0 }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    c.Logger().Infof("[ratelimit] block key=%s remaining=%d retry=%dms", key, remaining, retryMs)
                }
                return c.JSON(http.StatusTooManyRequests, map[string]any{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

type redisBucket struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
}

func (b *redisBucket) take(ctx context.Context, key string, now time.Time) (bool, int64, int64, error) {
    vals, err := limiterScript.Run(ctx, b.rdb, []string{key},
        now.UnixMilli(),
        b.cfg.Capacity,
        b.cfg.RefillTokens,
        b.cfg.RefillInterval.Milliseconds(),
        int64(b.cfg.TTL/time.Second),
    ).Result()
    if err != nil {
        return false, 0, 0, err
    }
    arr, ok := vals.([]interface{})
    if !ok || len(arr) != 3 {
        return false, 0, 0, fmt.Errorf("unexpected script result: %#v", vals)
    }
    allowed := asInt64(arr[0]) == 1
    return allowed, asInt64(arr[1]), asInt64(arr[2]), nil
}

// localBucket keeps one x/time/rate limiter per key.  Entries idle for
// longer than the configured TTL are swept on the next take.
type localBucket struct {
    mu        sync.Mutex
    entries   map[string]*localEntry
    limit     rate.Limit
    burst     int
    idleTTL   time.Duration
    lastSweep time.Time
}

type localEntry struct {
    lim      *rate.Limiter
    lastSeen time.Time
}

func newLocalBucket(cfg config.RateLimitConfig) *localBucket {
    return &localBucket{
        entries: make(map[string]*localEntry),
        limit:   rate.Limit(cfg.RatePerSecond()),
        burst:   cfg.Capacity,
        idleTTL: cfg.TTL,
    }
}

func (b *localBucket) take(_ context.Context, key string, now time.Time) (bool, int64, int64, error) {
    b.mu.Lock()
    defer b.mu.Unlock()

    if now.Sub(b.lastSweep) > b.idleTTL {
        cutoff := now.Add(-b.idleTTL)
        for k, ent := range b.entries {
            if ent.lastSeen.Before(cutoff) {
                delete(b.entries, k)
            }
        }
        b.lastSweep = now
    }

    ent, ok := b.entries[key]
    if !ok {
        ent = &localEntry{lim: rate.NewLimiter(b.limit, b.burst)}
        b.entries[key] = ent
    }
    ent.lastSeen = now

    if ent.lim.AllowN(now, 1) {
        return true, int64(math.Floor(ent.lim.TokensAt(now))), 0, nil
    }
    tokens := ent.lim.TokensAt(now)
    retry := time.Duration((1 - tokens) / float64(b.limit) * float64(time.Second))
    return false, 0, retry.Milliseconds(), nil
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case float32: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    uid := subjectOrAnon(c)
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}

package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/cinema-box-office/internal/config"
)

// captureWriter records the status and up to limit bytes of the body
// while forwarding everything to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 {
        cw.buf.Write(b)
    } else if remain := cw.limit - int64(cw.buf.Len()); remain > 0 {
        if int64(len(b)) > remain {
            cw.buf.Write(b[:remain])
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable key under cfg.Prefix.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    case "path":
        parts = []string{"path", r.URL.Path}
    default: // "route_query"
        parts = []string{"route", c.Path(), "p", strings.Join(c.ParamValues(), "/"), "q", r.URL.RawQuery}
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// cachedResponse is stored as [4 bytes status][4 bytes header length][header JSON][body].
type cachedResponse struct {
    status int
    header http.Header
    body   []byte
}

func (cr cachedResponse) encode() ([]byte, error) {
    hdrJSON, err := json.Marshal(cr.header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8, 8+len(hdrJSON)+len(cr.body))
    binary.BigEndian.PutUint32(out[0:4], uint32(cr.status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    out = append(out, hdrJSON...)
    return append(out, cr.body...), nil
}

var errShortPayload = errors.New("cache: short payload")

func decodeCachedResponse(bs []byte) (cachedResponse, error) {
    if len(bs) < 8 {
        return cachedResponse{}, errShortPayload
    }
    cr := cachedResponse{status: int(binary.BigEndian.Uint32(bs[0:4])), header: make(http.Header)}
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return cachedResponse{}, errShortPayload
    }
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &cr.header); err != nil {
            return cachedResponse{}, err
        }
    }
    cr.body = bs[8+hlen:]
    return cr, nil
}

// NewRedisCache serves repeated reads of the room listings from Redis.
// Only 200 responses are stored.  Without a Redis client, or when the
// cache is disabled, it is a no-op.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    ttl := cfg.TTL
    if ttl <= 0 { ttl = 2 * time.Second }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if cr, err := decodeCachedResponse(bs); err == nil {
                    for k, vals := range cr.header {
                        if strings.EqualFold(k, "Content-Length") { continue }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cr.status)
                    _, _ = c.Response().Write(cr.body)
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK {
                return nil
            }
            if maxBody > 0 && int64(cw.buf.Len()) >= maxBody {
                return nil // possibly truncated; do not store
            }
            cr := cachedResponse{status: cw.status, header: c.Response().Header().Clone(), body: cw.buf.Bytes()}
            cr.header.Del("X-Cache")
            if payload, err := cr.encode(); err == nil {
                _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
            }
            return nil
        }
    }
}

// CachePurger drops every cached response under a prefix.  Handlers call
// it after a sale or a new room so listings do not lag behind.
type CachePurger struct {
    rdb    *redis.Client
    prefix string
}

// NewCachePurger returns nil when rdb is nil; a nil purger is a no-op.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) *CachePurger {
    if rdb == nil || !cfg.Enabled {
        return nil
    }
    return &CachePurger{rdb: rdb, prefix: cfg.Prefix}
}

// Purge deletes the cached entries.  Errors are returned but callers
// usually ignore them; the TTL bounds staleness anyway.
func (p *CachePurger) Purge(ctx context.Context) error {
    if p == nil {
        return nil
    }
    iter := p.rdb.Scan(ctx, 0, p.prefix+":*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(keys) == 0 {
        return nil
    }
    return p.rdb.Del(ctx, keys...).Err()
}

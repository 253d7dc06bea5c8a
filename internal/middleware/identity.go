package middleware

// identity.go exposes the authenticated subject to handlers and to the
// rate limiter key builder.

import "github.com/labstack/echo/v4"

// Subject returns the subject claim stored by JWTAuth, or "" when the
// request is not authenticated.
func Subject(c echo.Context) string {
    if s, ok := c.Get(CtxSubject).(string); ok {
        return s
    }
    return ""
}

// subjectOrAnon is Subject with "anon" for unauthenticated callers.
func subjectOrAnon(c echo.Context) string {
    if s := Subject(c); s != "" {
        return s
    }
    return "anon"
}

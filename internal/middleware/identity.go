package middleware

// identity.go holds the helpers that resolve a request's user identity for
// keying purposes (rate limiting and cache namespacing).  Unauthenticated
// requests resolve to "anon" so public traffic shares one bucket per IP.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a stable string identity for the request's user.
// JWTAuth stores the "sub" claim under "user_id"; numeric claims arrive as
// float64, so anything non-nil is formatted rather than type-asserted.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t == "" {
            return "anon"
        }
        return t
    case float64:
        return fmt.Sprintf("%.0f", t)
    default:
        return fmt.Sprint(t)
    }
}

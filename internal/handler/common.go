package handler // handler defines http handlers

import (
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; older tokens may carry strings.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getCaller builds the explicit caller identity handed to the engine from
// the claims the JWT middleware stored in context.
func getCaller(c echo.Context) (booking.Caller, error) {
    id, err := getUserID(c)
    if err != nil {
        return booking.Caller{}, err
    }
    role, _ := c.Get("role").(string)
    return booking.Caller{ID: id, Role: role}, nil
}

// parseDate parses a calendar day in "YYYY-MM-DD" form, UTC.
func parseDate(s string) (time.Time, error) {
    return time.Parse("2006-01-02", s)
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// respondError maps engine and repository errors onto HTTP responses.
// Conflicts are an expected user-facing outcome and are never logged as
// server faults; only genuinely unexpected errors reach the log.
func respondError(c echo.Context, err error) error {
    var (
        ve *booking.ValidationError
        te *booking.InvalidTransitionError
    )
    switch {
    case errors.Is(err, booking.ErrNotFound),
        errors.Is(err, repository.ErrBookingNotFound),
        errors.Is(err, repository.ErrPropertyNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, booking.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
    case errors.Is(err, booking.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Reason})
    case errors.As(err, &te):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":  te.Error(),
            "status": te.Status,
        })
    default:
        log.Printf("handler: internal error: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
)

// PublicPropertyHandler serves the unauthenticated listing endpoints
// guests browse before signing in.  The calendar response sits behind
// the Redis response cache, so it only exposes day-level availability
// and never who holds a date.
type PublicPropertyHandler struct {
    Properties *repository.PropertyRepo
}

func NewPublicPropertyHandler(properties *repository.PropertyRepo) *PublicPropertyHandler {
    return &PublicPropertyHandler{Properties: properties}
}

// Get handles GET /v1/properties/:id.
func (h *PublicPropertyHandler) Get(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    p, err := h.Properties.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"property": p})
}

// Calendar handles GET /v1/properties/:id/calendar?from=...&to=....
// Dates default to the next 90 days.  Only blocked days are returned;
// anything absent from the list is open.
func (h *PublicPropertyHandler) Calendar(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    now := time.Now().UTC().Truncate(24 * time.Hour)
    from, to := now, now.AddDate(0, 0, 90)
    if s := c.QueryParam("from"); s != "" {
        d, err := parseDate(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
        }
        from = d
    }
    if s := c.QueryParam("to"); s != "" {
        d, err := parseDate(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
        }
        to = d
    }
    if !to.After(from) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
    }
    if _, err := h.Properties.GetByID(c.Request().Context(), id); err != nil {
        return respondError(c, err)
    }
    days, err := h.Properties.BlockedDays(c.Request().Context(), id, from, to)
    if err != nil {
        return respondError(c, err)
    }
    blocked := make([]string, 0, len(days))
    for _, d := range days {
        blocked = append(blocked, d.Day.Format("2006-01-02"))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id":  id,
        "from":         from.Format("2006-01-02"),
        "to":           to.Format("2006-01-02"),
        "blocked_days": blocked,
    })
}

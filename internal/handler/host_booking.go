package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/queue"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
)

// HostBookingHandler covers the host side of the booking lifecycle:
// approving or declining requests, checking guests in and reviewing the
// bookings attached to a property.
type HostBookingHandler struct {
    Engine     *booking.Engine
    Bookings   *repository.BookingRepo
    Properties *repository.PropertyRepo
}

func NewHostBookingHandler(engine *booking.Engine, bookings *repository.BookingRepo, properties *repository.PropertyRepo) *HostBookingHandler {
    return &HostBookingHandler{Engine: engine, Bookings: bookings, Properties: properties}
}

// Approve handles POST /v1/host/bookings/:id/approve.  Approval restarts
// the payment clock: the guest gets a fresh 48-hour window to pay.
func (h *HostBookingHandler) Approve(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.Approve(c.Request().Context(), caller, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Decline handles POST /v1/host/bookings/:id/decline.  Declining frees
// the held dates immediately.
func (h *HostBookingHandler) Decline(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req reasonReq
    _ = c.Bind(&req)
    b, err := h.Engine.Decline(c.Request().Context(), caller, id, req.Reason)
    if err != nil {
        return respondError(c, err)
    }
    publishBookingEvent(queue.KindDeclined, b, req.Reason)
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// CheckIn handles POST /v1/host/bookings/:id/check-in.
func (h *HostBookingHandler) CheckIn(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.CheckIn(c.Request().Context(), caller, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// ListForProperty handles GET /v1/host/properties/:id/bookings.  Only the
// property's own host may list; soft-deleted bookings remain visible here
// so hosts keep their history.
func (h *HostBookingHandler) ListForProperty(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    propertyID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    p, err := h.Properties.GetByID(c.Request().Context(), propertyID)
    if err != nil {
        return respondError(c, err)
    }
    if p.HostID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
    }
    items, err := h.Bookings.ListByProperty(c.Request().Context(), propertyID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

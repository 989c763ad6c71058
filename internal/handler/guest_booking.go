package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/queue"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
    queue_publisher "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/service"
)

// BookingHandler exposes the booking commands available to guests plus the
// cancel/complete actions shared with hosts.  All business rules live in
// the engine; the handler binds JSON, resolves the caller and translates
// errors.  JWT authentication and role validation happen in middleware.
type BookingHandler struct {
    Engine   *booking.Engine
    Bookings *repository.BookingRepo
}

func NewBookingHandler(engine *booking.Engine, bookings *repository.BookingRepo) *BookingHandler {
    return &BookingHandler{Engine: engine, Bookings: bookings}
}

type createBookingReq struct {
    PropertyID uint64 `json:"property_id"`
    CheckIn    string `json:"check_in"`  // YYYY-MM-DD
    CheckOut   string `json:"check_out"` // YYYY-MM-DD
    Adults     int    `json:"adults"`
    Children   int    `json:"children"`
    Infants    int    `json:"infants"`
}

type reasonReq struct {
    Reason string `json:"reason"`
}

// Create handles POST /v1/bookings.  It admits or rejects the proposed
// stay; a 409 means the dates are taken and the guest should try others.
func (h *BookingHandler) Create(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.PropertyID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_id is required"})
    }
    checkIn, err := parseDate(req.CheckIn)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
    }
    checkOut, err := parseDate(req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
    }
    b, err := h.Engine.Admit(c.Request().Context(), caller, booking.AdmitRequest{
        PropertyID: req.PropertyID,
        CheckIn:    checkIn,
        CheckOut:   checkOut,
        Adults:     req.Adults,
        Children:   req.Children,
        Infants:    req.Infants,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// ListMine handles GET /v1/my-bookings for the current guest.
func (h *BookingHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByGuest(c.Request().Context(), userID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id.  Visible only to the booking's guest
// or host.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Bookings.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    if b.GuestID != userID && b.HostID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Cancel handles POST /v1/bookings/:id/cancel for guests and hosts.  A
// paid booking earns the policy refund; the engine leaves unpaid ones
// untouched on the payment side.
func (h *BookingHandler) Cancel(c echo.Context) error {
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
    b, err := h.Engine.Cancel(c.Request().Context(), caller, id, req.Reason)
    if err != nil {
        return respondError(c, err)
    }
    publishBookingEvent(queue.KindCancelled, b, req.Reason)
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Complete handles POST /v1/bookings/:id/complete for guests and hosts.
func (h *BookingHandler) Complete(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Engine.Complete(c.Request().Context(), caller, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Delete handles DELETE /v1/bookings/:id.  Soft delete, guest only, and
// only once the booking is already cancelled or rejected.
func (h *BookingHandler) Delete(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.Engine.Delete(c.Request().Context(), caller, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// publishBookingEvent fires a broker event for the booking, best effort.
// Publishing runs detached from the request so a slow broker never delays
// the response, and failures are only logged inside the publisher.
func publishBookingEvent(kind string, b *model.Booking, reason string) {
    ev := queue.BookingEvent{
        Kind:         kind,
        BookingID:    b.ID,
        PropertyID:   b.PropertyID,
        GuestID:      b.GuestID,
        HostID:       b.HostID,
        CheckIn:      b.CheckIn.Format("2006-01-02"),
        CheckOut:     b.CheckOut.Format("2006-01-02"),
        Nights:       b.Nights,
        TotalPrice:   b.TotalPrice,
        RefundAmount: b.RefundAmount,
        Reason:       reason,
        OccurredAt:   time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishBookingEvent(ctx, ev)
    }()
}

package handler

import (
    "crypto/subtle"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/queue"
)

// PaymentHandler receives payment-provider callbacks.  The provider is
// trusted via a shared webhook secret; there is no user session on this
// route.
type PaymentHandler struct {
    Engine *booking.Engine
    Secret string
}

func NewPaymentHandler(engine *booking.Engine, secret string) *PaymentHandler {
    return &PaymentHandler{Engine: engine, Secret: secret}
}

type paymentCallbackReq struct {
    BookingID  uint64 `json:"booking_id"`
    PaymentRef string `json:"payment_ref"`
}

// Callback handles POST /v1/payments/callback.  A valid callback marks
// the booking paid and confirms it, clearing any pending hold.  The
// endpoint is idempotent at the engine level: a second callback for an
// already-confirmed booking gets a 409.
func (h *PaymentHandler) Callback(c echo.Context) error {
    got := c.Request().Header.Get("X-Webhook-Secret")
    if h.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook secret"})
    }
    var req paymentCallbackReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.BookingID == 0 || req.PaymentRef == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id and payment_ref are required"})
    }
    b, err := h.Engine.MarkPaid(c.Request().Context(), req.BookingID, req.PaymentRef)
    if err != nil {
        return respondError(c, err)
    }
    publishBookingEvent(queue.KindConfirmed, b, "")
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

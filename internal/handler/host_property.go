package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
)

// HostPropertyHandler manages a host's listings and their manual
// calendar blocks.
type HostPropertyHandler struct {
    Engine     *booking.Engine
    Properties *repository.PropertyRepo
}

func NewHostPropertyHandler(engine *booking.Engine, properties *repository.PropertyRepo) *HostPropertyHandler {
    return &HostPropertyHandler{Engine: engine, Properties: properties}
}

type createPropertyReq struct {
    Title               string  `json:"title"`
    MaxGuests           int     `json:"max_guests"`
    NightlyRate         float64 `json:"nightly_rate"`
    CleaningFee         float64 `json:"cleaning_fee"`
    InstantBook         bool    `json:"instant_book"`
    RequestToBook       bool    `json:"request_to_book"`
    ApprovalWindowHours int     `json:"approval_window_hours"`
    CancellationPolicy  string  `json:"cancellation_policy"`
}

// Create handles POST /v1/host/properties.
func (h *HostPropertyHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createPropertyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    if req.MaxGuests < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_guests must be at least 1"})
    }
    if req.NightlyRate <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "nightly_rate must be positive"})
    }
    if req.CleaningFee < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cleaning_fee cannot be negative"})
    }
    tier := model.PolicyTier(req.CancellationPolicy)
    if !tier.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown cancellation_policy"})
    }
    p := &model.Property{
        HostID:              userID,
        Title:               req.Title,
        Status:              model.PropertyActive,
        MaxGuests:           req.MaxGuests,
        NightlyRate:         req.NightlyRate,
        CleaningFee:         req.CleaningFee,
        InstantBook:         req.InstantBook,
        RequestToBook:       req.RequestToBook,
        ApprovalWindowHours: req.ApprovalWindowHours,
        CancellationPolicy:  tier,
    }
    if err := h.Properties.Create(c.Request().Context(), p); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"property": p})
}

// ListMine handles GET /v1/host/properties.
func (h *HostPropertyHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Properties.ListByHost(c.Request().Context(), userID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type blackoutReq struct {
    From  string `json:"from"`  // YYYY-MM-DD, inclusive
    To    string `json:"to"`    // YYYY-MM-DD, exclusive
    Block bool   `json:"block"` // true to block, false to release
}

// Blackout handles POST /v1/host/properties/:id/blackout.  Blocking
// fails with 409 while an active booking overlaps the range; releasing
// removes only manual blocks and never touches booking-held days.
func (h *HostPropertyHandler) Blackout(c echo.Context) error {
    caller, err := getCaller(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    propertyID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    var req blackoutReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    from, err := parseDate(req.From)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
    }
    to, err := parseDate(req.To)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
    }
    if err := h.Engine.SetBlackout(c.Request().Context(), caller, propertyID, from, to, req.Block); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP.  All
// endpoints sit behind JWTAuth; the authenticated user is the acting
// party and is never taken from the request body.
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

type reservationReq struct {
	PropertyID uint64 `json:"property_id"`
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type reservationView struct {
	ID         uint64    `json:"id"`
	TenantID   uint64    `json:"tenant_id"`
	PropertyID uint64    `json:"property_id"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toReservationView(r model.Reservation) reservationView {
	return reservationView{
		ID:         r.ID,
		TenantID:   r.TenantID,
		PropertyID: r.PropertyID,
		Status:     r.Status,
		StartDate:  r.StartDate.Format(model.DateLayout),
		EndDate:    r.EndDate.Format(model.DateLayout),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.PropertyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_id is required"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, want YYYY-MM-DD"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date, want YYYY-MM-DD"})
	}

	res, err := h.Svc.Create(c.Request().Context(), userID, req.PropertyID, start, end, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationView(*res))
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, want YYYY-MM-DD"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date, want YYYY-MM-DD"})
	}

	res, err := h.Svc.Update(c.Request().Context(), userID, id, service.ReservationUpdate{
		Status:    req.Status,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(*res))
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Svc.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(*res))
}

// ListByProperty handles GET /v1/properties/:id/reservations (owner only).
func (h *ReservationHandler) ListByProperty(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	list, err := h.Svc.ListByProperty(c.Request().Context(), userID, propertyID)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]reservationView, 0, len(list))
	for _, r := range list {
		views = append(views, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

// ListMine handles GET /v1/reservations/mine.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Svc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]reservationView, 0, len(list))
	for _, r := range list {
		views = append(views, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

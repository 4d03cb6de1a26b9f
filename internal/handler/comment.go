package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/service"
)

// CommentHandler exposes reservation comment threads over HTTP.
type CommentHandler struct {
	Svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	if svc == nil {
		panic("nil service passed to NewCommentHandler")
	}
	return &CommentHandler{Svc: svc}
}

type commentReq struct {
	ReservationID uint64  `json:"reservation_id"`
	Content       string  `json:"content"`
	ParentID      *uint64 `json:"parent_id"`
	Rating        *int    `json:"rating"`
}

type commentView struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	ReservationID uint64    `json:"reservation_id"`
	PropertyID    uint64    `json:"property_id"`
	Content       string    `json:"content"`
	ParentID      *uint64   `json:"parent_id"`
	Rating        *int      `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toCommentView(c model.Comment) commentView {
	return commentView{
		ID:            c.ID,
		UserID:        c.UserID,
		ReservationID: c.ReservationID,
		PropertyID:    c.PropertyID,
		Content:       c.Content,
		ParentID:      c.ParentID,
		Rating:        c.Rating,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// Create handles POST /v1/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}

	cm, err := h.Svc.Create(c.Request().Context(), userID, req.ReservationID, req.Content, req.ParentID, req.Rating)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toCommentView(*cm))
}

// Update handles PUT /v1/comments/:id.
func (h *CommentHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	cm, err := h.Svc.Update(c.Request().Context(), userID, id, req.Content, req.Rating)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCommentView(*cm))
}

// Delete handles DELETE /v1/comments/:id.
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/comments/:id.
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	cm, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCommentView(*cm))
}

// ListByReservation handles GET /v1/reservations/:id/comments.
func (h *CommentHandler) ListByReservation(c echo.Context) error {
	reservationID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	list, err := h.Svc.ListByReservation(c.Request().Context(), reservationID)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]commentView, 0, len(list))
	for _, cm := range list {
		views = append(views, toCommentView(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": views})
}

// ListByProperty handles GET /v1/properties/:id/comments.
func (h *CommentHandler) ListByProperty(c echo.Context) error {
	propertyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	list, err := h.Svc.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]commentView, 0, len(list))
	for _, cm := range list {
		views = append(views, toCommentView(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": views})
}

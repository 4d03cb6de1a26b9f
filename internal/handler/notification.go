package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// NotificationHandler exposes per-user notifications.  Most rows are
// written by the reservation event consumer; direct creation allows users
// to message each other.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Users         *repository.UserRepo
}

func NewNotificationHandler(notifications *repository.NotificationRepo, users *repository.UserRepo) *NotificationHandler {
	if notifications == nil || users == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: notifications, Users: users}
}

type notificationReq struct {
	ReceiverID uint64 `json:"receiver_id"`
	Message    string `json:"message"`
}

type notificationView struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func toNotificationView(n model.Notification) notificationView {
	return notificationView{
		ID:         n.ID,
		SenderID:   n.SenderID,
		ReceiverID: n.ReceiverID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// Create handles POST /v1/notifications.  The sender is always the
// authenticated user.
func (h *NotificationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req notificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ReceiverID == 0 || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "receiver_id and message are required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, req.ReceiverID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "receiver not found"})
	}

	n := model.Notification{SenderID: userID, ReceiverID: req.ReceiverID, Message: req.Message}
	if err := h.Notifications.Create(ctx, &n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create notification failed"})
	}
	return c.JSON(http.StatusCreated, toNotificationView(n))
}

// ListUnread handles GET /v1/notifications/unread.
func (h *NotificationHandler) ListUnread(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Notifications.ListUnreadByReceiver(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]notificationView, 0, len(list))
	for _, n := range list {
		views = append(views, toNotificationView(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": views})
}

// MarkRead handles POST /v1/notifications/:id/read (receiver only).
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), id, userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

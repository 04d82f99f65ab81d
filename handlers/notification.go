package handlers

import (
	"errors"
	"net/http"

	"carvistors/models"
	"carvistors/services/notification"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

type createNotificationRequest struct {
	RecipientType string         `json:"recipientType"`
	UserID        string         `json:"userId"`
	Email         string         `json:"email"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Type          string         `json:"type"`
	Link          string         `json:"link"`
	Metadata      map[string]any `json:"metadata"`
}

// notificationError maps service sentinels onto HTTP statuses.
func notificationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, notification.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, notification.ErrRecipientNotFound):
		utils.JSONError(c, http.StatusNotFound, "Recipient not found", err.Error())
	case errors.Is(err, notification.ErrNotificationNotFound):
		utils.JSONError(c, http.StatusNotFound, "Notification not found", err.Error())
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, fallback, "")
	}
}

// recipientFromRequest reads the :userId param, the email query and the
// type query into a RecipientRef.
func recipientFromRequest(c *gin.Context) (models.RecipientRef, bool) {
	kind, err := models.ParseAccountKind(c.Query("type"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid recipient type", err.Error())
		return models.RecipientRef{}, false
	}
	ref := models.RecipientRef{Kind: kind, ID: c.Param("userId"), Email: c.Query("email")}
	if !ref.HasID() && !ref.HasEmail() {
		utils.JSONError(c, http.StatusBadRequest, "userId param or email query is required", "")
		return ref, false
	}
	return ref, true
}

// CreateNotificationHandler handles POST /api/notifications.
func (h *NotificationHandler) CreateNotificationHandler(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	kind, err := models.ParseAccountKind(req.RecipientType)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid recipient type", err.Error())
		return
	}

	n, err := h.Service.SendToOne(c.Request.Context(),
		models.RecipientRef{Kind: kind, ID: req.UserID, Email: req.Email},
		models.NotificationContent{
			Title:    req.Title,
			Message:  req.Message,
			Category: models.Category(req.Type),
			Link:     req.Link,
			Metadata: req.Metadata,
		})
	if err != nil {
		notificationError(c, err, "Failed to create notification")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "notification": n})
}

// ListNotificationsHandler handles GET /api/notifications/user/:userId and
// GET /api/notifications/user?email=.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	ref, ok := recipientFromRequest(c)
	if !ok {
		return
	}
	list, err := h.Service.ListForRecipient(c.Request.Context(), ref)
	if err != nil {
		notificationError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}

// MarkNotificationReadHandler handles PATCH /api/notifications/:notificationId/read.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	n, err := h.Service.MarkRead(c.Request.Context(), c.Param("notificationId"))
	if err != nil {
		notificationError(c, err, "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}

// MarkAllReadHandler handles PATCH /api/notifications/user/:userId/read-all
// and PATCH /api/notifications/user/read-all?email=.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	ref, ok := recipientFromRequest(c)
	if !ok {
		return
	}
	count, err := h.Service.MarkAllRead(c.Request.Context(), ref)
	if err != nil {
		notificationError(c, err, "Failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read", "updated": count})
}

// UnreadCountHandler handles GET /api/notifications/user/:userId/unread-count.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	ref, ok := recipientFromRequest(c)
	if !ok {
		return
	}
	count, err := h.Service.CountUnread(c.Request.Context(), ref)
	if err != nil {
		notificationError(c, err, "Failed to count notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": count})
}

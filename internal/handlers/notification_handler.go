package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary      My notifications
// @Description  Latest 50; pass unread_only=true to filter
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread_only  query     bool  false  "Only unread"
// @Success      200          {object}  handlers.Envelope
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"
	notifications, err := h.notificationService.List(c.Request.Context(), currentUserID(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, notifications)
}

// @Summary      Mark a notification read
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification id"
// @Success      200  {object}  handlers.Envelope
// @Failure      404  {object}  handlers.Envelope
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "notification read")
}

// @Summary      Mark all notifications read
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	affected, err := h.notificationService.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"marked": affected})
}

// @Summary      Sweep for tasks due soon
// @Description  Sends task_due notifications for unfinished tasks due within the window, deduped per user and task over 24 hours. Meant to be hit by an external timer.
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /notifications/check-due [post]
func (h *NotificationHandler) CheckDue(c *gin.Context) {
	sent, err := h.notificationService.CheckDue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sent": sent})
}

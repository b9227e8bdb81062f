package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oasistravel/booking/internal/auth"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/oasistravel/booking/internal/repository"
	"github.com/oasistravel/booking/internal/service/notifications"
)

type NotificationHandler struct {
	service notifications.NotificationUseCase
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	TitleEN   string `json:"title_en"`
	TitleAR   string `json:"title_ar"`
	MessageEN string `json:"message_en"`
	MessageAR string `json:"message_ar"`
	Type      string `json:"type"`
	Priority  int    `json:"priority"`
	Status    string `json:"status"`
	Data      string `json:"data,omitempty"`
	SentAt    string `json:"sent_at,omitempty"`
	ReadAt    string `json:"read_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	out := notificationResponse{
		ID:        n.ID,
		TitleEN:   n.TitleEN,
		TitleAR:   n.TitleAR,
		MessageEN: n.MessageEN,
		MessageAR: n.MessageAR,
		Type:      string(n.Type),
		Priority:  n.Priority,
		Status:    string(n.Status),
		Data:      n.Data,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.SentAt != nil {
		out.SentAt = n.SentAt.Format(time.RFC3339)
	}
	if n.ReadAt != nil {
		out.ReadAt = n.ReadAt.Format(time.RFC3339)
	}
	return out
}

func NewNotificationHandler(service notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/unread-count", h.unreadCount)
	router.PUT("/:id/read", h.markRead)
	router.PUT("/read-all", h.markAllRead)
	router.PUT("/:id/archive", h.archive)
}

func (h *NotificationHandler) list(c *gin.Context) {
	filter := repository.NotificationFilter{
		Status: domain.NotificationStatus(c.Query("status")),
		Type:   domain.NotificationType(c.Query("type")),
		Page:   1,
		Size:   20,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 && size <= 100 {
		filter.Size = size
	}

	list, err := h.service.ListForUser(c.Request.Context(), auth.CallerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, auth.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}

func (h *NotificationHandler) archive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.service.Archive(c.Request.Context(), id, auth.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

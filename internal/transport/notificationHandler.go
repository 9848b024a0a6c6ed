package transport

import (
	"io"
	"net/http"
	"strconv"

	"github.com/sehat-saathi/reminder-service/internal/entity"
	"github.com/sehat-saathi/reminder-service/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service    service.AlertUseCase
	newChannel ChannelFactory
}

func NewNotificationHandler(service service.AlertUseCase, newChannel ChannelFactory) *NotificationHandler {
	return &NotificationHandler{service: service, newChannel: newChannel}
}

func (h *NotificationHandler) Inbox(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	notifications, err := h.service.Inbox(c.Request.Context(), user, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *NotificationHandler) Permission(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	state, err := h.service.Permission(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *NotificationHandler) SetPermission(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	var req entity.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.service.SetPermission(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *NotificationHandler) PublishAlert(c *gin.Context) {
	var req entity.AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.service.PublishAlert(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// Stream delivers the user's live notifications as server-sent events. Each
// stream owns its own remote channel session, torn down when the client
// disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	remote := h.newChannel()
	if err := remote.Connect(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer remote.Disconnect()

	events := make(chan *entity.Notification, 16)
	unsubscribe := remote.OnNotification(func(n *entity.Notification) {
		select {
		case events <- n:
		default:
			// slow consumer, drop (best-effort channel)
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case notification := <-events:
			c.SSEvent("notification", notification)
			return true
		}
	})
}

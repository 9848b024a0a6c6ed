package transport

import (
	"errors"
	"net/http"

	"github.com/sehat-saathi/reminder-service/internal/entity"
	"github.com/sehat-saathi/reminder-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	service service.ReminderUseCase
}

func NewReminderHandler(service service.ReminderUseCase) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// userID resolves the caller identity from the X-User-ID header or the
// user_id query parameter.
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return c.Query("user_id")
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrReminderNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidSchedule), errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrMissingUser):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	var req entity.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.service.CreateReminder(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

func (h *ReminderHandler) GetReminders(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	reminders := h.service.GetReminders(c.Request.Context(), user)
	c.JSON(http.StatusOK, gin.H{
		"reminders": reminders,
		"count":     len(reminders),
	})
}

func (h *ReminderHandler) GetReminder(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	reminder, err := h.service.GetReminder(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	var req entity.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reminder, err := h.service.UpdateReminder(c.Request.Context(), user, c.Param("id"), &req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	if err := h.service.DeleteReminder(c.Request.Context(), user, c.Param("id")); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

func (h *ReminderHandler) MarkTaken(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	reminder, err := h.service.MarkTaken(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *ReminderHandler) Snooze(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingUser.Error()})
		return
	}

	// empty body means the default snooze duration
	var req entity.SnoozeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	reminder, err := h.service.Snooze(c.Request.Context(), user, c.Param("id"), req.Minutes)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

package transport

import (
	"time"

	"github.com/sehat-saathi/reminder-service/internal/channel"
	"github.com/sehat-saathi/reminder-service/internal/service"
	"github.com/sehat-saathi/reminder-service/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

// ChannelFactory builds a fresh remote notification channel for one
// streaming session.
type ChannelFactory func() *channel.Remote

func InitRoutes(reminders service.ReminderUseCase, alerts service.AlertUseCase, newChannel ChannelFactory) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	reminderHandler := NewReminderHandler(reminders)
	notificationHandler := NewNotificationHandler(alerts, newChannel)

	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(10))
	{
		api.POST("/reminders", reminderHandler.CreateReminder)
		api.GET("/reminders", reminderHandler.GetReminders)
		api.GET("/reminders/:id", reminderHandler.GetReminder)
		api.PUT("/reminders/:id", reminderHandler.UpdateReminder)
		api.DELETE("/reminders/:id", reminderHandler.DeleteReminder)
		api.POST("/reminders/:id/taken", reminderHandler.MarkTaken)
		api.POST("/reminders/:id/snooze", reminderHandler.Snooze)

		api.GET("/notifications", notificationHandler.Inbox)
		api.GET("/notifications/permission", notificationHandler.Permission)
		api.POST("/notifications/permission", notificationHandler.SetPermission)

		api.POST("/alerts", notificationHandler.PublishAlert)
	}

	// the SSE stream manages its own lifetime, no request timeout
	router.GET("/api/v1/notifications/stream", notificationHandler.Stream)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"service":   "reminder-service",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return router
}

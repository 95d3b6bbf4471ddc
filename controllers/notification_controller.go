package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choripam/choripam-api/services"
)

// NotificationController exposes the order notification state to the admin UI
type NotificationController struct {
	notifier *services.Notifier
	hub      *services.Hub
}

// NewNotificationController wires the controller
func NewNotificationController(notifier *services.Notifier, hub *services.Hub) *NotificationController {
	return &NotificationController{notifier: notifier, hub: hub}
}

// GetState handles GET /api/v1/admin/notifications
func (nc *NotificationController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    nc.notifier.State(),
	})
}

// SetEnabledRequest toggles background polling
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetEnabled handles PUT /api/v1/admin/notifications
func (nc *NotificationController) SetEnabled(c *gin.Context) {
	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if *req.Enabled {
		nc.notifier.Start()
	} else {
		nc.notifier.Stop()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    nc.notifier.State(),
	})
}

// ResetCount handles POST /api/v1/admin/notifications/reset
func (nc *NotificationController) ResetCount(c *gin.Context) {
	nc.notifier.ResetNewOrdersCount()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    nc.notifier.State(),
	})
}

// StopAlarm handles POST /api/v1/admin/notifications/stop-alarm
func (nc *NotificationController) StopAlarm(c *gin.Context) {
	nc.notifier.StopAlarm()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    nc.notifier.State(),
	})
}

// Stream handles GET /api/v1/admin/notifications/stream - pushes notification
// events over SSE until the client disconnects
func (nc *NotificationController) Stream(c *gin.Context) {
	events, cancel := nc.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		}
	})
}

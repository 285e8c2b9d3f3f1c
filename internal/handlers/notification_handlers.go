package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

//
// --- Notification Handlers (admin dashboard alerts) ---
//

// GetNotifications is the handler for GET /v1/admin/notifications
// Unread first, then newest first; capped at 50.
func (h *Handlers) GetNotifications(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, message, link, is_read, created_at
		FROM notifications
		ORDER BY is_read ASC, created_at DESC
		LIMIT 50`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification"})
			return
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationAsRead is the handler for PATCH /v1/admin/notifications/:id/read
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	notificationID := c.Param("id")

	res, err := h.DB.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, notificationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

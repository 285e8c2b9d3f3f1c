package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

//
// --- Complaint Handlers ---
//

type CreateComplaintInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateComplaint is the handler for POST /v1/complaints
// The admin notification is written in the same transaction as the
// complaint so the alert never points at a row that failed to commit.
func (h *Handlers) CreateComplaint(c *gin.Context) {
	var input CreateComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO complaints (name, email, subject, message, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'open', ?, ?)`,
		input.Name, input.Email, input.Subject, input.Message, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}
	id, _ := res.LastInsertId()

	if _, err := tx.Exec(
		`INSERT INTO notifications (message, link, is_read, created_at) VALUES (?, ?, 0, ?)`,
		fmt.Sprintf("New complaint from %s: %s", input.Name, input.Subject),
		fmt.Sprintf("/admin/complaints/%d", id), now,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record notification"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Complaint submitted",
		"data": models.Complaint{
			ID: id, Name: input.Name, Email: input.Email, Subject: input.Subject,
			Message: input.Message, Status: "open", CreatedAt: now, UpdatedAt: now,
		},
	})
}

// GetAllComplaints is the handler for GET /v1/admin/complaints
func (h *Handlers) GetAllComplaints(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, email, subject, message, status, created_at, updated_at
		FROM complaints ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		var cm models.Complaint
		if err := rows.Scan(&cm.ID, &cm.Name, &cm.Email, &cm.Subject, &cm.Message, &cm.Status, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan complaint"})
			return
		}
		complaints = append(complaints, cm)
	}

	c.JSON(http.StatusOK, gin.H{"data": complaints})
}

// ResolveComplaint is the handler for PATCH /v1/admin/complaints/:id/resolve
func (h *Handlers) ResolveComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	res, err := h.DB.Exec(
		`UPDATE complaints SET status = 'resolved', updated_at = ? WHERE id = ? AND status = 'open'`,
		time.Now(), id,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found or already resolved"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint resolved"})
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

//
// --- Banner Handlers ---
//

type BannerInput struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	LinkURL  string `json:"linkUrl"`
	Active   bool   `json:"active"`
}

// CreateBanner is the handler for POST /v1/admin/banners
func (h *Handlers) CreateBanner(c *gin.Context) {
	var input BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	res, err := h.DB.Exec(
		`INSERT INTO banners (title, image_url, link_url, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		input.Title, input.ImageURL, input.LinkURL, input.Active, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create banner"})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Banner created",
		"data": models.Banner{
			ID: id, Title: input.Title, ImageURL: input.ImageURL,
			LinkURL: input.LinkURL, Active: input.Active, CreatedAt: now, UpdatedAt: now,
		},
	})
}

// GetActiveBanners is the handler for GET /v1/banners (storefront)
func (h *Handlers) GetActiveBanners(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, title, image_url, link_url, active, created_at, updated_at
		FROM banners WHERE active = 1 ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch banners"})
		return
	}
	defer rows.Close()

	banners := []models.Banner{}
	for rows.Next() {
		var b models.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan banner"})
			return
		}
		banners = append(banners, b)
	}

	c.JSON(http.StatusOK, gin.H{"data": banners})
}

// DeleteBanner is the handler for DELETE /v1/admin/banners/:id
func (h *Handlers) DeleteBanner(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid banner ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM banners WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete banner"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
}

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

//
// --- Review Handlers ---
//

type CreateReviewInput struct {
	ReviewerName string `json:"reviewerName" binding:"required"`
	Rating       int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment      string `json:"comment"`
}

// CreateReview is the handler for POST /v1/products/:id/reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The product must exist; reviews are not orphaned.
	var exists int
	err = h.DB.QueryRow(`SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check product"})
		return
	}

	now := time.Now()
	res, err := h.DB.Exec(
		`INSERT INTO reviews (product_id, reviewer_name, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		productID, input.ReviewerName, input.Rating, input.Comment, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted",
		"data": models.Review{
			ID: id, ProductID: productID, ReviewerName: input.ReviewerName,
			Rating: input.Rating, Comment: input.Comment, CreatedAt: now,
		},
	})
}

// GetProductReviews is the handler for GET /v1/products/:id/reviews
func (h *Handlers) GetProductReviews(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, product_id, reviewer_name, rating, comment, created_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.ReviewerName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan review"})
			return
		}
		reviews = append(reviews, r)
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

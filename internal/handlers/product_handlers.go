package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

//
// --- Product Handlers ---
//

type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Discount    int             `json:"discount" binding:"gte=0,lte=100"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	ImageURL    string          `json:"imageUrl"`
	CategoryID  *int64          `json:"categoryId"`
}

// CreateProduct is the handler for POST /v1/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	now := time.Now()
	productSlug := slug.Make(input.Name)

	res, err := h.DB.Exec(`
		INSERT INTO products (name, slug, description, price, discount, quantity, image_url, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, productSlug, input.Description, input.Price, input.Discount,
		input.Quantity, input.ImageURL, input.CategoryID, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created",
		"data": models.Product{
			ID: id, Name: input.Name, Slug: productSlug, Description: input.Description,
			Price: input.Price, Discount: input.Discount, Quantity: input.Quantity,
			ImageURL: input.ImageURL, CategoryID: input.CategoryID,
			CreatedAt: now, UpdatedAt: now,
		},
	})
}

// GetAllProducts is the handler for GET /v1/products
// Supports ?category=<id> and ?search=<term>.
func (h *Handlers) GetAllProducts(c *gin.Context) {
	query := `
		SELECT p.id, p.name, p.slug, p.description, p.price, p.discount, p.quantity,
		       p.image_url, p.category_id, p.created_at, p.updated_at, COALESCE(c.name, '')
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id`

	var args []interface{}
	var clauses []string
	if cat := c.Query("category"); cat != "" {
		clauses = append(clauses, "p.category_id = ?")
		args = append(args, cat)
	}
	if term := c.Query("search"); term != "" {
		clauses = append(clauses, "p.name LIKE ?")
		args = append(args, "%"+term+"%")
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var categoryID sql.NullInt64
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount, &p.Quantity,
			&p.ImageURL, &categoryID, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		if categoryID.Valid {
			p.CategoryID = &categoryID.Int64
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

// GetProduct is the handler for GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var p models.Product
	var categoryID sql.NullInt64
	err = h.DB.QueryRow(`
		SELECT id, name, slug, description, price, discount, quantity, image_url, category_id, created_at, updated_at
		FROM products WHERE id = ?`, id,
	).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount, &p.Quantity,
		&p.ImageURL, &categoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.Exec(`
		UPDATE products
		SET name = ?, slug = ?, description = ?, price = ?, discount = ?, quantity = ?, image_url = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		input.Name, slug.Make(input.Name), input.Description, input.Price, input.Discount,
		input.Quantity, input.ImageURL, input.CategoryID, time.Now(), id,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

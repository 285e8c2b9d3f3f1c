package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard ---
//

// GetDashboardStats is the handler for GET /v1/admin/dashboard-stats
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	stats := gin.H{}

	var totalOrders, pendingOrders int64
	if err := h.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&totalOrders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}
	if err := h.DB.QueryRow(`SELECT COUNT(*) FROM orders WHERE status = 'pending'`).Scan(&pendingOrders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending orders"})
		return
	}
	stats["totalOrders"] = totalOrders
	stats["pendingOrders"] = pendingOrders

	// Revenue counts only orders whose payment actually cleared.
	var revenue sql.NullString
	err := h.DB.QueryRow(`
		SELECT COALESCE(SUM(o.total), 0)
		FROM orders o
		JOIN payment_details pd ON pd.order_id = o.id
		WHERE pd.status = 'paid' AND o.status != 'cancelled'`).Scan(&revenue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
		return
	}
	stats["revenue"] = revenue.String

	var lowStock int64
	if err := h.DB.QueryRow(`SELECT COUNT(*) FROM products WHERE quantity <= 5`).Scan(&lowStock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count low-stock products"})
		return
	}
	stats["lowStockProducts"] = lowStock

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
	"github.com/udaricrafts/udari-crafts-golang/internal/orders"
	"github.com/udaricrafts/udari-crafts-golang/internal/payments"
)

// Gateways bill in the smallest currency unit.
var centsPerUnit = decimal.NewFromInt(100)

//
// --- Order Handlers ---
//

// PlaceOrder is the handler for POST /v1/orders
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var input orders.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    order,
	})
}

// GetAllOrders is the handler for GET /v1/admin/orders
func (h *Handlers) GetAllOrders(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, order_number, customer_name, customer_email, customer_phone, address, total, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orderList := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.Address, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orderList = append(orderList, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orderList})
}

// GetOrder is the handler for GET /v1/orders/:id
// Returns the order with its items and payment records.
func (h *Handlers) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var o models.Order
	err = h.DB.QueryRow(`
		SELECT id, order_number, customer_name, customer_email, customer_phone, address, total, status, created_at, updated_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.Address, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	itemRows, err := h.DB.Query(`
		SELECT id, order_id, product_id, product_name, quantity, unit_price, created_at
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		o.Items = append(o.Items, it)
	}

	payRows, err := h.DB.Query(`
		SELECT id, order_id, amount, payment_type, status, transaction_id, created_at, updated_at
		FROM payment_details WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment details"})
		return
	}
	defer payRows.Close()

	for payRows.Next() {
		var p models.PaymentDetail
		var txnID sql.NullString
		if err := payRows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.PaymentType, &p.Status, &txnID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan payment detail"})
			return
		}
		p.TransactionID = txnID.String
		o.Payments = append(o.Payments, p)
	}

	c.JSON(http.StatusOK, gin.H{"data": o})
}

// UpdateOrderStatusInput is the request body for status transitions.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /v1/admin/orders/:id
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.UpdateStatus(c.Request.Context(), orderID, status)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Order status updated to %q", order.Status),
		"data":    order,
	})
}

// UpdatePaymentStatusInput is the request body for payment-status updates.
type UpdatePaymentStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatus is the handler for PUT /v1/admin/orders/:id/payment-status
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := models.ParsePaymentStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.UpdatePaymentStatus(c.Request.Context(), orderID, status); err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Payment status updated to %q", status)})
}

// VerifyPayment is the handler for GET /v1/verify-payment?session_id=...&order_id=...
// Safe to call repeatedly for the same session (e.g. a refreshed success page).
func (h *Handlers) VerifyPayment(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
		return
	}

	order, err := h.Orders.VerifyPayment(c.Request.Context(), sessionID, orderID)
	if err != nil {
		h.orderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified",
		"data":    order,
	})
}

// CreateCheckoutSession is the handler for POST /v1/create-checkout-session/:id
// It creates a hosted card-checkout session for an existing order and returns
// the redirect URL.
func (h *Handlers) CreateCheckoutSession(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var orderNumber string
	err = h.DB.QueryRow(`SELECT order_number FROM orders WHERE id = ?`, orderID).Scan(&orderNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT product_name, quantity, unit_price
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	var lineItems []payments.LineItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		lineItems = append(lineItems, payments.LineItem{
			Name:       it.ProductName,
			UnitAmount: it.UnitPrice.Mul(centsPerUnit).Round(0).IntPart(),
			Quantity:   int64(it.Quantity),
		})
	}
	if len(lineItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order has no items"})
		return
	}

	session, err := h.Card.CreateSession(c.Request.Context(), payments.SessionRequest{
		OrderNumber: orderNumber,
		Items:       lineItems,
		SuccessURL:  fmt.Sprintf("%s?session_id={CHECKOUT_SESSION_ID}&order_id=%d", h.CheckoutSuccessURL, orderID),
		CancelURL:   h.CheckoutCancelURL,
	})
	if err != nil {
		h.Logger.Error("checkout session creation failed", zap.Int64("orderID", orderID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout session created",
		"data":    gin.H{"sessionId": session.ID, "url": session.URL},
	})
}

// JazzCashCheckoutInput is the request body for wallet payments.
type JazzCashCheckoutInput struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	CNIC         string `json:"cnic" binding:"required"`
}

// CreateJazzCashCheckout is the handler for POST /v1/create-jazzcash-checkout/:id
// It posts a signed wallet transaction and persists the returned transaction
// reference on the order's payment record.
func (h *Handlers) CreateJazzCashCheckout(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input JazzCashCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var o models.Order
	err = h.DB.QueryRow(`SELECT id, order_number, total FROM orders WHERE id = ?`, orderID).
		Scan(&o.ID, &o.OrderNumber, &o.Total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	resp, err := h.Wallet.CreateTransaction(c.Request.Context(), payments.WalletCharge{
		OrderNumber: o.OrderNumber,
		AmountPaisa: o.Total.Mul(centsPerUnit).Round(0).IntPart(),
		Description: fmt.Sprintf("Udari Crafts order %s", o.OrderNumber),
		MobileNo:    input.MobileNumber,
		CNIC:        input.CNIC,
	})
	if err != nil {
		h.Logger.Error("jazzcash transaction failed", zap.Int64("orderID", orderID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Wallet gateway unavailable"})
		return
	}

	if !resp.Accepted() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Wallet payment declined: %s (%s)", resp.ResponseMessage, resp.ResponseCode),
		})
		return
	}

	_, err = h.DB.Exec(
		`UPDATE payment_details SET payment_type = 'wallet', transaction_id = ? WHERE order_id = ?`,
		resp.TxnRefNo, orderID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record wallet transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wallet transaction accepted",
		"data": gin.H{
			"transactionRef": resp.TxnRefNo,
			"redirectUrl":    resp.RedirectURL,
		},
	})
}

// orderError maps the order service's error taxonomy onto HTTP responses.
func (h *Handlers) orderError(c *gin.Context, err error) {
	var (
		stockErr      *orders.InsufficientStockError
		missingErr    *orders.ProductNotFoundError
		transitionErr *orders.InvalidTransitionError
		gatewayErr    *orders.GatewayError
	)

	switch {
	case errors.Is(err, orders.ErrEmptyOrder), errors.Is(err, orders.ErrMalformedLine):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
	case errors.As(err, &missingErr):
		c.JSON(http.StatusNotFound, gin.H{"error": missingErr.Error()})
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": transitionErr.Error()})
	case errors.Is(err, orders.ErrSessionMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrPaymentIncomplete):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gatewayErr.Error()})
	default:
		h.Logger.Error("order operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

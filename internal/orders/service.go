package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/udaricrafts/udari-crafts-golang/internal/database"
	"github.com/udaricrafts/udari-crafts-golang/internal/email"
	"github.com/udaricrafts/udari-crafts-golang/internal/models"
	"github.com/udaricrafts/udari-crafts-golang/internal/payments"
)

// Service owns the order/inventory transaction logic: checkout, the status
// state machine with its compensating stock actions, and payment
// verification. Concurrency correctness comes entirely from row locks
// (SELECT ... FOR UPDATE) inside short-lived transactions; there are no
// application-level mutexes here.
type Service struct {
	DB      *sql.DB
	Logger  *zap.Logger
	Mailer  email.Sender
	Gateway payments.Gateway
}

func NewService(db *sql.DB, logger *zap.Logger, mailer email.Sender, gateway payments.Gateway) *Service {
	return &Service{DB: db, Logger: logger, Mailer: mailer, Gateway: gateway}
}

// LineInput is one requested line of a checkout.
type LineInput struct {
	ProductID      int64 `json:"productId" binding:"required"`
	BuyingQuantity int   `json:"buyingQuantity" binding:"required,gt=0"`
}

// CreateOrderInput carries the customer contact fields and the requested
// lines for one checkout.
type CreateOrderInput struct {
	CustomerName  string      `json:"customerName" binding:"required"`
	CustomerEmail string      `json:"customerEmail" binding:"required,email"`
	CustomerPhone string      `json:"customerPhone" binding:"required"`
	Address       string      `json:"address" binding:"required"`
	Items         []LineInput `json:"items" binding:"required"`
}

// CreateOrder places an order atomically: it locks every referenced product
// row, validates stock with a strict < check (buying exactly the remaining
// stock is allowed), computes discounted line totals, decrements stock and
// persists the order, its items and a pending payment record — all in one
// transaction. On any failure nothing is written. The confirmation email is
// sent only after commit and its failure is swallowed.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// Collapse duplicate product lines so the stock check sees the full
	// requested quantity per product, not each line in isolation.
	qtyByProduct := make(map[int64]int, len(in.Items))
	ids := make([]int64, 0, len(in.Items))
	for _, line := range in.Items {
		if line.ProductID <= 0 || line.BuyingQuantity <= 0 {
			return nil, ErrMalformedLine
		}
		if _, seen := qtyByProduct[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		qtyByProduct[line.ProductID] += line.BuyingQuantity
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber:   uuid.NewString(),
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Address:       in.Address,
		Status:        models.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		products, err := lockProductsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(ids))
		for _, id := range ids {
			p, ok := products[id]
			if !ok {
				return &ProductNotFoundError{ProductID: id}
			}
			qty := qtyByProduct[id]
			if p.Quantity < qty {
				return &InsufficientStockError{
					ProductID: p.ID,
					Name:      p.Name,
					Available: p.Quantity,
					Requested: qty,
				}
			}

			unit := p.DiscountedPrice()
			total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    qty,
				UnitPrice:   unit,
				CreatedAt:   now,
			})
		}
		order.Total = total

		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET quantity = quantity - ?, updated_at = ? WHERE id = ?`,
				qtyByProduct[id], now, id,
			); err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", id, err)
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders
			(order_number, customer_name, customer_email, customer_phone, address, total, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.OrderNumber, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
			order.Address, order.Total, order.Status, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		orderID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		order.ID = orderID

		for i := range items {
			items[i].OrderID = orderID
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				orderID, items[i].ProductID, items[i].ProductName, items[i].Quantity, items[i].UnitPrice, now,
			); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		order.Items = items

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payment_details (order_id, amount, payment_type, status, transaction_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, '', ?, ?)`,
			orderID, order.Total, "card", models.PaymentPending, now, now,
		); err != nil {
			return fmt.Errorf("insert payment record: %w", err)
		}

		return addNotification(ctx, tx,
			fmt.Sprintf("New order %s from %s", order.OrderNumber, order.CustomerName),
			fmt.Sprintf("/admin/orders/%d", orderID),
		)
	})
	if err != nil {
		return nil, err
	}

	subject, body := email.OrderConfirmation(order)
	if err := s.Mailer.Send(order.CustomerEmail, subject, body); err != nil {
		s.Logger.Warn("order confirmation email failed",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}

	return order, nil
}

// UpdateStatus transitions an order through the status state machine.
// Entering cancelled restores every item's stock; leaving cancelled
// re-reserves it with the same lock-and-check discipline as checkout and
// aborts the whole transition if any product is short. All stock mutations
// and the status write share one transaction, so stock always reflects
// exactly the orders currently in a non-cancelled state.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, newStatus models.OrderStatus) (*models.Order, error) {
	var order models.Order
	now := time.Now()

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT id, order_number, customer_name, customer_email, customer_phone, address, total, status, created_at, updated_at
			FROM orders WHERE id = ? FOR UPDATE`, orderID,
		).Scan(
			&order.ID, &order.OrderNumber, &order.CustomerName, &order.CustomerEmail,
			&order.CustomerPhone, &order.Address, &order.Total, &order.Status,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}

		current := order.Status
		if !current.CanTransitionTo(newStatus) {
			return &InvalidTransitionError{From: current, To: newStatus}
		}

		switch {
		case current != models.OrderCancelled && newStatus == models.OrderCancelled:
			if err := s.restoreStock(ctx, tx, orderID, now); err != nil {
				return err
			}
		case current == models.OrderCancelled && newStatus != models.OrderCancelled:
			if err := s.reserveStock(ctx, tx, orderID, now); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
			newStatus, now, orderID,
		); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.Status = newStatus
		order.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	subject, body := email.StatusUpdate(&order)
	if err := s.Mailer.Send(order.CustomerEmail, subject, body); err != nil {
		s.Logger.Warn("status update email failed",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}

	return &order, nil
}

// restoreStock gives every item's quantity back to its product. Restoring
// cannot fail on capacity grounds, but the rows are still locked so a
// concurrent checkout serializes against the restore.
func (s *Service) restoreStock(ctx context.Context, tx *sql.Tx, orderID int64, now time.Time) error {
	items, err := loadOrderItems(ctx, tx, orderID)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	if _, err := lockProductsForUpdate(ctx, tx, ids); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity + ?, updated_at = ? WHERE id = ?`,
			it.Quantity, now, it.ProductID,
		); err != nil {
			return fmt.Errorf("restore stock for product %d: %w", it.ProductID, err)
		}
	}
	return nil
}

// reserveStock re-takes the stock of a reactivated order. The whole per-order
// pass runs inside the caller's transaction: if any product is short the
// first shortage aborts everything, so no partial decrement can persist.
func (s *Service) reserveStock(ctx context.Context, tx *sql.Tx, orderID int64, now time.Time) error {
	items, err := loadOrderItems(ctx, tx, orderID)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := lockProductsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: it.ProductID}
		}
		if p.Quantity < it.Quantity {
			return &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Quantity,
				Requested: it.Quantity,
			}
		}
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - ?, updated_at = ? WHERE id = ?`,
			it.Quantity, now, it.ProductID,
		); err != nil {
			return fmt.Errorf("reserve stock for product %d: %w", it.ProductID, err)
		}
	}
	return nil
}

// UpdatePaymentStatus sets the payment record's status directly (admin
// action, e.g. marking a refund).
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID int64, status models.PaymentStatus) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payment_details SET status = ?, updated_at = ? WHERE order_id = ?`,
		status, time.Now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// VerifyPayment reconciles an external checkout session with the order's
// payment record. It runs outside the checkout transaction and tolerates
// repeated invocations: re-confirming the same session after success is a
// safe no-op, while a different session id for the same order is rejected
// as a mismatch.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string, orderID int64) (*models.Order, error) {
	status, err := s.Gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	if status != payments.SessionPaid {
		return nil, ErrPaymentIncomplete
	}

	var order *models.Order
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		type paymentRow struct {
			id        int64
			status    models.PaymentStatus
			sessionID string
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT id, status, transaction_id FROM payment_details WHERE order_id = ? ORDER BY id`, orderID)
		if err != nil {
			return fmt.Errorf("load payment records: %w", err)
		}
		defer rows.Close()

		var records []paymentRow
		for rows.Next() {
			var r paymentRow
			var txnID sql.NullString
			if err := rows.Scan(&r.id, &r.status, &txnID); err != nil {
				return err
			}
			r.sessionID = txnID.String
			records = append(records, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(records) == 0 {
			return ErrPaymentNotFound
		}

		// Prefer the record already bound to this session; otherwise take an
		// unbound one. A record bound to a different session means someone is
		// replaying a foreign session against this order.
		var target *paymentRow
		for i := range records {
			if records[i].sessionID == sessionID {
				target = &records[i]
				break
			}
		}
		if target == nil {
			for i := range records {
				if records[i].sessionID == "" {
					target = &records[i]
					break
				}
			}
		}
		if target == nil {
			return ErrSessionMismatch
		}

		if target.status != models.PaymentPaid || target.sessionID != sessionID {
			if _, err := tx.ExecContext(ctx,
				`UPDATE payment_details SET status = ?, transaction_id = ?, updated_at = ? WHERE id = ?`,
				models.PaymentPaid, sessionID, time.Now(), target.id,
			); err != nil {
				return fmt.Errorf("mark payment paid: %w", err)
			}
		}

		order, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// lockProductsForUpdate selects the given product rows FOR UPDATE, keyed by
// id. Rows are locked in ascending id order so two overlapping transactions
// always contend in the same sequence. Missing ids are simply absent from
// the result; the caller decides whether that is an error.
func lockProductsForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]*models.Product, error) {
	if len(ids) == 0 {
		return map[int64]*models.Product{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, name, price, discount, quantity FROM products WHERE id IN (%s) ORDER BY id FOR UPDATE`,
		placeholders,
	)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]*models.Product, len(ids))
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Discount, &p.Quantity); err != nil {
			return nil, err
		}
		products[p.ID] = &p
	}
	return products, rows.Err()
}

func loadOrderItems(ctx context.Context, tx *sql.Tx, orderID int64) ([]models.OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, created_at
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func loadOrder(ctx context.Context, tx *sql.Tx, orderID int64) (*models.Order, error) {
	var o models.Order
	err := tx.QueryRowContext(ctx, `
		SELECT id, order_number, customer_name, customer_email, customer_phone, address, total, status, created_at, updated_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.Address, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	items, err := loadOrderItems(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// addNotification inserts an admin-dashboard notification. It must run
// inside the caller's transaction so the alert appears only if the order
// itself commits.
func addNotification(ctx context.Context, tx *sql.Tx, message, link string) error {
	var nullLink sql.NullString
	if link != "" {
		nullLink = sql.NullString{String: link, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO notifications (message, link, is_read, created_at) VALUES (?, ?, 0, ?)`,
		message, nullLink, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

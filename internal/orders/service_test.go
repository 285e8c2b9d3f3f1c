package orders

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
	"github.com/udaricrafts/udari-crafts-golang/internal/payments"
)

// fakeMailer records sends and optionally fails, so tests can assert that
// email failures never affect transaction outcomes.
type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

// stubGateway answers GetSessionStatus with a canned result.
type stubGateway struct {
	status  payments.SessionStatus
	session *payments.Session
	err     error
}

func (g *stubGateway) CreateSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	return g.session, g.err
}

func (g *stubGateway) GetSessionStatus(ctx context.Context, sessionID string) (payments.SessionStatus, error) {
	return g.status, g.err
}

func newTestService(t *testing.T, gateway payments.Gateway) (*Service, sqlmock.Sqlmock, *fakeMailer) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mailer := &fakeMailer{}
	svc := NewService(db, zaptest.NewLogger(t), mailer, gateway)
	return svc, mock, mailer
}

func q(s string) string { return regexp.QuoteMeta(s) }

const lockProductsSQL = `SELECT id, name, price, discount, quantity FROM products WHERE id IN (?) ORDER BY id FOR UPDATE`

func productRows(id int64, name string, price string, discount, quantity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "discount", "quantity"}).
		AddRow(id, name, price, discount, quantity)
}

func orderRow(id int64, status models.OrderStatus, total string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_name", "customer_email", "customer_phone",
		"address", "total", "status", "created_at", "updated_at",
	}).AddRow(id, "ord-123", "Sana", "sana@example.com", "0300-0000000", "12 Craft Lane", total, string(status), now, now)
}

func orderItemRows(orderID int64, items ...models.OrderItem) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "created_at"})
	for i, it := range items {
		rows.AddRow(int64(i+1), orderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice.String(), time.Now())
	}
	return rows
}

func validInput(items ...LineInput) CreateOrderInput {
	return CreateOrderInput{
		CustomerName:  "Sana",
		CustomerEmail: "sana@example.com",
		CustomerPhone: "0300-0000000",
		Address:       "12 Craft Lane",
		Items:         items,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	svc, mock, mailer := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 5))
	mock.ExpectExec(q(`UPDATE products SET quantity = quantity - ?`)).
		WithArgs(5, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO orders`)).
		WithArgs(
			sqlmock.AnyArg(), "Sana", "sana@example.com", "0300-0000000", "12 Craft Lane",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(q(`INSERT INTO order_items`)).
		WithArgs(int64(42), int64(1), "Clay Vase", 5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO payment_details`)).
		WithArgs(int64(42), sqlmock.AnyArg(), "card", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO notifications`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 1, BuyingQuantity: 5}))
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("500.00")), "total was %s", order.Total)
	assert.NotEmpty(t, order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Clay Vase", order.Items[0].ProductName)

	assert.Equal(t, []string{"sana@example.com"}, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_AppliesDiscountBeforeQuantity(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(7)).
		WillReturnRows(productRows(7, "Woven Basket", "200.00", 25, 10))
	mock.ExpectExec(q(`UPDATE products SET quantity = quantity - ?`)).
		WithArgs(2, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO orders`)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(q(`INSERT INTO order_items`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO payment_details`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO notifications`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 7, BuyingQuantity: 2}))
	require.NoError(t, err)

	// (200 - 25%) * 2 = 300
	assert.True(t, order.Total.Equal(decimal.RequireFromString("300")), "total was %s", order.Total)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("150")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_ExactStockAllowed_ThenNextOrderRejected(t *testing.T) {
	// Scenario: quantity 5, order of 5 succeeds (strict < check); the
	// follow-up order of 1 sees 0 and is rejected naming the shortfall.
	svc, mock, mailer := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 0))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 1, BuyingQuantity: 1}))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(1), stockErr.ProductID)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Contains(t, err.Error(), "available 0, requested 1")

	assert.Empty(t, mailer.sent, "no email on a failed order")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_AtomicOnPartialShortage(t *testing.T) {
	// Two lines, second one short: no decrement and no insert may happen.
	svc, mock, _ := newTestService(t, &stubGateway{})

	lockTwo := `SELECT id, name, price, discount, quantity FROM products WHERE id IN (?,?) ORDER BY id FOR UPDATE`
	rows := sqlmock.NewRows([]string{"id", "name", "price", "discount", "quantity"}).
		AddRow(1, "Clay Vase", "100.00", 0, 10).
		AddRow(2, "Jute Rug", "80.00", 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockTwo)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), validInput(
		LineInput{ProductID: 1, BuyingQuantity: 2},
		LineInput{ProductID: 2, BuyingQuantity: 3},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_MergesDuplicateLines(t *testing.T) {
	// Two lines for the same product must be checked as their sum:
	// 3 + 3 = 6 against a stock of 5 fails even though each line fits.
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 5))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), validInput(
		LineInput{ProductID: 1, BuyingQuantity: 3},
		LineInput{ProductID: 1, BuyingQuantity: 3},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "discount", "quantity"}))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 99, BuyingQuantity: 1}))

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_EmptyAndMalformedInput(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGateway{})

	_, err := svc.CreateOrder(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 1, BuyingQuantity: 0}))
	assert.ErrorIs(t, err, ErrMalformedLine)

	_, err = svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 0, BuyingQuantity: 1}))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestCreateOrder_EmailFailureDoesNotFailOrder(t *testing.T) {
	svc, mock, mailer := newTestService(t, &stubGateway{})
	mailer.err = errors.New("smtp down")

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 5))
	mock.ExpectExec(q(`UPDATE products SET quantity = quantity - ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO orders`)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(q(`INSERT INTO order_items`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO payment_details`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q(`INSERT INTO notifications`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := svc.CreateOrder(context.Background(), validInput(LineInput{ProductID: 1, BuyingQuantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	svc, mock, mailer := newTestService(t, &stubGateway{})

	item := models.OrderItem{ProductID: 1, ProductName: "Clay Vase", Quantity: 5, UnitPrice: decimal.RequireFromString("100.00")}

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(42)).
		WillReturnRows(orderRow(42, models.OrderPending, "500.00"))
	mock.ExpectQuery(q(`FROM order_items WHERE order_id = ?`)).
		WithArgs(int64(42)).
		WillReturnRows(orderItemRows(42, item))
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 0))
	mock.ExpectExec(q(`UPDATE products SET quantity = quantity + ?`)).
		WithArgs(5, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE orders SET status = ?`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.UpdateStatus(context.Background(), 42, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
	assert.Equal(t, []string{"sana@example.com"}, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_ReactivationReservesStock(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	item := models.OrderItem{ProductID: 1, ProductName: "Clay Vase", Quantity: 5, UnitPrice: decimal.RequireFromString("100.00")}

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(42)).
		WillReturnRows(orderRow(42, models.OrderCancelled, "500.00"))
	mock.ExpectQuery(q(`FROM order_items WHERE order_id = ?`)).
		WithArgs(int64(42)).
		WillReturnRows(orderItemRows(42, item))
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 5))
	mock.ExpectExec(q(`UPDATE products SET quantity = quantity - ?`)).
		WithArgs(5, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE orders SET status = ?`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.UpdateStatus(context.Background(), 42, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_ReactivationFailsWhenStockConsumed(t *testing.T) {
	// Scenario: while the order was cancelled another checkout took 2 of
	// the 5 restored units. Reactivation must fail, roll everything back
	// and leave the order cancelled.
	svc, mock, mailer := newTestService(t, &stubGateway{})

	item := models.OrderItem{ProductID: 1, ProductName: "Clay Vase", Quantity: 5, UnitPrice: decimal.RequireFromString("100.00")}

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(42)).
		WillReturnRows(orderRow(42, models.OrderCancelled, "500.00"))
	mock.ExpectQuery(q(`FROM order_items WHERE order_id = ?`)).
		WithArgs(int64(42)).
		WillReturnRows(orderItemRows(42, item))
	mock.ExpectQuery(q(lockProductsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(productRows(1, "Clay Vase", "100.00", 0, 3))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 42, models.OrderPending)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Empty(t, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_PlainTransitionTouchesNoStock(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(42)).
		WillReturnRows(orderRow(42, models.OrderPending, "500.00"))
	mock.ExpectExec(q(`UPDATE orders SET status = ?`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.UpdateStatus(context.Background(), 42, models.OrderProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_DeliveredIsTerminal(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(42)).
		WillReturnRows(orderRow(42, models.OrderDelivered, "500.00"))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 42, models.OrderCancelled)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectBegin()
	mock.ExpectQuery(q(`FROM orders WHERE id = ? FOR UPDATE`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 404, models.OrderProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const paymentRowsSQL = `SELECT id, status, transaction_id FROM payment_details WHERE order_id = ? ORDER BY id`

func expectLoadOrder(mock sqlmock.Sqlmock, orderID int64) {
	mock.ExpectQuery(q(`FROM orders WHERE id = ?`)).
		WithArgs(orderID).
		WillReturnRows(orderRow(orderID, models.OrderPending, "500.00"))
	mock.ExpectQuery(q(`FROM order_items WHERE order_id = ?`)).
		WithArgs(orderID).
		WillReturnRows(orderItemRows(orderID, models.OrderItem{
			ProductID: 1, ProductName: "Clay Vase", Quantity: 5,
			UnitPrice: decimal.RequireFromString("100.00"),
		}))
}

func TestVerifyPayment_UnpaidSessionIsReadOnly(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{status: payments.SessionUnpaid})

	_, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)
	assert.ErrorIs(t, err, ErrPaymentIncomplete)
	assert.NoError(t, mock.ExpectationsWereMet(), "no DB access on an unpaid session")
}

func TestVerifyPayment_MarksPaymentPaid(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{status: payments.SessionPaid})

	mock.ExpectBegin()
	mock.ExpectQuery(q(paymentRowsSQL)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "transaction_id"}).
			AddRow(7, string(models.PaymentPending), ""))
	mock.ExpectExec(q(`UPDATE payment_details SET status = ?, transaction_id = ?`)).
		WithArgs(sqlmock.AnyArg(), "cs_test_1", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectLoadOrder(mock, 42)
	mock.ExpectCommit()

	order, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPayment_SecondCallIsNoOp(t *testing.T) {
	// The record is already paid and bound to the same session: verifying
	// again must succeed without writing anything.
	svc, mock, _ := newTestService(t, &stubGateway{status: payments.SessionPaid})

	mock.ExpectBegin()
	mock.ExpectQuery(q(paymentRowsSQL)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "transaction_id"}).
			AddRow(7, string(models.PaymentPaid), "cs_test_1"))
	expectLoadOrder(mock, 42)
	mock.ExpectCommit()

	order, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPayment_SessionMismatchRejected(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{status: payments.SessionPaid})

	mock.ExpectBegin()
	mock.ExpectQuery(q(paymentRowsSQL)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "transaction_id"}).
			AddRow(7, string(models.PaymentPaid), "cs_other_session"))
	mock.ExpectRollback()

	_, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)
	assert.ErrorIs(t, err, ErrSessionMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPayment_NoPaymentRecord(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{status: payments.SessionPaid})

	mock.ExpectBegin()
	mock.ExpectQuery(q(paymentRowsSQL)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "transaction_id"}))
	mock.ExpectRollback()

	_, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPayment_GatewayFailure(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{err: errors.New("stripe 500")})

	_, err := svc.VerifyPayment(context.Background(), "cs_test_1", 42)

	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, mock, _ := newTestService(t, &stubGateway{})

	mock.ExpectExec(q(`UPDATE payment_details SET status = ?`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.UpdatePaymentStatus(context.Background(), 42, models.PaymentRefunded))

	mock.ExpectExec(q(`UPDATE payment_details SET status = ?`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdatePaymentStatus(context.Background(), 404, models.PaymentRefunded)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

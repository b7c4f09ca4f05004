package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

var (
	ErrOpenOrderNotFound      = errors.New("open order not found")
	ErrOpenOrderAlreadyExists = errors.New("open order already exists")
)

// OpenOrderRepository persists the correlation records of in-flight sagas.
// Both payment_id and order_id carry unique keys: one saga per payment, one
// saga per order.
type OpenOrderRepository struct {
	db DBTX
}

func NewOpenOrderRepository(db DBTX) *OpenOrderRepository {
	return &OpenOrderRepository{db: db}
}

func (r *OpenOrderRepository) Create(ctx context.Context, openOrder *entity.OpenOrder) error {
	orderJSON, err := serializeJSON(openOrder.Order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO open_orders (payment_id, order_id, order_json, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		openOrder.PaymentID,
		openOrder.OrderID,
		orderJSON,
		openOrder.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOpenOrderAlreadyExists
		}
		return err
	}

	return nil
}

func (r *OpenOrderRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.OpenOrder, error) {
	query := `
		SELECT payment_id, order_id, order_json, created_at
		FROM open_orders
		WHERE payment_id = ?
	`

	openOrder := &entity.OpenOrder{}
	var orderJSON string
	row := r.db.QueryRowContext(ctx, query, paymentID)
	if err := row.Scan(&openOrder.PaymentID, &openOrder.OrderID, &orderJSON, &openOrder.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var order types.OrderContext
	if err := json.Unmarshal([]byte(orderJSON), &order); err != nil {
		return nil, err
	}
	openOrder.Order = order

	return openOrder, nil
}

func (r *OpenOrderRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM open_orders WHERE order_id = ?`, orderID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OpenOrderRepository) DeleteByPaymentID(ctx context.Context, paymentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM open_orders WHERE payment_id = ?`, paymentID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOpenOrderNotFound
	}

	return nil
}

func (r *OpenOrderRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM open_orders WHERE order_id = ?`, orderID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOpenOrderNotFound
	}

	return nil
}

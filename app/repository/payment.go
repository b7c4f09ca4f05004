package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment already exists")
)

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			id, payment_information_id, total_amount, status, payed_at,
			number_of_retries, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.PaymentInformationID,
		payment.TotalAmount,
		string(payment.Status),
		nullableTimeValue(payment.PayedAt),
		payment.NumberOfRetries,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPaymentAlreadyExists
		}
		return err
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	query := `
		SELECT id, payment_information_id, total_amount, status, payed_at,
			number_of_retries, created_at, updated_at
		FROM payments
		WHERE id = ?
	`

	payment := &entity.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// UpdateStatus writes the new status and, only when payedAt is non-nil,
// stamps the payment timestamp. It is the sole writer of the status column
// outside of UpdateStatusIfPending.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status types.PaymentStatus, payedAt *time.Time, now time.Time) error {
	var (
		result sql.Result
		err    error
	)

	if payedAt != nil {
		query := `UPDATE payments SET status = ?, payed_at = ?, updated_at = ? WHERE id = ?`
		result, err = r.db.ExecContext(ctx, query, string(status), *payedAt, now, id)
	} else {
		query := `UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`
		result, err = r.db.ExecContext(ctx, query, string(status), now, id)
	}
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// UpdateStatusIfPending is the compare-and-set transition used by the sweep:
// the status only changes if the row is still PENDING, so a concurrent
// provider callback cannot be overwritten. Returns whether the transition
// was applied.
func (r *PaymentRepository) UpdateStatusIfPending(ctx context.Context, id string, status types.PaymentStatus, now time.Time) (bool, error) {
	query := `UPDATE payments SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, string(status), now, id, string(types.PaymentStatusPending))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// IncrementRetries bumps number_of_retries by one and returns the new value.
// The increment is a single-row atomic update; the follow-up read may observe
// a later increment, which only makes the retry budget stricter.
func (r *PaymentRepository) IncrementRetries(ctx context.Context, id string, now time.Time) (int32, error) {
	query := `UPDATE payments SET number_of_retries = number_of_retries + 1, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrPaymentNotFound
	}

	var retries int32
	row := r.db.QueryRowContext(ctx, `SELECT number_of_retries FROM payments WHERE id = ?`, id)
	if err := row.Scan(&retries); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPaymentNotFound
		}
		return 0, err
	}

	return retries, nil
}

func (r *PaymentRepository) ListOverduePending(ctx context.Context, method types.PaymentMethod, cutoff time.Time, limit int32) ([]*entity.Payment, error) {
	query := `
		SELECT p.id, p.payment_information_id, p.total_amount, p.status, p.payed_at,
			p.number_of_retries, p.created_at, p.updated_at
		FROM payments p
		JOIN payment_informations pi ON pi.id = p.payment_information_id
		WHERE p.status = ?
		  AND pi.payment_method = ?
		  AND p.created_at <= ?
		ORDER BY p.created_at ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, string(types.PaymentStatusPending), string(method), cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		item := &entity.Payment{}
		if err := scanPayment(rows, item); err != nil {
			return nil, err
		}
		payments = append(payments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(scan rowScanner, payment *entity.Payment) error {
	var status string
	var payedAt sql.NullTime

	if err := scan.Scan(
		&payment.ID,
		&payment.PaymentInformationID,
		&payment.TotalAmount,
		&status,
		&payedAt,
		&payment.NumberOfRetries,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return err
	}

	payment.Status = types.PaymentStatus(status)
	payment.PayedAt = timePtrFromNull(payedAt)
	return nil
}

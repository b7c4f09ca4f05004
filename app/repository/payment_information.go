package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

var ErrPaymentInformationAlreadyExists = errors.New("payment information already exists")

type PaymentInformationRepository struct {
	db DBTX
}

func NewPaymentInformationRepository(db DBTX) *PaymentInformationRepository {
	return &PaymentInformationRepository{db: db}
}

func (r *PaymentInformationRepository) Create(ctx context.Context, info *entity.PaymentInformation) error {
	detailsJSON, err := serializeJSON(info.MethodDetails)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payment_informations (id, user_id, payment_method, method_details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		info.ID,
		info.UserID,
		string(info.PaymentMethod),
		detailsJSON,
		info.CreatedAt,
		info.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPaymentInformationAlreadyExists
		}
		return err
	}

	return nil
}

func (r *PaymentInformationRepository) FindByID(ctx context.Context, id string) (*entity.PaymentInformation, error) {
	query := `
		SELECT id, user_id, payment_method, method_details, created_at, updated_at
		FROM payment_informations
		WHERE id = ?
	`

	info := &entity.PaymentInformation{}
	var method string
	var detailsJSON sql.NullString
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&info.ID, &info.UserID, &method, &detailsJSON, &info.CreatedAt, &info.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	info.PaymentMethod = types.PaymentMethod(method)

	details, err := parseDetails(detailsJSON)
	if err != nil {
		return nil, err
	}
	info.MethodDetails = details

	return info, nil
}

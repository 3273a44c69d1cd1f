package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

func (s *_Storage) PaymentExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}

	query := `SELECT EXISTS (SELECT 1 FROM payment WHERE id = $1)`
	var exists bool
	if err := pgTx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *_Storage) GetPayment(ctx context.Context, tx storage.Tx, id string) (model.Payment, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return model.Payment{}, err
	}

	query := `SELECT doc FROM payment WHERE id = $1` + pgTx.lockClause()
	var payment model.Payment
	err = pgTx.QueryRow(ctx, query, id).Scan(&payment)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Payment{}, fmt.Errorf("%s: %w", id, model.ErrPaymentNotFound)
	}
	if err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}

func (s *_Storage) AddPayment(ctx context.Context, tx storage.Tx, payment model.Payment) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	INSERT INTO payment (id, "version", created_at, updated_at, doc)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, "version", updated_at, doc
)
INSERT INTO payment_history (id, "version", created_at, doc)
SELECT * FROM new_data
`
	_, err = pgTx.Exec(ctx, query, payment.ID, payment.Version, payment.CreatedAt, payment.UpdatedAt, payment)
	return err
}

func (s *_Storage) UpdatePayment(ctx context.Context, tx storage.Tx, payment model.Payment) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	UPDATE payment SET
		"version" = $2,
		updated_at = $3,
		doc = $4
	WHERE id = $1
	RETURNING id, "version", updated_at, doc
)
INSERT INTO payment_history (id, "version", created_at, doc)
SELECT * FROM new_data
`
	result, err := pgTx.Exec(ctx, query, payment.ID, payment.Version, payment.UpdatedAt, payment)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", payment.ID, model.ErrPaymentNotFound)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

func (s *_Storage) BillOfLadingExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}

	query := `SELECT EXISTS (SELECT 1 FROM bill_of_lading WHERE id = $1)`
	var exists bool
	if err := pgTx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *_Storage) GetBillOfLading(ctx context.Context, tx storage.Tx, id string) (model.BillOfLading, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return model.BillOfLading{}, err
	}

	query := `SELECT doc FROM bill_of_lading WHERE id = $1` + pgTx.lockClause()
	var bl model.BillOfLading
	err = pgTx.QueryRow(ctx, query, id).Scan(&bl)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BillOfLading{}, fmt.Errorf("%s: %w", id, model.ErrBillOfLadingNotFound)
	}
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (s *_Storage) AddBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	INSERT INTO bill_of_lading (id, "version", status, port_call_id, offices, created_at, updated_at, doc)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, "version", status, updated_at, doc
)
INSERT INTO bill_of_lading_history (id, "version", status, created_at, doc)
SELECT * FROM new_data
`
	_, err = pgTx.Exec(ctx, query, bl.ID, bl.Version, bl.Status, bl.PortCallID, bl.InvolvedOffices(), bl.CreatedAt, bl.UpdatedAt, bl)
	return err
}

func (s *_Storage) UpdateBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	UPDATE bill_of_lading SET
		"version" = $2,
		status = $3,
		port_call_id = $4,
		offices = $5,
		updated_at = $6,
		doc = $7
	WHERE id = $1
	RETURNING id, "version", status, updated_at, doc
)
INSERT INTO bill_of_lading_history (id, "version", status, created_at, doc)
SELECT * FROM new_data
`
	result, err := pgTx.Exec(ctx, query, bl.ID, bl.Version, bl.Status, bl.PortCallID, bl.InvolvedOffices(), bl.UpdatedAt, bl)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", bl.ID, model.ErrBillOfLadingNotFound)
	}
	return nil
}

// RemoveBillOfLading deletes the live row. The final document stays in bill_of_lading_history.
func (s *_Storage) RemoveBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH old_data AS (
	DELETE FROM bill_of_lading WHERE id = $1
	RETURNING id
)
INSERT INTO bill_of_lading_history (id, "version", status, created_at, doc)
SELECT id, $2::BIGINT, $3::TEXT, $4::BIGINT, $5::JSONB FROM old_data
`
	result, err := pgTx.Exec(ctx, query, bl.ID, bl.Version, bl.Status, bl.UpdatedAt, bl)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", bl.ID, model.ErrBillOfLadingNotFound)
	}
	return nil
}

func (s *_Storage) ListBillOfLading(ctx context.Context, tx storage.Tx, req storage.ListBillOfLadingRequest) (storage.ListBillOfLadingResult, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListBillOfLadingResult{}, err
	}

	query := `
WITH filtered AS (
	SELECT rec_id, doc FROM bill_of_lading
	WHERE
		($3 = '' OR $3 = ANY(offices)) AND
		($4 = '' OR port_call_id = $4) AND
		(COALESCE(array_length($5::TEXT[], 1), 0) = 0 OR status = ANY($5))
)
, paged AS (
	SELECT doc FROM filtered
	ORDER BY rec_id ASC
	OFFSET $1 LIMIT $2
)
, total AS (
	SELECT COUNT(*) AS total FROM filtered
)
SELECT total, doc FROM paged FULL JOIN total ON FALSE
`
	rows, err := pgTx.Query(ctx, query, req.Offset, req.Limit, req.OfficeID, req.PortCallID, req.Statuses)
	if err != nil {
		return storage.ListBillOfLadingResult{}, err
	}
	defer rows.Close()

	result := storage.ListBillOfLadingResult{}
	for rows.Next() {
		var total *int
		var bl *model.BillOfLading
		if err := rows.Scan(&total, &bl); err != nil {
			return storage.ListBillOfLadingResult{}, err
		}
		if total != nil {
			result.Total = *total
		}
		if bl != nil {
			result.Records = append(result.Records, *bl)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListBillOfLadingResult{}, err
	}

	return result, nil
}

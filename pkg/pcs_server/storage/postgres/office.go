package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

func (s *_Storage) StoreOffice(ctx context.Context, tx storage.Tx, office model.Office) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	INSERT INTO office (id, "version", org_code, office_code, created_at, updated_at, office)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		"version" = excluded."version",
		org_code = excluded.org_code,
		office_code = excluded.office_code,
		updated_at = excluded.updated_at,
		office = excluded.office
	RETURNING id, "version", updated_at, office
)
INSERT INTO office_history (id, "version", created_at, office)
SELECT * FROM new_data
`
	_, err = pgTx.Exec(
		ctx,
		query,
		office.ID,
		office.Version,
		office.Organization.Code,
		office.OfficeCode,
		office.CreatedAt,
		office.UpdatedAt,
		office,
	)
	return err
}

func (s *_Storage) GetOffice(ctx context.Context, tx storage.Tx, id string) (model.Office, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return model.Office{}, err
	}

	query := `SELECT office FROM office WHERE id = $1`
	var office model.Office
	err = pgTx.QueryRow(ctx, query, id).Scan(&office)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Office{}, fmt.Errorf("%s: %w", id, model.ErrOfficeNotFound)
	}
	if err != nil {
		return model.Office{}, err
	}
	return office, nil
}

func (s *_Storage) FindOffices(ctx context.Context, tx storage.Tx, organizationCode string, officeCode string) ([]model.Office, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT office FROM office WHERE org_code = $1 AND office_code = $2 ORDER BY rec_id ASC`
	rows, err := pgTx.Query(ctx, query, organizationCode, officeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offices := make([]model.Office, 0)
	for rows.Next() {
		var office model.Office
		if err := rows.Scan(&office); err != nil {
			return nil, err
		}
		offices = append(offices, office)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return offices, nil
}

func (s *_Storage) ListOffices(ctx context.Context, tx storage.Tx, req storage.ListOfficeRequest) (storage.ListOfficeResult, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListOfficeResult{}, err
	}

	query := `
WITH filtered_record AS (
	SELECT rec_id, office FROM office
	WHERE
		(COALESCE(array_length($3::TEXT[], 1), 0) = 0 OR id = ANY($3)) AND
		($4 = '' OR org_code = $4)
)
SELECT
	total,
	office
FROM (SELECT COUNT(*) AS total FROM filtered_record) AS report
FULL OUTER JOIN (SELECT office FROM filtered_record ORDER BY rec_id ASC OFFSET $1 LIMIT $2) AS record ON FALSE
`
	rows, err := pgTx.Query(ctx, query, req.Offset, req.Limit, req.IDs, req.OrganizationCode)
	if err != nil {
		return storage.ListOfficeResult{}, err
	}
	defer rows.Close()

	var res storage.ListOfficeResult
	for rows.Next() {
		var total *int
		var office *model.Office
		if err := rows.Scan(&total, &office); err != nil {
			return storage.ListOfficeResult{}, err
		}
		if total != nil {
			res.Total = *total
		}
		if office != nil {
			res.Records = append(res.Records, *office)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListOfficeResult{}, err
	}
	return res, nil
}

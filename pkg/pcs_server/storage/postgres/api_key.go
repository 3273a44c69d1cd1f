package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

func (s *_Storage) StoreAPIKey(ctx context.Context, tx storage.Tx, key auth.APIKey) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	INSERT INTO api_key (id, "version", office_id, status, created_at, updated_at, api_key)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		"version" = excluded."version",
		office_id = excluded.office_id,
		status = excluded.status,
		updated_at = excluded.updated_at,
		api_key = excluded.api_key
	RETURNING id, "version", updated_at, api_key
)
INSERT INTO api_key_history (id, "version", created_at, api_key)
SELECT * FROM new_data`

	_, err = pgTx.Exec(ctx, query, key.ID, key.Version, key.OfficeID, key.Status, key.CreatedAt, key.UpdatedAt, key)
	return err
}

func (s *_Storage) GetAPIKey(ctx context.Context, tx storage.Tx, id string) (auth.APIKey, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return auth.APIKey{}, err
	}

	query := `SELECT api_key FROM api_key WHERE id = $1`
	key := auth.APIKey{}
	err = pgTx.QueryRow(ctx, query, id).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.APIKey{}, fmt.Errorf("%s: %w", id, model.ErrAPIKeyNotFound)
	}
	if err != nil {
		return auth.APIKey{}, err
	}
	return key, nil
}

func (s *_Storage) ListAPIKeys(ctx context.Context, tx storage.Tx, req auth.ListAPIKeysRequest) (auth.ListAPIKeysResult, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return auth.ListAPIKeysResult{}, err
	}

	query := `
SELECT count(*) OVER (), api_key
FROM api_key
WHERE
	(COALESCE(array_length($3::TEXT[], 1), 0) = 0 OR office_id = ANY($3)) AND
	(COALESCE(array_length($4::TEXT[], 1), 0) = 0 OR status = ANY($4))
ORDER BY rec_id ASC
OFFSET $1 LIMIT $2`

	rows, err := pgTx.Query(ctx, query, req.Offset, req.Limit, req.OfficeIDs, req.Statuses)
	if err != nil {
		return auth.ListAPIKeysResult{}, err
	}
	defer rows.Close()

	result := auth.ListAPIKeysResult{}
	for rows.Next() {
		apiKey := auth.APIKey{}
		if err := rows.Scan(&result.Total, &apiKey); err != nil {
			return auth.ListAPIKeysResult{}, err
		}
		apiKey.HashString = ""
		result.Keys = append(result.Keys, apiKey)
	}
	if err := rows.Err(); err != nil {
		return auth.ListAPIKeysResult{}, err
	}

	return result, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

// orderIndexColumns maps an order kind to the JSON array of the container document that indexes it.
var orderIndexColumns = map[model.OrderKind]string{
	model.OrderKindRelease:    "release_orders",
	model.OrderKindAcceptance: "acceptance_orders",
	model.OrderKindTransport:  "transport_orders",
}

func (s *_Storage) ContainerExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}

	query := `SELECT EXISTS (SELECT 1 FROM container WHERE id = $1)`
	var exists bool
	if err := pgTx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *_Storage) GetContainer(ctx context.Context, tx storage.Tx, id string) (model.Container, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return model.Container{}, err
	}

	query := `SELECT doc FROM container WHERE id = $1` + pgTx.lockClause()
	var cn model.Container
	err = pgTx.QueryRow(ctx, query, id).Scan(&cn)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Container{}, fmt.Errorf("%s: %w", id, model.ErrContainerNotFound)
	}
	if err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (s *_Storage) AddContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	INSERT INTO container (id, bl_id, "version", status, created_at, updated_at, doc)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, "version", status, updated_at, doc
)
INSERT INTO container_history (id, "version", status, created_at, doc)
SELECT * FROM new_data
`
	_, err = pgTx.Exec(ctx, query, cn.ID, cn.BLID, cn.Version, cn.Status, cn.CreatedAt, cn.UpdatedAt, cn)
	return err
}

func (s *_Storage) UpdateContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH new_data AS (
	UPDATE container SET
		"version" = $2,
		status = $3,
		updated_at = $4,
		doc = $5
	WHERE id = $1
	RETURNING id, "version", status, updated_at, doc
)
INSERT INTO container_history (id, "version", status, created_at, doc)
SELECT * FROM new_data
`
	result, err := pgTx.Exec(ctx, query, cn.ID, cn.Version, cn.Status, cn.UpdatedAt, cn)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", cn.ID, model.ErrContainerNotFound)
	}
	return nil
}

// RemoveContainer deletes the live row. The cancelled document stays in container_history.
func (s *_Storage) RemoveContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
WITH old_data AS (
	DELETE FROM container WHERE id = $1
	RETURNING id
)
INSERT INTO container_history (id, "version", status, created_at, doc)
SELECT id, $2::BIGINT, $3::TEXT, $4::BIGINT, $5::JSONB FROM old_data
`
	result, err := pgTx.Exec(ctx, query, cn.ID, cn.Version, cn.Status, cn.UpdatedAt, cn)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", cn.ID, model.ErrContainerNotFound)
	}
	return nil
}

func (s *_Storage) ListContainersByBillOfLading(ctx context.Context, tx storage.Tx, blID string) ([]model.Container, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT doc FROM container WHERE bl_id = $1 ORDER BY rec_id ASC`
	return s.queryContainers(ctx, pgTx, query, blID)
}

func (s *_Storage) FindContainersByOrder(ctx context.Context, tx storage.Tx, kind model.OrderKind, orderID string) ([]model.Container, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	column, ok := orderIndexColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown order kind %q%w", kind, model.ErrInvalidParameter)
	}
	query := fmt.Sprintf(`SELECT doc FROM container WHERE doc->'%s' ? $1 ORDER BY rec_id ASC`, column)
	return s.queryContainers(ctx, pgTx, query, orderID)
}

func (s *_Storage) queryContainers(ctx context.Context, pgTx *_TxWrapper, query string, args ...any) ([]model.Container, error) {
	rows, err := pgTx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	containers := make([]model.Container, 0)
	for rows.Next() {
		var cn model.Container
		if err := rows.Scan(&cn); err != nil {
			return nil, err
		}
		containers = append(containers, cn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return containers, nil
}

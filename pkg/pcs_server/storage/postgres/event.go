package postgres

import (
	"context"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

func (s *_Storage) AddEvent(ctx context.Context, tx storage.Tx, event model.Event) error {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `INSERT INTO event (id, "type", subject_id, offices, created_at, event) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = pgTx.Exec(ctx, query, event.ID, event.Type, event.SubjectID, event.Offices, event.CreatedAt, event)
	return err
}

func (s *_Storage) ListEventFeed(ctx context.Context, tx storage.Tx, req storage.ListEventRequest) (storage.ListEventResult, error) {
	pgTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListEventResult{}, err
	}

	query := `
SELECT rec_id, event FROM event
WHERE
	rec_id > $1 AND
	($3 = '' OR $3 = ANY(offices))
ORDER BY rec_id ASC
LIMIT $2`
	rows, err := pgTx.Query(ctx, query, req.After, req.Limit, req.OfficeID)
	if err != nil {
		return storage.ListEventResult{}, err
	}
	defer rows.Close()

	result := storage.ListEventResult{Events: make([]model.Event, 0), MaxOffset: req.After}
	for rows.Next() {
		var recID int64
		var event model.Event
		if err := rows.Scan(&recID, &event); err != nil {
			return storage.ListEventResult{}, err
		}
		event.Offset = recID
		result.Events = append(result.Events, event)
		result.MaxOffset = recID
	}
	if err := rows.Err(); err != nil {
		return storage.ListEventResult{}, err
	}
	return result, nil
}

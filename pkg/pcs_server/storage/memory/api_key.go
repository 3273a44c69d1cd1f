package memory

import (
	"context"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

func (s *_Storage) StoreAPIKey(ctx context.Context, tx storage.Tx, key auth.APIKey) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	return memTx.state.put(memTx.state.apiKeys, key.ID, key)
}

func (s *_Storage) GetAPIKey(ctx context.Context, tx storage.Tx, id string) (auth.APIKey, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return auth.APIKey{}, err
	}
	key, ok, err := get[auth.APIKey](memTx.state.apiKeys, id)
	if err != nil {
		return auth.APIKey{}, err
	}
	if !ok {
		return auth.APIKey{}, fmt.Errorf("%s: %w", id, model.ErrAPIKeyNotFound)
	}
	return key, nil
}

func (s *_Storage) ListAPIKeys(ctx context.Context, tx storage.Tx, req auth.ListAPIKeysRequest) (auth.ListAPIKeysResult, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return auth.ListAPIKeysResult{}, err
	}
	keys, err := scan(memTx.state.apiKeys, func(key auth.APIKey) bool {
		if len(req.OfficeIDs) > 0 && !lo.Contains(req.OfficeIDs, key.OfficeID) {
			return false
		}
		return len(req.Statuses) == 0 || lo.Contains(req.Statuses, key.Status)
	})
	if err != nil {
		return auth.ListAPIKeysResult{}, err
	}
	page := paginate(keys, req.Offset, req.Limit)
	for i := range page {
		page[i].HashString = ""
	}
	return auth.ListAPIKeysResult{Total: len(keys), Keys: page}, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

func (s *_Storage) StoreOffice(ctx context.Context, tx storage.Tx, office model.Office) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	return memTx.state.put(memTx.state.offices, office.ID, office)
}

func (s *_Storage) GetOffice(ctx context.Context, tx storage.Tx, id string) (model.Office, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return model.Office{}, err
	}
	office, ok, err := get[model.Office](memTx.state.offices, id)
	if err != nil {
		return model.Office{}, err
	}
	if !ok {
		return model.Office{}, fmt.Errorf("%s: %w", id, model.ErrOfficeNotFound)
	}
	return office, nil
}

func (s *_Storage) FindOffices(ctx context.Context, tx storage.Tx, organizationCode string, officeCode string) ([]model.Office, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	return scan(memTx.state.offices, func(office model.Office) bool {
		return office.Organization.Code == organizationCode && office.OfficeCode == officeCode
	})
}

func (s *_Storage) ListOffices(ctx context.Context, tx storage.Tx, req storage.ListOfficeRequest) (storage.ListOfficeResult, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListOfficeResult{}, err
	}
	records, err := scan(memTx.state.offices, func(office model.Office) bool {
		if len(req.IDs) > 0 && !lo.Contains(req.IDs, office.ID) {
			return false
		}
		return req.OrganizationCode == "" || office.Organization.Code == req.OrganizationCode
	})
	if err != nil {
		return storage.ListOfficeResult{}, err
	}
	return storage.ListOfficeResult{
		Total:   len(records),
		Records: paginate(records, req.Offset, req.Limit),
	}, nil
}

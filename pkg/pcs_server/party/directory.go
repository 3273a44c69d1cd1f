package party

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/util"
)

type RegisterOfficeRequest struct {
	Requester string `json:"requester"`

	Organization model.Organization `json:"organization"`
	OfficeCode   string             `json:"office_code"`
	Types        []model.OfficeType `json:"types"`
	AgentOf      []string           `json:"agent_of"`
	Address      string             `json:"address"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
}

type UpdateOfficeRequest struct {
	RegisterOfficeRequest
	ID string `json:"id"`
}

type ListOfficesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	IDs              []string `json:"ids"`
	OrganizationCode string   `json:"organization_code"`
}

type ListOfficesResult struct {
	Total   int            `json:"total"`
	Records []model.Office `json:"records"`
}

// Directory maintains the offices of the port community.
type Directory interface {
	RegisterOffice(ctx context.Context, ts int64, req RegisterOfficeRequest) (model.Office, error)
	UpdateOffice(ctx context.Context, ts int64, req UpdateOfficeRequest) (model.Office, error)
	GetOffice(ctx context.Context, id string) (model.Office, error)
	ListOffices(ctx context.Context, req ListOfficesRequest) (ListOfficesResult, error)
}

type _Directory struct {
	storage storage.OfficeStorage
}

func NewDirectory(storage storage.OfficeStorage) Directory {
	return &_Directory{storage: storage}
}

func (d *_Directory) RegisterOffice(ctx context.Context, ts int64, req RegisterOfficeRequest) (model.Office, error) {
	if err := ValidateRegisterOfficeRequest(req); err != nil {
		return model.Office{}, err
	}

	tx, ctx, err := d.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Office{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := d.storage.FindOffices(ctx, tx, req.Organization.Code, req.OfficeCode)
	if err != nil {
		return model.Office{}, err
	}
	if len(existing) > 0 {
		return model.Office{}, fmt.Errorf("%s/%s: %w", req.Organization.Code, req.OfficeCode, model.ErrOfficeAlreadyExists)
	}

	office := model.Office{
		ID:           util.NewUUID(),
		Version:      1,
		Organization: req.Organization,
		OfficeCode:   req.OfficeCode,
		Types:        req.Types,
		AgentOf:      req.AgentOf,
		Address:      req.Address,
		Email:        req.Email,
		Phone:        req.Phone,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := d.storage.StoreOffice(ctx, tx, office); err != nil {
		return model.Office{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Office{}, err
	}
	return office, nil
}

func (d *_Directory) UpdateOffice(ctx context.Context, ts int64, req UpdateOfficeRequest) (model.Office, error) {
	if err := ValidateUpdateOfficeRequest(req); err != nil {
		return model.Office{}, err
	}

	tx, ctx, err := d.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Office{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	office, err := d.storage.GetOffice(ctx, tx, req.ID)
	if err != nil {
		return model.Office{}, err
	}

	// The organization and the office code identify the office and never change.
	office.Version++
	office.Organization.Name = req.Organization.Name
	office.Types = req.Types
	office.AgentOf = req.AgentOf
	office.Address = req.Address
	office.Email = req.Email
	office.Phone = req.Phone
	office.UpdatedAt = ts
	if err := d.storage.StoreOffice(ctx, tx, office); err != nil {
		return model.Office{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Office{}, err
	}
	return office, nil
}

func (d *_Directory) GetOffice(ctx context.Context, id string) (model.Office, error) {
	tx, ctx, err := d.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return model.Office{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	return d.storage.GetOffice(ctx, tx, id)
}

func (d *_Directory) ListOffices(ctx context.Context, req ListOfficesRequest) (ListOfficesResult, error) {
	if err := ValidateListOfficesRequest(req); err != nil {
		return ListOfficesResult{}, err
	}

	tx, ctx, err := d.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return ListOfficesResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := d.storage.ListOffices(ctx, tx, storage.ListOfficeRequest{
		Offset:           req.Offset,
		Limit:            req.Limit,
		IDs:              req.IDs,
		OrganizationCode: req.OrganizationCode,
	})
	if err != nil {
		return ListOfficesResult{}, err
	}
	return ListOfficesResult{Total: result.Total, Records: result.Records}, nil
}

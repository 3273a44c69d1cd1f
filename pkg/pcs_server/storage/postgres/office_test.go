package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/postgres"
	"github.com/stretchr/testify/suite"
)

type OfficeStorageTestSuite struct {
	BaseTestSuite
	storage storage.OfficeStorage
}

func TestOfficeStorage(t *testing.T) {
	suite.Run(t, new(OfficeStorageTestSuite))
}

func (s *OfficeStorageTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()
	s.storage = postgres.NewStorageWithPool(s.pgPool)
	s.loadFixtures("testdata/office")
}

func (s *OfficeStorageTestSuite) TestStoreOffice() {
	office := model.Office{
		ID:           "office-holder",
		Version:      1,
		Organization: model.Organization{Code: "HOLDER"},
		Types:        []model.OfficeType{model.OfficeTypeConsignee},
		CreatedAt:    1717977600,
		UpdatedAt:    1717977600,
	}

	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	s.Require().NoError(s.storage.StoreOffice(ctx, tx, office))
	updated := office
	updated.Version = 2
	updated.Email = "ops@holder.example"
	updated.UpdatedAt = 1717981200
	s.Require().NoError(s.storage.StoreOffice(ctx, tx, updated))
	s.Require().NoError(tx.Commit(ctx))

	var versions int
	s.Require().NoError(s.pgPool.QueryRow(s.ctx, `SELECT COUNT(*) FROM office_history WHERE id = $1`, office.ID).Scan(&versions))
	s.Equal(2, versions)

	tx, ctx, err = s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(false))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()
	stored, err := s.storage.GetOffice(ctx, tx, office.ID)
	s.Require().NoError(err)
	s.Equal(updated, stored)
}

func (s *OfficeStorageTestSuite) TestGetOffice() {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(false))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	office, err := s.storage.GetOffice(ctx, tx, "office-agent")
	s.Require().NoError(err)
	s.Equal("AGENT", office.Organization.Code)
	s.Equal([]string{"CARR"}, office.AgentOf)

	_, err = s.storage.GetOffice(ctx, tx, "office-unknown")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *OfficeStorageTestSuite) TestFindOffices() {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(false))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	offices, err := s.storage.FindOffices(ctx, tx, "AGENT", "")
	s.Require().NoError(err)
	s.Require().Len(offices, 1)
	s.Equal("office-agent", offices[0].ID)

	offices, err = s.storage.FindOffices(ctx, tx, "AGENT", "VLC")
	s.Require().NoError(err)
	s.Require().Len(offices, 1)
	s.Equal("office-agent-vlc", offices[0].ID)

	offices, err = s.storage.FindOffices(ctx, tx, "NOBODY", "")
	s.Require().NoError(err)
	s.Empty(offices)
}

func (s *OfficeStorageTestSuite) TestListOffices() {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(false))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.storage.ListOffices(ctx, tx, storage.ListOfficeRequest{Limit: 10})
	s.Require().NoError(err)
	s.Equal(3, res.Total)
	s.Require().Len(res.Records, 3)
	s.Equal("office-carrier", res.Records[0].ID)

	res, err = s.storage.ListOffices(ctx, tx, storage.ListOfficeRequest{Offset: 1, Limit: 1, OrganizationCode: "AGENT"})
	s.Require().NoError(err)
	s.Equal(2, res.Total)
	s.Require().Len(res.Records, 1)
	s.Equal("office-agent-vlc", res.Records[0].ID)

	res, err = s.storage.ListOffices(ctx, tx, storage.ListOfficeRequest{Limit: 10, IDs: []string{"office-carrier"}})
	s.Require().NoError(err)
	s.Equal(1, res.Total)
	s.Equal("Carrier Lines", res.Records[0].Organization.Name)
}

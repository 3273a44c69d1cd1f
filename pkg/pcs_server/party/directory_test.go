package party_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	mock_storage "github.com/openpcs/openpcs/test/mock/pcs_server/storage"
	"github.com/stretchr/testify/suite"
)

type DirectoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	storage   *mock_storage.MockOfficeStorage
	tx        *mock_storage.MockTx
	directory party.Directory
}

func TestDirectory(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}

func (s *DirectoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockOfficeStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.directory = party.NewDirectory(s.storage)
}

func (s *DirectoryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DirectoryTestSuite) TestRegisterOffice() {
	ts := int64(1717977600)
	req := party.RegisterOfficeRequest{
		Requester:    "admin",
		Organization: model.Organization{Code: "AGENT", Name: "Agent Co."},
		OfficeCode:   "VLC",
		Types:        []model.OfficeType{model.OfficeTypeShippingAgent},
		AgentOf:      []string{"CARR"},
		Email:        "ops@agent.example",
	}

	var stored model.Office
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().FindOffices(gomock.Any(), s.tx, "AGENT", "VLC").Return(nil, nil),
		s.storage.EXPECT().StoreOffice(gomock.Any(), s.tx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, office model.Office) error {
				stored = office
				return nil
			},
		),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	office, err := s.directory.RegisterOffice(s.ctx, ts, req)
	s.Require().NoError(err)
	s.NotEmpty(office.ID)
	s.Equal(int64(1), office.Version)
	s.Equal([]string{"CARR"}, office.AgentOf)
	s.Equal(ts, office.CreatedAt)
	s.Equal(stored, office)
}

func (s *DirectoryTestSuite) TestRegisterDuplicatedOffice() {
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().FindOffices(gomock.Any(), s.tx, "AGENT", "").Return([]model.Office{{ID: "office-agent"}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	_, err := s.directory.RegisterOffice(s.ctx, 1717977600, party.RegisterOfficeRequest{
		Requester:    "admin",
		Organization: model.Organization{Code: "AGENT"},
		Types:        []model.OfficeType{model.OfficeTypeShippingAgent},
	})
	s.ErrorIs(err, model.ErrOfficeAlreadyExists)
	s.ErrorIs(err, model.ErrConflict)
}

func (s *DirectoryTestSuite) TestRegisterOfficeWithInvalidRequest() {
	_, err := s.directory.RegisterOffice(s.ctx, 1717977600, party.RegisterOfficeRequest{
		Requester:    "admin",
		Organization: model.Organization{Code: "AGENT"},
		Types:        []model.OfficeType{"SHIPOWNER"},
	})
	s.ErrorIs(err, model.ErrInvalidParameter)

	_, err = s.directory.RegisterOffice(s.ctx, 1717977600, party.RegisterOfficeRequest{
		Requester: "admin",
		Types:     []model.OfficeType{model.OfficeTypeBank},
	})
	s.ErrorIs(err, model.ErrInvalidParameter)
}

func (s *DirectoryTestSuite) TestUpdateOfficeKeepsIdentity() {
	current := model.Office{
		ID:           "office-agent",
		Version:      3,
		Organization: model.Organization{Code: "AGENT", Name: "Agent Co."},
		OfficeCode:   "VLC",
		Types:        []model.OfficeType{model.OfficeTypeShippingAgent},
		CreatedAt:    1,
	}
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-agent").Return(current, nil),
		s.storage.EXPECT().StoreOffice(gomock.Any(), s.tx, gomock.Any()).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	office, err := s.directory.UpdateOffice(s.ctx, 1717977600, party.UpdateOfficeRequest{
		ID: "office-agent",
		RegisterOfficeRequest: party.RegisterOfficeRequest{
			Requester:    "admin",
			Organization: model.Organization{Code: "RENAMED", Name: "Agent Company"},
			OfficeCode:   "MAD",
			Types:        []model.OfficeType{model.OfficeTypeShippingAgent, model.OfficeTypeFreightForwarder},
			AgentOf:      []string{"CARR"},
		},
	})
	s.Require().NoError(err)
	s.Equal(int64(4), office.Version)
	s.Equal("AGENT", office.Organization.Code)
	s.Equal("Agent Company", office.Organization.Name)
	s.Equal("VLC", office.OfficeCode)
	s.Equal([]string{"CARR"}, office.AgentOf)
	s.Equal(int64(1717977600), office.UpdatedAt)
}

func (s *DirectoryTestSuite) TestListOffices() {
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(1)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListOffices(gomock.Any(), s.tx, storage.ListOfficeRequest{Limit: 10, OrganizationCode: "AGENT"}).
			Return(storage.ListOfficeResult{Total: 1, Records: []model.Office{{ID: "office-agent"}}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	result, err := s.directory.ListOffices(s.ctx, party.ListOfficesRequest{Limit: 10, OrganizationCode: "AGENT"})
	s.Require().NoError(err)
	s.Equal(1, result.Total)
	s.Equal("office-agent", result.Records[0].ID)
}

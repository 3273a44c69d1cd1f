package party_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	mock_storage "github.com/openpcs/openpcs/test/mock/pcs_server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	storage  *mock_storage.MockOfficeStorage
	tx       *mock_storage.MockTx
	resolver party.Resolver

	operator model.Office
	agent    model.Office
}

func TestResolver(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockOfficeStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.resolver = party.NewResolver(s.storage)

	s.operator = model.Office{
		ID:           "office-pcs",
		Organization: model.Organization{Code: "PCS", Name: "Port Community"},
		Types:        []model.OfficeType{model.OfficeTypePCS},
	}
	s.agent = model.Office{
		ID:           "office-agent",
		Organization: model.Organization{Code: "AGENT", Name: "Agent Co."},
		OfficeCode:   "VLC",
		Types:        []model.OfficeType{model.OfficeTypeShippingAgent},
		AgentOf:      []string{"CARR"},
		Address:      "Muelle 1",
		Email:        "ops@agent.example",
	}
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverTestSuite) TestResolveByCodes() {
	s.storage.EXPECT().FindOffices(gomock.Any(), s.tx, "AGENT", "VLC").Return([]model.Office{s.agent}, nil)

	p := &model.Party{Organization: model.Organization{Code: "AGENT"}, OfficeCode: "VLC", Email: "desk@agent.example"}
	resolved, err := s.resolver.Resolve(s.ctx, s.tx, p)
	s.Require().NoError(err)
	s.Equal("office-agent", resolved.OfficeID)
	s.Equal("Agent Co.", resolved.Organization.Name)
	s.Equal("Muelle 1", resolved.Address)
	s.Equal("desk@agent.example", resolved.Email)
	s.Empty(p.OfficeID)
}

func (s *ResolverTestSuite) TestResolveByOfficeID() {
	s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-agent").Return(s.agent, nil)

	resolved, err := s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "AGENT"}, OfficeID: "office-agent"})
	s.Require().NoError(err)
	s.Equal("Agent Co.", resolved.Organization.Name)
}

func (s *ResolverTestSuite) TestResolveByOfficeIDWithOtherCodes() {
	s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-agent").Return(s.agent, nil).Times(3)

	_, err := s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "OTHER"}, OfficeID: "office-agent"})
	s.ErrorIs(err, model.ErrInvalidParameter)

	_, err = s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "AGENT"}, OfficeCode: "BCN", OfficeID: "office-agent"})
	s.ErrorIs(err, model.ErrInvalidParameter)

	resolved, err := s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "AGENT"}, OfficeCode: "VLC", OfficeID: "office-agent"})
	s.Require().NoError(err)
	s.Equal("office-agent", resolved.OfficeID)
}

func (s *ResolverTestSuite) TestResolveUnknownOrAmbiguous() {
	gomock.InOrder(
		s.storage.EXPECT().FindOffices(gomock.Any(), s.tx, "UNKNOWN", "").Return(nil, nil),
		s.storage.EXPECT().FindOffices(gomock.Any(), s.tx, "AGENT", "").Return([]model.Office{s.agent, s.operator}, nil),
	)

	resolved, err := s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "UNKNOWN"}})
	s.Require().NoError(err)
	s.Empty(resolved.OfficeID)
	s.Equal("UNKNOWN", resolved.Organization.Code)

	resolved, err = s.resolver.Resolve(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "AGENT"}})
	s.Require().NoError(err)
	s.Empty(resolved.OfficeID)
}

func (s *ResolverTestSuite) TestResolveNil() {
	resolved, err := s.resolver.Resolve(s.ctx, s.tx, nil)
	s.NoError(err)
	s.Nil(resolved)

	resolved, err = s.resolver.Resolve(s.ctx, s.tx, &model.Party{Email: "someone@example.com"})
	s.NoError(err)
	s.Nil(resolved)
}

func (s *ResolverTestSuite) TestIsAgentOf() {
	s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-agent").Return(s.agent, nil).Times(2)

	agent := &model.Party{OfficeID: "office-agent"}
	ok, err := s.resolver.IsAgentOf(s.ctx, s.tx, agent, &model.Party{Organization: model.Organization{Code: "CARR"}})
	s.NoError(err)
	s.True(ok)

	ok, err = s.resolver.IsAgentOf(s.ctx, s.tx, agent, &model.Party{Organization: model.Organization{Code: "OTHER"}})
	s.NoError(err)
	s.False(ok)

	ok, err = s.resolver.IsAgentOf(s.ctx, s.tx, &model.Party{Organization: model.Organization{Code: "AGENT"}}, &model.Party{Organization: model.Organization{Code: "CARR"}})
	s.NoError(err)
	s.False(ok)
}

func (s *ResolverTestSuite) TestAuthorize() {
	s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-pcs").Return(s.operator, nil)
	s.storage.EXPECT().GetOffice(gomock.Any(), s.tx, "office-other").Return(model.Office{}, model.ErrOfficeNotFound)

	s.NoError(s.resolver.Authorize(s.ctx, s.tx, "office-agent", "change", "office-agent", ""))
	s.NoError(s.resolver.Authorize(s.ctx, s.tx, "office-pcs", "change", "office-agent"))

	err := s.resolver.Authorize(s.ctx, s.tx, "office-other", "change", "office-agent")
	s.ErrorIs(err, model.ErrUnauthorized)
	s.Contains(err.Error(), "office-other")
}

func TestOfficesEqual(t *testing.T) {
	a := &model.Party{Organization: model.Organization{Code: "A"}, OfficeID: "office-a"}
	assert.True(t, party.OfficesEqual(nil, nil))
	assert.False(t, party.OfficesEqual(a, nil))
	assert.True(t, party.OfficesEqual(a, &model.Party{Organization: model.Organization{Code: "B"}, OfficeID: "office-a"}))
	assert.True(t, party.OfficesEqual(a, &model.Party{Organization: model.Organization{Code: "A"}}))
	assert.False(t, party.OfficesEqual(a, &model.Party{Organization: model.Organization{Code: "A"}, OfficeCode: "X"}))
}

func TestRemovedOffices(t *testing.T) {
	a := &model.Party{Organization: model.Organization{Code: "A"}, OfficeID: "office-a"}
	b := &model.Party{Organization: model.Organization{Code: "B"}, OfficeID: "office-b"}
	c := &model.Party{Organization: model.Organization{Code: "C"}, OfficeID: "office-c"}
	d := &model.Party{Organization: model.Organization{Code: "D"}, OfficeID: "office-d"}

	assert.Equal(t, []string{"office-b"}, party.RemovedOffices([]*model.Party{a, b, nil}, []*model.Party{a, c, d}))

	// An office moved to another position is still named.
	assert.Empty(t, party.RemovedOffices([]*model.Party{a, b, nil}, []*model.Party{a, d, b}))
}

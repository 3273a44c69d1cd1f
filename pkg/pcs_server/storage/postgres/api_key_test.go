package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/postgres"
	"github.com/stretchr/testify/suite"
)

type APIKeyStorageTestSuite struct {
	BaseTestSuite
	storage auth.APIKeyStorage
}

func TestAPIKeyStorage(t *testing.T) {
	suite.Run(t, new(APIKeyStorageTestSuite))
}

func (s *APIKeyStorageTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()
	s.storage = postgres.NewStorageWithPool(s.pgPool)
}

func (s *APIKeyStorageTestSuite) TestAPIKey() {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	keys := []auth.APIKey{
		{ID: "key1", HashString: "hash1", Version: 1, OfficeID: "office-agent", Status: auth.APIKeyStatusActive, CreatedAt: 1, CreatedBy: "admin", UpdatedAt: 1, UpdatedBy: "admin"},
		{ID: "key2", HashString: "hash2", Version: 1, OfficeID: "office-agent", Status: auth.APIKeyStatusActive, CreatedAt: 2, CreatedBy: "admin", UpdatedAt: 2, UpdatedBy: "admin"},
		{ID: "key3", HashString: "hash3", Version: 1, OfficeID: "office-holder", Status: auth.APIKeyStatusActive, CreatedAt: 3, CreatedBy: "admin", UpdatedAt: 3, UpdatedBy: "admin"},
	}
	for _, key := range keys {
		s.Require().NoError(s.storage.StoreAPIKey(ctx, tx, key))
	}
	revoked := keys[1]
	revoked.Version = 2
	revoked.Status = auth.APIKeyStatusRevoked
	s.Require().NoError(s.storage.StoreAPIKey(ctx, tx, revoked))

	stored, err := s.storage.GetAPIKey(ctx, tx, "key1")
	s.Require().NoError(err)
	s.Equal(keys[0], stored)

	_, err = s.storage.GetAPIKey(ctx, tx, "key9")
	s.ErrorIs(err, model.ErrAPIKeyNotFound)

	res, err := s.storage.ListAPIKeys(ctx, tx, auth.ListAPIKeysRequest{Limit: 10, OfficeIDs: []string{"office-agent"}})
	s.Require().NoError(err)
	s.Equal(2, res.Total)
	s.Require().Len(res.Keys, 2)
	s.Empty(res.Keys[0].HashString)

	res, err = s.storage.ListAPIKeys(ctx, tx, auth.ListAPIKeysRequest{Limit: 10, Statuses: []auth.APIKeyStatus{auth.APIKeyStatusRevoked}})
	s.Require().NoError(err)
	s.Equal(1, res.Total)
	s.Equal("key2", res.Keys[0].ID)
	s.Require().NoError(tx.Commit(ctx))
}

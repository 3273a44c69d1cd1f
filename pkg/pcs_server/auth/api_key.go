// Package auth issues the API keys offices use to call the server and maps a presented key back to its office.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"golang.org/x/crypto/bcrypt"
)

type APIKeyStatus string

const (
	APIKeyStatusActive  = APIKeyStatus("active")
	APIKeyStatusRevoked = APIKeyStatus("revoked")
)

// APIKeyString is the string representation of an API key.
// The client has to provide this string to authenticate itself.
// The format of APIKeyString is [ID]:[SECRET].
type APIKeyString string

// APIKeyHashedString is the hashed string representation of an API key.
// It is stored in the database. The server is not able to recover the original APIKeyString from this.
type APIKeyHashedString string

type APIKey struct {
	ID         string             `json:"id"`
	HashString APIKeyHashedString `json:"hash_string,omitempty"`
	Version    int64              `json:"version"`
	OfficeID   string             `json:"office_id"` // The office acting on behalf of every request signed by this key.
	Status     APIKeyStatus       `json:"status"`

	CreatedAt int64  `json:"created_at"`
	CreatedBy string `json:"created_by"`
	UpdatedAt int64  `json:"updated_at"`
	UpdatedBy string `json:"updated_by"`
}

type RequestUser struct {
	User string `json:"user"` // User who makes the request.
}

type CreateAPIKeyRequest struct {
	RequestUser
	OfficeID string `json:"office_id"`
}

type RevokeAPIKeyRequest struct {
	RequestUser
	OfficeID string `json:"office_id"`
	ID       string `json:"id"`
}

type ListAPIKeysRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	OfficeIDs []string       `json:"office_ids"`
	Statuses  []APIKeyStatus `json:"statuses"`
}

type ListAPIKeysResult struct {
	Total int      `json:"total"`
	Keys  []APIKey `json:"keys"`
}

type APIKeyStorage interface {
	CreateTx(ctx context.Context, options ...storage.CreateTxOption) (storage.Tx, context.Context, error)
	StoreAPIKey(ctx context.Context, tx storage.Tx, key APIKey) error
	GetAPIKey(ctx context.Context, tx storage.Tx, id string) (APIKey, error)
	ListAPIKeys(ctx context.Context, tx storage.Tx, req ListAPIKeysRequest) (ListAPIKeysResult, error)
}

type APIKeyAuthenticator interface {
	CreateAPIKey(ctx context.Context, ts int64, req CreateAPIKeyRequest) (APIKey, APIKeyString, error)
	RevokeAPIKey(ctx context.Context, ts int64, req RevokeAPIKeyRequest) error
	ListAPIKeys(ctx context.Context, req ListAPIKeysRequest) (ListAPIKeysResult, error)
	Authenticate(ctx context.Context, key APIKeyString) (APIKey, error)
}

type _APIKeyAuthenticator struct {
	storage APIKeyStorage
}

func NewAPIKeyAuthenticator(storage APIKeyStorage) APIKeyAuthenticator {
	return &_APIKeyAuthenticator{storage: storage}
}

func (ks APIKeyString) ID() (string, error) {
	id, _, found := strings.Cut(string(ks), ":")
	if !found || id == "" {
		return "", model.ErrInvalidAPIKeyString
	}
	return id, nil
}

func (ks APIKeyString) Hash() (APIKeyHashedString, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(string(ks)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return APIKeyHashedString(hashed), nil
}

func NewAPIKeyString() (APIKeyString, error) {
	prefixBytes := make([]byte, 16)
	secretBytes := make([]byte, 32)

	if _, err := rand.Read(prefixBytes); err != nil {
		return "", err
	}
	if _, err := rand.Read(secretBytes); err != nil {
		return "", err
	}

	base64Prefix := base64.RawURLEncoding.EncodeToString(prefixBytes)
	base64Secret := base64.RawURLEncoding.EncodeToString(secretBytes)
	return APIKeyString(fmt.Sprintf("%s:%s", base64Prefix, base64Secret)), nil
}

func VerifyAPIKeyString(ks APIKeyString, hashedKs APIKeyHashedString) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedKs), []byte(ks))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrMismatchAPIKey
	}

	return err
}

func (a *_APIKeyAuthenticator) CreateAPIKey(ctx context.Context, ts int64, req CreateAPIKeyRequest) (APIKey, APIKeyString, error) {
	if err := ValidateCreateAPIKeyRequest(req); err != nil {
		return APIKey{}, "", err
	}

	apiKeyString, err := NewAPIKeyString()
	if err != nil {
		return APIKey{}, "", err
	}
	id, err := apiKeyString.ID()
	if err != nil {
		return APIKey{}, "", err
	}
	hashString, err := apiKeyString.Hash()
	if err != nil {
		return APIKey{}, "", err
	}

	apiKey := APIKey{
		ID:         id,
		HashString: hashString,
		Version:    1,
		OfficeID:   req.OfficeID,
		Status:     APIKeyStatusActive,
		CreatedAt:  ts,
		CreatedBy:  req.User,
		UpdatedAt:  ts,
		UpdatedBy:  req.User,
	}

	tx, ctx, err := a.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return APIKey{}, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := a.storage.StoreAPIKey(ctx, tx, apiKey); err != nil {
		return APIKey{}, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return APIKey{}, "", err
	}

	return apiKey, apiKeyString, nil
}

func (a *_APIKeyAuthenticator) RevokeAPIKey(ctx context.Context, ts int64, req RevokeAPIKeyRequest) error {
	if err := ValidateRevokeAPIKeyRequest(req); err != nil {
		return err
	}

	tx, ctx, err := a.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	apiKey, err := a.storage.GetAPIKey(ctx, tx, req.ID)
	if err != nil {
		return err
	}
	if apiKey.OfficeID != req.OfficeID {
		return fmt.Errorf("%s: %w", req.ID, model.ErrAPIKeyNotFound)
	}
	if apiKey.Status == APIKeyStatusRevoked {
		return nil
	}

	apiKey.Version += 1
	apiKey.Status = APIKeyStatusRevoked
	apiKey.UpdatedAt = ts
	apiKey.UpdatedBy = req.User

	if err := a.storage.StoreAPIKey(ctx, tx, apiKey); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (a *_APIKeyAuthenticator) ListAPIKeys(ctx context.Context, req ListAPIKeysRequest) (ListAPIKeysResult, error) {
	if err := ValidateListAPIKeysRequest(req); err != nil {
		return ListAPIKeysResult{}, err
	}

	tx, ctx, err := a.storage.CreateTx(ctx)
	if err != nil {
		return ListAPIKeysResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	return a.storage.ListAPIKeys(ctx, tx, req)
}

// Authenticate returns the active key matching ks with its hash cleared.
func (a *_APIKeyAuthenticator) Authenticate(ctx context.Context, ks APIKeyString) (APIKey, error) {
	id, err := ks.ID()
	if err != nil {
		return APIKey{}, err
	}

	tx, ctx, err := a.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return APIKey{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	apiKey, err := a.storage.GetAPIKey(ctx, tx, id)
	if err != nil {
		return APIKey{}, err
	}

	if err := VerifyAPIKeyString(ks, apiKey.HashString); err != nil {
		return APIKey{}, err
	}
	if apiKey.Status == APIKeyStatusRevoked {
		return APIKey{}, model.ErrRevokedAPIKey
	}

	apiKey.HashString = ""
	return apiKey, nil
}

package util_test

import (
	"io"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/openpcs/openpcs/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id := util.NewUUID()
	raw, err := base58.Decode(id)
	require.NoError(t, err)
	assert.Len(t, raw, 16)
	assert.NotEqual(t, id, util.NewUUID())
}

func TestNewPrefixedID(t *testing.T) {
	id := util.NewPrefixedID("evt")
	assert.True(t, strings.HasPrefix(id, "evt_"))
}

func TestPtr(t *testing.T) {
	v := 3
	p := util.Ptr(v)
	v = 4
	assert.Equal(t, 3, *p)
	assert.Equal(t, "x", *util.Ptr("x"))
}

func TestStructToJSON(t *testing.T) {
	data := struct {
		Name string `json:"name"`
	}{Name: "CN1"}
	assert.Equal(t, `{"name":"CN1"}`, util.StructToJSON(data))

	body, err := io.ReadAll(util.StructToJSONReader(data))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"CN1"}`, string(body))
}

func TestPostgresConnString(t *testing.T) {
	cfg := util.PostgresDatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "pcs",
		Password: "p@ss/word",
		Database: "pcs",
	}
	assert.Equal(t, "postgres://pcs:p@ss%2Fword@db:5432/pcs?sslmode=disable&pool_max_conns=4", cfg.ConnString())

	cfg.SSLMode = "require"
	cfg.PoolSize = 10
	assert.Equal(t, "postgres://pcs:p@ss%2Fword@db:5432/pcs?sslmode=require&pool_max_conns=10", cfg.ConnString())
}

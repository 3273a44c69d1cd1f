package util

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type PostgresDatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"sslmode"`       // disable when empty.
	PoolSize     int    `yaml:"pool"`          // 4 when empty.
	ConnectRetry int    `yaml:"connect_retry"` // Attempts to reach the database at startup, 1 when empty.
}

// ConnString renders the pgx connection string of the config.
func (c PostgresDatabaseConfig) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	poolSize := c.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		url.PathEscape(c.User),
		url.PathEscape(c.Password),
		url.PathEscape(c.Host),
		c.Port,
		url.PathEscape(c.Database),
		url.QueryEscape(sslMode),
		poolSize,
	)
}

// NewPostgresDBPool opens the pool and waits until the database answers a ping.
func NewPostgresDBPool(config PostgresDatabaseConfig) (*pgxpool.Pool, error) {
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open connection to database: %w", err)
	}

	attempts := config.ConnectRetry
	if attempts <= 0 {
		attempts = 1
	}
	err = retry.Do(
		func() error { return dbPool.Ping(ctx) },
		retry.Attempts(uint(attempts)),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logrus.Warnf("database %s:%d is not reachable yet (attempt %d): %v", config.Host, config.Port, n+1, err)
		}),
	)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return dbPool, nil
}

package webhook

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/postgres"
	"github.com/openpcs/openpcs/pkg/util"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Config struct {
	Database      util.PostgresDatabaseConfig `yaml:"database"`
	CheckInterval int                         `yaml:"check_interval"`
	BatchSize     int                         `yaml:"batch_size"`
	Timeout       int                         `yaml:"timeout"`
	MaxRetry      int                         `yaml:"max_retry"`
	RatePerHost   float64                     `yaml:"rate_per_host"` // Deliveries per second to one host. 0 means unlimited.
}

type ProcessorOption func(p *Processor)

func WithStorage(storage storage.WebhookStorage) ProcessorOption {
	return func(p *Processor) {
		p.storage = storage
	}
}

func WithHTTPClient(client *http.Client) ProcessorOption {
	return func(p *Processor) {
		p.client = client
	}
}

type Processor struct {
	retry         int
	batchSize     int
	checkInterval time.Duration
	timeout       time.Duration
	ratePerHost   rate.Limit
	storage       storage.WebhookStorage
	client        *http.Client

	limitersLock sync.Mutex
	limiters     map[string]*rate.Limiter
}

func NewProcessorWithConfig(cfg Config, opts ...ProcessorOption) (*Processor, error) {
	res := &Processor{
		retry:         cfg.MaxRetry,
		batchSize:     cfg.BatchSize,
		checkInterval: time.Second * time.Duration(cfg.CheckInterval),
		timeout:       time.Second * time.Duration(cfg.Timeout),
		ratePerHost:   rate.Inf,
		limiters:      make(map[string]*rate.Limiter),
	}
	if cfg.RatePerHost > 0 {
		res.ratePerHost = rate.Limit(cfg.RatePerHost)
	}
	if res.retry <= 0 {
		res.retry = 1
	}
	if res.batchSize <= 0 {
		res.batchSize = 10
	}

	for _, opt := range opts {
		opt(res)
	}
	if res.storage == nil {
		webhookStorage, err := postgres.NewStorageWithConfig(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("create storage: %w", err)
		}
		res.storage = webhookStorage
	}
	if res.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DisableKeepAlives = true
		transport.MaxIdleConnsPerHost = -1
		res.client = &http.Client{Timeout: res.timeout, Transport: transport}
	}

	return res, nil
}

func (p *Processor) Run(ctx context.Context) {
	logrus.Info("WebhookEvent processor is now running")

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.checkInterval):
			p.Proc(ctx)
		}
	}
}

// Proc delivers the queued webhook events until the outbox is drained. Events whose
// webhook stays unreachable after the retries are dropped.
func (p *Processor) Proc(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := p.getEvent(ctx)
		if err != nil {
			logrus.Errorf("failed to get WebhookEvent: %v", err)
			return
		}
		if len(msgs) == 0 {
			return
		}

		logrus.Debugf("Got %d WebhookEvents", len(msgs))
		ids := make([]int64, 0, len(msgs))
		for i := range msgs {
			err = p.postEvent(ctx, msgs[i])
			if err != nil {
				logrus.Warnf("failed to post WebhookEvent: %v", err)
				if !errors.Is(err, model.ErrWebhookUnreachable) {
					continue
				}
			}

			ids = append(ids, msgs[i].RecID)
		}

		if len(ids) == 0 {
			return
		}

		err = p.deleteEvent(ctx, ids...)
		if err != nil {
			logrus.Errorf("failed to delete WebhookEvent: %v", err)
			return
		}

		logrus.Debugf("POSTed %d WebhookEvents", len(ids))
	}
}

func (p *Processor) limiter(rawURL string) *rate.Limiter {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	p.limitersLock.Lock()
	defer p.limitersLock.Unlock()
	l, ok := p.limiters[host]
	if !ok {
		l = rate.NewLimiter(p.ratePerHost, 1)
		p.limiters[host] = l
	}
	return l
}

func (p *Processor) postEvent(ctx context.Context, msg storage.OutboxMsg) error {
	var event model.WebhookEvent
	err := json.Unmarshal(msg.Msg, &event)
	if err != nil {
		return fmt.Errorf("json unmarshal event: %v", err)
	}
	// The signature covers the marshalled event, so the body is marshalled the same way.
	body, err := json.Marshal(&event)
	if err != nil {
		return fmt.Errorf("json marshal event: %v", err)
	}

	limiter := p.limiter(event.Url)
	err = retry.Do(
		func() error {
			if err := limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, event.Url, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Payload-Signature", msg.Key)

			resp, err := p.client.Do(req)
			if err != nil {
				logrus.Debugf("send http request: %v", err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode/100 != 2 {
				body, _ := io.ReadAll(resp.Body)
				logrus.Debugf("%s returned %v: %s", event.Url, resp.StatusCode, string(body))
				return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
			}

			return nil
		},
		retry.Attempts(uint(p.retry)),
		retry.Delay(100*time.Millisecond),
		retry.Context(ctx),
	)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("exceed maximum retries posting webhook event %s to %s. %w", event.ID, event.Url, model.ErrWebhookUnreachable)
	}
	return nil
}

func (p *Processor) getEvent(ctx context.Context) ([]storage.OutboxMsg, error) {
	tx, ctx, err := p.storage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	outboxMsgs, err := p.storage.GetWebhookEvent(ctx, tx, p.batchSize)
	if err != nil {
		return nil, err
	}

	if len(outboxMsgs) == 0 {
		return nil, nil
	}

	return outboxMsgs, nil
}

func (p *Processor) deleteEvent(ctx context.Context, recIDs ...int64) error {
	tx, ctx, err := p.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = p.storage.DeleteWebhookEvent(ctx, tx, recIDs...)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

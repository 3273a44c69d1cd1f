package webhook_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/memory"
	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
	mock_storage "github.com/openpcs/openpcs/test/mock/pcs_server/storage"
	"github.com/stretchr/testify/suite"
)

const endpoint = "/notify"

type ProcessorTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	storage *mock_storage.MockWebhookStorage
	mux     *http.ServeMux
	server  *httptest.Server
}

func TestProcessor(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockWebhookStorage(s.ctrl)
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.server.Close()
	s.ctrl.Finish()
}

func (s *ProcessorTestSuite) outboxMsgs() []storage.OutboxMsg {
	url, err := url.JoinPath(s.server.URL, endpoint)
	s.Require().NoError(err)
	event := model.WebhookEvent{
		ID:        "evt_1",
		WebhookID: "webhook_1",
		Url:       url,
		Type:      model.EventBLReleased,
		SubjectID: "BL1@CARR",
		BLID:      "BL1@CARR",
		CreatedAt: 12345,
	}
	raw, err := json.Marshal(event)
	s.Require().NoError(err)
	return []storage.OutboxMsg{
		{
			RecID: 1,
			Key:   "hash_value",
			Msg:   raw,
		},
	}
}

// expectDelivery expects one batch to be read and deleted, then an empty outbox.
func (s *ProcessorTestSuite) expectDelivery(msgs []storage.OutboxMsg) {
	rtx1 := mock_storage.NewMockTx(s.ctrl)
	tx := mock_storage.NewMockTx(s.ctrl)
	rtx2 := mock_storage.NewMockTx(s.ctrl)
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any()).Return(rtx1, s.ctx, nil),
		s.storage.EXPECT().GetWebhookEvent(gomock.Any(), rtx1, 10).Return(msgs, nil),
		rtx1.EXPECT().Rollback(gomock.Any()).Return(nil),

		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(tx, s.ctx, nil),
		s.storage.EXPECT().DeleteWebhookEvent(gomock.Any(), tx, gomock.Eq([]int64{1})).Return(nil),
		tx.EXPECT().Commit(gomock.Any()).Return(nil),
		tx.EXPECT().Rollback(gomock.Any()).Return(nil),

		s.storage.EXPECT().CreateTx(gomock.Any()).Return(rtx2, s.ctx, nil),
		s.storage.EXPECT().GetWebhookEvent(gomock.Any(), rtx2, 10).Return(nil, nil),
		rtx2.EXPECT().Rollback(gomock.Any()).Return(nil),
	)
}

func (s *ProcessorTestSuite) newProcessor() *webhook.Processor {
	cfg := webhook.Config{CheckInterval: 1, BatchSize: 10, Timeout: 5, MaxRetry: 3}
	proc, err := webhook.NewProcessorWithConfig(cfg, webhook.WithStorage(s.storage))
	s.Require().NoError(err)
	return proc
}

func (s *ProcessorTestSuite) TestProcessor() {
	msgs := s.outboxMsgs()
	var received atomic.Int32
	s.mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		s.Equal("hash_value", r.Header.Get("X-Payload-Signature"))
		s.Equal("application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		s.JSONEq(string(msgs[0].Msg), string(body))
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	s.expectDelivery(msgs)

	s.newProcessor().Proc(s.ctx)
	s.Equal(int32(1), received.Load())
}

func (s *ProcessorTestSuite) TestProcessorRetriesNon2xx() {
	var received atomic.Int32
	s.mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})
	s.expectDelivery(s.outboxMsgs())

	s.newProcessor().Proc(s.ctx)
	s.Equal(int32(3), received.Load())
}

func (s *ProcessorTestSuite) TestProcessorServerUnreachable() {
	s.server.Close()
	s.expectDelivery(s.outboxMsgs())

	s.newProcessor().Proc(s.ctx)
}

func (s *ProcessorTestSuite) TestProcessorContextCancelled() {
	s.mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
		w.WriteHeader(http.StatusOK)
	})

	rtx1 := mock_storage.NewMockTx(s.ctrl)
	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any()).Return(rtx1, s.ctx, nil),
		s.storage.EXPECT().GetWebhookEvent(gomock.Any(), rtx1, 10).Return(s.outboxMsgs(), nil),
		rtx1.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	ctx, cancel := context.WithCancel(context.Background())
	proc := s.newProcessor()

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		proc.Run(ctx)
	}()

	time.Sleep(2 * time.Second)
	cancel()

	wg.Wait()
}

// TestProcessorDeliversPublishedEvents publishes an event through the memory store and checks
// the subscriber can verify the signature of what it receives.
func TestProcessorDeliversPublishedEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStorage()

	var (
		lock      sync.Mutex
		delivered []model.WebhookEvent
	)
	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		var received model.WebhookEvent
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		signature, err := event.Sign(&received, "secret_key")
		if err != nil || signature != r.Header.Get("X-Payload-Signature") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		lock.Lock()
		delivered = append(delivered, received)
		lock.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	hookURL, _ := url.JoinPath(server.URL, endpoint)
	_, err := webhook.NewWebhookController(store).Create(ctx, 1717977600, webhook.CreateWebhookRequest{
		Requester: "office-holder",
		Events:    []model.EventType{model.EventBLReleased},
		Url:       hookURL,
		Secret:    "secret_key",
	})
	if err != nil {
		t.Fatal(err)
	}

	tx, txCtx, err := store.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		t.Fatal(err)
	}
	publisher := event.NewPublisher(store)
	for _, evt := range []model.Event{
		{Type: model.EventBLReleased, SubjectID: "BL1@CARR", BLID: "BL1@CARR", Offices: []string{"office-holder", "office-agent"}},
		{Type: model.EventBLTransferred, SubjectID: "BL1@CARR", BLID: "BL1@CARR", Offices: []string{"office-holder"}},
		{Type: model.EventBLReleased, SubjectID: "BL2@CARR", BLID: "BL2@CARR", Offices: []string{"office-agent"}},
	} {
		if _, err := publisher.Publish(txCtx, tx, 1717977600, evt); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(txCtx); err != nil {
		t.Fatal(err)
	}

	proc, err := webhook.NewProcessorWithConfig(webhook.Config{BatchSize: 10, Timeout: 5, MaxRetry: 1, RatePerHost: 100}, webhook.WithStorage(store))
	if err != nil {
		t.Fatal(err)
	}
	proc.Proc(ctx)

	lock.Lock()
	defer lock.Unlock()
	if len(delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(delivered))
	}
	if delivered[0].SubjectID != "BL1@CARR" || delivered[0].Type != model.EventBLReleased {
		t.Fatalf("unexpected delivery %+v", delivered[0])
	}

	rtx, rctx, _ := store.CreateTx(ctx, storage.TxOptionWithWrite(false))
	defer func() { _ = rtx.Rollback(rctx) }()
	left, err := store.GetWebhookEvent(rctx, rtx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("expected an empty outbox, got %d", len(left))
	}
}

package storage

import (
	"context"
	"database/sql"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

type StorageContextKey string

const (
	TRANSACTION StorageContextKey = "transaction"
)

// Tx is one unit of work against the store. Every write made through a Tx is
// discarded unless Commit succeeds.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type CreateTxOption func(*sql.TxOptions)

type TransactionInterface interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
}

func TxOptionWithWrite(write bool) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.ReadOnly = !write
	}
}

func TxOptionWithIsolationLevel(level sql.IsolationLevel) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.Isolation = level
	}
}

// ListBillOfLadingRequest is the request to list bills of lading.
type ListBillOfLadingRequest struct {
	Offset int `json:"offset"` // Offset of the bills of lading to be listed.
	Limit  int `json:"limit"`  // Limit of the bills of lading to be listed.

	// Filters
	OfficeID   string                     `json:"office_id"`    // Only the bills of lading the office takes part in.
	PortCallID string                     `json:"port_call_id"` // Only the bills of lading of the vessel port call.
	Statuses   []model.BillOfLadingStatus `json:"statuses"`     // Statuses of the bills of lading.
}

// ListBillOfLadingResult is the result of listing bills of lading.
type ListBillOfLadingResult struct {
	Total   int                  `json:"total"`   // Total number of bills of lading.
	Records []model.BillOfLading `json:"records"` // Records of bills of lading.
}

// CargoStorage keeps bills of lading, their containers and their payments.
// Get methods return an error wrapping model.ErrNotFound when the key is absent.
type CargoStorage interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)

	BillOfLadingExists(ctx context.Context, tx Tx, id string) (bool, error)
	GetBillOfLading(ctx context.Context, tx Tx, id string) (model.BillOfLading, error)
	AddBillOfLading(ctx context.Context, tx Tx, bl model.BillOfLading) error
	UpdateBillOfLading(ctx context.Context, tx Tx, bl model.BillOfLading) error
	RemoveBillOfLading(ctx context.Context, tx Tx, bl model.BillOfLading) error
	ListBillOfLading(ctx context.Context, tx Tx, req ListBillOfLadingRequest) (ListBillOfLadingResult, error)

	ContainerExists(ctx context.Context, tx Tx, id string) (bool, error)
	GetContainer(ctx context.Context, tx Tx, id string) (model.Container, error)
	AddContainer(ctx context.Context, tx Tx, cn model.Container) error
	UpdateContainer(ctx context.Context, tx Tx, cn model.Container) error
	RemoveContainer(ctx context.Context, tx Tx, cn model.Container) error
	ListContainersByBillOfLading(ctx context.Context, tx Tx, blID string) ([]model.Container, error)
	// FindContainersByOrder returns the containers whose order index of the given kind holds orderID.
	FindContainersByOrder(ctx context.Context, tx Tx, kind model.OrderKind, orderID string) ([]model.Container, error)

	PaymentExists(ctx context.Context, tx Tx, id string) (bool, error)
	GetPayment(ctx context.Context, tx Tx, id string) (model.Payment, error)
	AddPayment(ctx context.Context, tx Tx, payment model.Payment) error
	UpdatePayment(ctx context.Context, tx Tx, payment model.Payment) error
}

type ListOfficeRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// Filters
	IDs              []string `json:"ids"`
	OrganizationCode string   `json:"organization_code"`
}

type ListOfficeResult struct {
	Total   int            `json:"total"`
	Records []model.Office `json:"records"`
}

type OfficeStorage interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
	StoreOffice(ctx context.Context, tx Tx, office model.Office) error
	GetOffice(ctx context.Context, tx Tx, id string) (model.Office, error)
	// FindOffices returns the offices of the organization with the given office code.
	FindOffices(ctx context.Context, tx Tx, organizationCode string, officeCode string) ([]model.Office, error)
	ListOffices(ctx context.Context, tx Tx, req ListOfficeRequest) (ListOfficeResult, error)
}

type ListWebhookRequest struct {
	Offset int `json:"offset"` // Offset of the webhooks to be listed.
	Limit  int `json:"limit"`  // Limit of the webhooks to be listed.

	// Filters
	OfficeIDs []string `json:"office_ids"` // The offices the webhooks belong to.
	IDs       []string `json:"ids"`        // The IDs of the webhook.
	Events    []string `json:"events"`     // The Events the webhook is interested in.
}

type ListWebhookResult struct {
	Total   int             `json:"total"`   // Total number of webhooks.
	Records []model.Webhook `json:"records"` // Records of webhook.
}

type OutboxMsg struct {
	RecID int64
	Key   string
	Msg   []byte
}

// EventStorage records published events and fans them out to the webhook outbox.
type EventStorage interface {
	AddEvent(ctx context.Context, tx Tx, event model.Event) error
	ListWebhook(ctx context.Context, tx Tx, req ListWebhookRequest) (ListWebhookResult, error)
	AddWebhookEvent(ctx context.Context, tx Tx, ts int64, key string, event *model.WebhookEvent) error
}

type ListEventRequest struct {
	After    int64  `json:"after"`     // Only the events recorded after this offset.
	Limit    int    `json:"limit"`     // Limit of the events to be listed.
	OfficeID string `json:"office_id"` // Only the events notified to the office.
}

type ListEventResult struct {
	Events    []model.Event `json:"events"`
	MaxOffset int64         `json:"max_offset"` // Offset of the last listed event. Equals After when nothing is listed.
}

// EventFeedStorage reads the recorded events back in the order they were published.
// The offset of an event never changes once it is committed.
type EventFeedStorage interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
	ListEventFeed(ctx context.Context, tx Tx, req ListEventRequest) (ListEventResult, error)
}

type WebhookStorage interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
	AddWebhook(ctx context.Context, tx Tx, webhook model.Webhook) error
	ListWebhook(ctx context.Context, tx Tx, req ListWebhookRequest) (ListWebhookResult, error)
	AddWebhookEvent(ctx context.Context, tx Tx, ts int64, key string, event *model.WebhookEvent) error
	GetWebhookEvent(ctx context.Context, tx Tx, batchSize int) ([]OutboxMsg, error)
	DeleteWebhookEvent(ctx context.Context, tx Tx, recIDs ...int64) error
}

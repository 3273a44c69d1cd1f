// Package bill_of_lading owns the life cycle of the import bills of lading: the summary
// declarations of the shipping agents, the arrival notice, the transfer between holders and
// the release of the cargo.
package bill_of_lading

import (
	"context"
	"database/sql"
	"fmt"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Declaration is one bill of lading of a summary declaration.
type Declaration struct {
	BLNumber                  string       `json:"bl_number"`
	Carrier                   model.Party  `json:"carrier"`
	DischargeTerminalOperator *model.Party `json:"discharge_terminal_operator"`

	Vessel                  string   `json:"vessel"`
	Flag                    string   `json:"flag"`
	VoyageNumber            string   `json:"voyage_number"`
	PlaceOfOrigin           string   `json:"place_of_origin"`
	PortOfLoading           string   `json:"port_of_loading"`
	PortOfTranshipment      string   `json:"port_of_transhipment"`
	PortOfDischarge         string   `json:"port_of_discharge"`
	PlaceOfDelivery         string   `json:"place_of_delivery"`
	CountryOfEntry          string   `json:"country_of_entry"`
	DischargeBerth          string   `json:"discharge_berth"`
	DischargePortReferences []string `json:"discharge_port_references"`
	SubsequentTransportMode string   `json:"subsequent_transport_mode"`

	GoodsItems []model.GoodsItem       `json:"goods_items"`
	Containers []container.Declaration `json:"containers"`
}

func (d Declaration) ID() string {
	return model.BillOfLadingID(d.BLNumber, d.Carrier.Organization.Code)
}

type DeclarationRequest struct {
	Requester                string      `json:"requester"`
	PortCallID               string      `json:"port_call_id"`
	SummaryDeclarationNumber string      `json:"summary_declaration_number"`
	ShippingAgent            model.Party `json:"shipping_agent"` // The agency filing the declaration.
	BillOfLading             Declaration `json:"bill_of_lading"`
}

// GoodsItemsResult tells whether adding goods items created the bill of lading.
type GoodsItemsResult struct {
	BillOfLading model.BillOfLading `json:"bill_of_lading"`
	New          bool               `json:"new"`
}

type BillOfLadingRequest struct {
	Requester string `json:"requester"`
	ID        string `json:"id"`
}

type ListBillOfLadingRequest struct {
	Requester  string                     `json:"requester"`
	Offset     int                        `json:"offset"`
	Limit      int                        `json:"limit"`
	PortCallID string                     `json:"port_call_id"`
	Statuses   []model.BillOfLadingStatus `json:"statuses"`
}

type ListBillOfLadingResult struct {
	Total   int                  `json:"total"`
	Records []model.BillOfLading `json:"records"`
}

type BillOfLadingManager interface {
	Create(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error)
	Change(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error)
	Remove(ctx context.Context, ts int64, req BillOfLadingRequest) (model.BillOfLading, error)

	AddGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (GoodsItemsResult, error)
	ChangeGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error)
	RemoveGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error)
	SummaryDeclaration(ctx context.Context, ts int64, req SummaryDeclarationRequest) (SummaryDeclarationResult, error)

	ArrivalNotification(ctx context.Context, ts int64, req ArrivalNotificationRequest) (model.BillOfLading, error)
	Transfer(ctx context.Context, ts int64, req TransferRequest) (model.BillOfLading, error)
	Release(ctx context.Context, ts int64, req ReleaseRequest) (model.BillOfLading, error)
	NotifyPayment(ctx context.Context, ts int64, req NotifyPaymentRequest) (model.BillOfLading, error)
	RequestDelivery(ctx context.Context, ts int64, req RequestDeliveryRequest) (model.BillOfLading, error)

	Get(ctx context.Context, req BillOfLadingRequest) (model.BillOfLading, error)
	GetPayment(ctx context.Context, req BillOfLadingRequest) (model.Payment, error)
	List(ctx context.Context, req ListBillOfLadingRequest) (ListBillOfLadingResult, error)
}

type _BillOfLadingManager struct {
	storage   storage.CargoStorage
	resolver  party.Resolver
	publisher event.Publisher
	registry  container.Registry
}

func NewBillOfLadingManager(storage storage.CargoStorage, resolver party.Resolver, publisher event.Publisher, registry container.Registry) BillOfLadingManager {
	return &_BillOfLadingManager{
		storage:   storage,
		resolver:  resolver,
		publisher: publisher,
		registry:  registry,
	}
}

// inTx runs fn in a serializable write transaction and commits when fn succeeds.
func (m *_BillOfLadingManager) inTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	tx, ctx, err := m.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// load returns the stored bill of lading after checking that action is allowed in its status.
func (m *_BillOfLadingManager) load(ctx context.Context, tx storage.Tx, id string, action Action) (model.BillOfLading, error) {
	exist, err := m.storage.BillOfLadingExists(ctx, tx, id)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if !exist {
		return model.BillOfLading{}, fmt.Errorf("bill of lading %s cannot be %s because it does not exist: %w", id, action.Verb(), model.ErrBillOfLadingNotFound)
	}
	bl, err := m.storage.GetBillOfLading(ctx, tx, id)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := CheckStatus(action, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// authorize checks that the requester plays one of the roles of action on bl.
func (m *_BillOfLadingManager) authorize(ctx context.Context, tx storage.Tx, requester string, action Action, bl model.BillOfLading, payment *model.Payment) error {
	return m.resolver.Authorize(ctx, tx, requester, fmt.Sprintf("%s bill of lading %s", action.Verb(), bl.ID), RoleOffices(action, bl, payment)...)
}

func touch(bl *model.BillOfLading, ts int64, requester string) {
	bl.UpdatedAt = ts
	bl.UpdatedBy = requester
}

// save stores bl with its container numbers rebuilt from the stored containers.
func (m *_BillOfLadingManager) save(ctx context.Context, tx storage.Tx, bl *model.BillOfLading, isNew bool) error {
	numbers, err := m.registry.ContainerNumbers(ctx, tx, bl.ID)
	if err != nil {
		return err
	}
	bl.ContainerNumbers = numbers

	if isNew {
		return m.storage.AddBillOfLading(ctx, tx, *bl)
	}
	bl.Version++
	return m.storage.UpdateBillOfLading(ctx, tx, *bl)
}

// publish announces a change of bl to its agent, carrier, consignee and holder plus the extra offices.
func (m *_BillOfLadingManager) publish(ctx context.Context, tx storage.Tx, ts int64, eventType model.EventType, bl model.BillOfLading, extra ...string) error {
	offices := append([]string{
		bl.DischargeShippingAgent.Office(),
		bl.Carrier.Office(),
		bl.Consignee.Office(),
		bl.BLHolder.Office(),
	}, extra...)
	_, err := m.publisher.Publish(ctx, tx, ts, model.Event{
		Type:      eventType,
		SubjectID: bl.ID,
		Offices:   offices,
		BLID:      bl.ID,
	})
	return err
}

func (m *_BillOfLadingManager) getPayment(ctx context.Context, tx storage.Tx, bl model.BillOfLading) (*model.Payment, error) {
	if bl.PaymentID == "" {
		return nil, nil
	}
	payment, err := m.storage.GetPayment(ctx, tx, bl.PaymentID)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (m *_BillOfLadingManager) Get(ctx context.Context, req BillOfLadingRequest) (model.BillOfLading, error) {
	if err := ValidateBillOfLadingRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	tx, ctx, err := m.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return model.BillOfLading{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bl, err := m.load(ctx, tx, req.ID, ActionRead)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.authorize(ctx, tx, req.Requester, ActionRead, bl, nil); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// GetPayment returns the freight charges of the bill of lading to its parties and the paying bank.
func (m *_BillOfLadingManager) GetPayment(ctx context.Context, req BillOfLadingRequest) (model.Payment, error) {
	if err := ValidateBillOfLadingRequest(req); err != nil {
		return model.Payment{}, err
	}

	tx, ctx, err := m.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return model.Payment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bl, err := m.load(ctx, tx, req.ID, ActionRead)
	if err != nil {
		return model.Payment{}, err
	}
	payment, err := m.getPayment(ctx, tx, bl)
	if err != nil {
		return model.Payment{}, err
	}
	if payment == nil {
		return model.Payment{}, fmt.Errorf("bill of lading %s has no freight charges: %w", bl.ID, model.ErrPaymentNotFound)
	}
	if err := m.authorize(ctx, tx, req.Requester, ActionRead, bl, payment); err != nil {
		return model.Payment{}, err
	}
	return *payment, nil
}

// List returns the bills of lading the requester takes part in. The operator sees all of them.
func (m *_BillOfLadingManager) List(ctx context.Context, req ListBillOfLadingRequest) (ListBillOfLadingResult, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/List", trace.WithAttributes(attribute.String("requester", req.Requester)))
	defer span.End()

	if err := ValidateListBillOfLadingRequest(req); err != nil {
		return ListBillOfLadingResult{}, err
	}

	tx, ctx, err := m.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return ListBillOfLadingResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	operator, err := m.resolver.IsOperator(ctx, tx, req.Requester)
	if err != nil {
		return ListBillOfLadingResult{}, err
	}
	listReq := storage.ListBillOfLadingRequest{
		Offset:     req.Offset,
		Limit:      req.Limit,
		PortCallID: req.PortCallID,
		Statuses:   req.Statuses,
	}
	if !operator {
		listReq.OfficeID = req.Requester
	}

	result, err := m.storage.ListBillOfLading(ctx, tx, listReq)
	if err != nil {
		return ListBillOfLadingResult{}, err
	}
	return ListBillOfLadingResult{Total: result.Total, Records: result.Records}, nil
}

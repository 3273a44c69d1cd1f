package container

import (
	"context"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

// Declaration is a container as declared in a bill of lading declaration.
type Declaration struct {
	ContainerNumber           string            `json:"container_number"`
	ContainerType             string            `json:"container_type"`
	ShipmentClause            string            `json:"shipment_clause"`
	SubsequentTransportMode   string            `json:"subsequent_transport_mode"`
	TareWeight                *model.Decimal    `json:"tare_weight"`
	Seals                     []string          `json:"seals"`
	DischargeTerminalOperator *model.Party      `json:"discharge_terminal_operator"`
	GoodsItems                []model.GoodsItem `json:"goods_items"`
}

// Registry keeps the containers of a bill of lading in line with its declarations.
// Every method works inside the transaction of the bill of lading operation and expects
// bl to be the bill of lading as it is being stored by that operation.
type Registry interface {
	// Register creates the container or replaces its declared data and goods items.
	Register(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error)
	// RegisterItems creates the container or upserts the declared goods items by number.
	RegisterItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error)
	// RemoveItems strips the declared goods items. A container left without goods items is
	// cancelled and removed.
	RemoveItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error)
	StripItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, cn model.Container, itemNumbers []string) (model.Container, error)
	// Remove cancels the container and removes it.
	Remove(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, containerNumber string) (model.Container, error)
	// ContainerNumbers lists the numbers of the REGISTERED containers of the bill of lading.
	ContainerNumbers(ctx context.Context, tx storage.Tx, blID string) ([]string, error)
	ListContainers(ctx context.Context, tx storage.Tx, blID string) ([]model.Container, error)
}

type _Registry struct {
	storage   storage.CargoStorage
	resolver  party.Resolver
	publisher event.Publisher
}

func NewRegistry(storage storage.CargoStorage, resolver party.Resolver, publisher event.Publisher) Registry {
	return &_Registry{
		storage:   storage,
		resolver:  resolver,
		publisher: publisher,
	}
}

func (r *_Registry) Register(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error) {
	return r.upsert(ctx, tx, ts, bl, decl, func(cn *model.Container) {
		cn.GoodsItems = append([]model.GoodsItem{}, decl.GoodsItems...)
	})
}

func (r *_Registry) RegisterItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error) {
	return r.upsert(ctx, tx, ts, bl, decl, func(cn *model.Container) {
		cn.GoodsItems = UpsertGoodsItems(cn.GoodsItems, decl.GoodsItems)
	})
}

func (r *_Registry) upsert(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration, setItems func(cn *model.Container)) (model.Container, error) {
	cnID := model.ContainerID(decl.ContainerNumber, bl.ID)
	exist, err := r.storage.ContainerExists(ctx, tx, cnID)
	if err != nil {
		return model.Container{}, err
	}

	var cn model.Container
	eventType := model.EventContainerDeclarationChanged
	if exist {
		cn, err = r.storage.GetContainer(ctx, tx, cnID)
		if err != nil {
			return model.Container{}, err
		}
		if err := checkRegistered(cn, "updated"); err != nil {
			return model.Container{}, err
		}
		cn.Version++
	} else {
		cn = model.NewContainer(decl.ContainerNumber, bl)
		cn.CreatedAt = ts
		eventType = model.EventContainerDeclarationCreated
	}

	if err := r.applyDeclaration(ctx, tx, &cn, bl, decl); err != nil {
		return model.Container{}, err
	}
	setItems(&cn)
	cn.UpdatedAt = ts
	cn.UpdatedBy = bl.UpdatedBy

	if exist {
		err = r.storage.UpdateContainer(ctx, tx, cn)
	} else {
		err = r.storage.AddContainer(ctx, tx, cn)
	}
	if err != nil {
		return model.Container{}, err
	}

	if err := r.publish(ctx, tx, ts, eventType, cn, bl); err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (r *_Registry) applyDeclaration(ctx context.Context, tx storage.Tx, cn *model.Container, bl model.BillOfLading, decl Declaration) error {
	terminalOperator := decl.DischargeTerminalOperator
	if terminalOperator == nil {
		terminalOperator = bl.DischargeTerminalOperator
	}
	terminalOperator, err := r.resolver.Resolve(ctx, tx, terminalOperator)
	if err != nil {
		return err
	}

	cn.BLNumber = bl.BLNumber
	cn.SummaryDeclarationNumber = bl.SummaryDeclarationNumber
	cn.Carrier = bl.Carrier
	cn.DischargeShippingAgent = bl.DischargeShippingAgent
	cn.DischargeTerminalOperator = terminalOperator
	cn.DischargeBerth = bl.DischargeBerth
	if decl.ContainerType != "" {
		cn.SummaryContainerType = decl.ContainerType
	}
	cn.ShipmentClause = decl.ShipmentClause
	cn.SubsequentTransportMode = lo.Ternary(decl.SubsequentTransportMode != "", decl.SubsequentTransportMode,
		lo.Ternary(bl.SubsequentTransportMode != "", bl.SubsequentTransportMode, cn.SubsequentTransportMode))
	cn.TareWeight = decl.TareWeight
	cn.Seals = decl.Seals
	return nil
}

func (r *_Registry) RemoveItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration) (model.Container, error) {
	cnID := model.ContainerID(decl.ContainerNumber, bl.ID)
	cn, err := r.getRegistered(ctx, tx, cnID, "changed")
	if err != nil {
		return model.Container{}, err
	}

	if err := r.applyDeclaration(ctx, tx, &cn, bl, decl); err != nil {
		return model.Container{}, err
	}
	removed := lo.Map(decl.GoodsItems, func(item model.GoodsItem, _ int) string { return item.GoodsItemNumber })
	return r.stripItems(ctx, tx, ts, bl, cn, removed)
}

// StripItems removes the goods items with the given numbers from a stored container of the
// bill of lading without touching its declared data. Containers holding none of them are
// returned unchanged.
func (r *_Registry) StripItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, cn model.Container, itemNumbers []string) (model.Container, error) {
	if len(lo.Intersect(cn.GoodsItemNumbers(), itemNumbers)) == 0 {
		return cn, nil
	}
	if err := checkRegistered(cn, "changed"); err != nil {
		return model.Container{}, err
	}
	return r.stripItems(ctx, tx, ts, bl, cn, itemNumbers)
}

func (r *_Registry) stripItems(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, cn model.Container, itemNumbers []string) (model.Container, error) {
	cn.GoodsItems = lo.Reject(cn.GoodsItems, func(item model.GoodsItem, _ int) bool {
		return lo.Contains(itemNumbers, item.GoodsItemNumber)
	})
	cn.Version++
	cn.UpdatedAt = ts
	cn.UpdatedBy = bl.UpdatedBy

	if len(cn.GoodsItems) == 0 {
		return r.cancel(ctx, tx, ts, bl, cn)
	}

	if err := r.storage.UpdateContainer(ctx, tx, cn); err != nil {
		return model.Container{}, err
	}
	if err := r.publish(ctx, tx, ts, model.EventContainerDeclarationChanged, cn, bl); err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (r *_Registry) Remove(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, containerNumber string) (model.Container, error) {
	cnID := model.ContainerID(containerNumber, bl.ID)
	cn, err := r.getRegistered(ctx, tx, cnID, "removed")
	if err != nil {
		return model.Container{}, err
	}
	cn.Version++
	cn.UpdatedAt = ts
	cn.UpdatedBy = bl.UpdatedBy
	return r.cancel(ctx, tx, ts, bl, cn)
}

func (r *_Registry) cancel(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, cn model.Container) (model.Container, error) {
	cn.Status = model.ContainerStatusCancelled
	if err := r.storage.RemoveContainer(ctx, tx, cn); err != nil {
		return model.Container{}, err
	}
	if err := r.publish(ctx, tx, ts, model.EventContainerDeclarationCancelled, cn, bl); err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (r *_Registry) ContainerNumbers(ctx context.Context, tx storage.Tx, blID string) ([]string, error) {
	containers, err := r.ListContainers(ctx, tx, blID)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, 0, len(containers))
	for _, cn := range containers {
		if cn.Status == model.ContainerStatusRegistered {
			numbers = append(numbers, cn.ContainerNumber)
		}
	}
	return numbers, nil
}

func (r *_Registry) ListContainers(ctx context.Context, tx storage.Tx, blID string) ([]model.Container, error) {
	return r.storage.ListContainersByBillOfLading(ctx, tx, blID)
}

func (r *_Registry) getRegistered(ctx context.Context, tx storage.Tx, cnID string, action string) (model.Container, error) {
	cn, err := r.storage.GetContainer(ctx, tx, cnID)
	if err != nil {
		return model.Container{}, fmt.Errorf("container %s cannot be %s: %w", cnID, action, err)
	}
	if err := checkRegistered(cn, action); err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (r *_Registry) publish(ctx context.Context, tx storage.Tx, ts int64, eventType model.EventType, cn model.Container, bl model.BillOfLading) error {
	_, err := r.publisher.Publish(ctx, tx, ts, model.Event{
		Type:      eventType,
		SubjectID: cn.ID,
		Offices: []string{
			bl.DischargeShippingAgent.Office(),
			bl.Carrier.Office(),
			bl.Consignee.Office(),
			bl.BLHolder.Office(),
			cn.DischargeTerminalOperator.Office(),
		},
		BLID:        bl.ID,
		ContainerID: cn.ID,
	})
	return err
}

func checkRegistered(cn model.Container, action string) error {
	if cn.Status != model.ContainerStatusRegistered {
		return fmt.Errorf("container %s cannot be %s because it is in %s status%w", cn.ID, action, cn.Status, model.ErrInvalidState)
	}
	return nil
}

// UpsertGoodsItems replaces the items with the same number and appends the new ones.
func UpsertGoodsItems(items []model.GoodsItem, incoming []model.GoodsItem) []model.GoodsItem {
	result := append([]model.GoodsItem{}, items...)
	for _, item := range incoming {
		_, idx, found := lo.FindIndexOf(result, func(existing model.GoodsItem) bool {
			return existing.GoodsItemNumber == item.GoodsItemNumber
		})
		if found {
			result[idx] = item
		} else {
			result = append(result, item)
		}
	}
	return result
}

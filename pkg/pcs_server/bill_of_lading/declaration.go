package bill_of_lading

import (
	"context"
	"fmt"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type DeclarationAction string

const (
	DeclarationAddBillsOfLading    DeclarationAction = "ADD_BLS"
	DeclarationChangeBillsOfLading DeclarationAction = "CHANGE_BLS"
	DeclarationRemoveBillsOfLading DeclarationAction = "REMOVE_BLS"
	DeclarationAddGoodsItems       DeclarationAction = "ADD_GOODS_ITEMS"
	DeclarationChangeGoodsItems    DeclarationAction = "CHANGE_GOODS_ITEMS"
	DeclarationRemoveGoodsItems    DeclarationAction = "REMOVE_GOODS_ITEMS"
)

// SummaryDeclarationRequest applies one action to every bill of lading declared for a port call.
type SummaryDeclarationRequest struct {
	Requester                 string            `json:"requester"`
	Action                    DeclarationAction `json:"action"`
	PortCallID                string            `json:"port_call_id"`
	SummaryDeclarationNumber  string            `json:"summary_declaration_number"`
	ShippingAgent             model.Party       `json:"shipping_agent"`
	DischargeTerminalOperator *model.Party      `json:"discharge_terminal_operator"` // Default of the bills of lading.
	BillsOfLading             []Declaration     `json:"bills_of_lading"`
}

type SummaryDeclarationResult struct {
	BillsOfLading []model.BillOfLading `json:"bills_of_lading"`
	NewBLIDs      []string             `json:"new_bl_ids"`     // Created by the declaration.
	RemovedBLIDs  []string             `json:"removed_bl_ids"` // Cancelled by the declaration.
}

func (m *_BillOfLadingManager) Create(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/Create",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.BillOfLading.ID())))
	defer span.End()

	if err := ValidateDeclarationRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.create(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) create(ctx context.Context, tx storage.Tx, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	decl := req.BillOfLading
	id := decl.ID()
	exist, err := m.storage.BillOfLadingExists(ctx, tx, id)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if exist {
		return model.BillOfLading{}, fmt.Errorf("bill of lading %s cannot be created: %w", id, model.ErrBillOfLadingAlreadyExists)
	}

	agent, err := m.resolver.Resolve(ctx, tx, &req.ShippingAgent)
	if err != nil {
		return model.BillOfLading{}, err
	}
	carrier, err := m.resolver.Resolve(ctx, tx, &decl.Carrier)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.resolver.Authorize(ctx, tx, req.Requester, fmt.Sprintf("declare bill of lading %s", id), agent.Office()); err != nil {
		return model.BillOfLading{}, err
	}
	isAgent, err := m.resolver.IsAgentOf(ctx, tx, agent, carrier)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if !isAgent {
		return model.BillOfLading{}, fmt.Errorf("shipping agent %s is not agent of carrier %s%w", agent.OrganizationCode(), carrier.OrganizationCode(), model.ErrUnauthorized)
	}
	terminalOperator, err := m.resolver.Resolve(ctx, tx, decl.DischargeTerminalOperator)
	if err != nil {
		return model.BillOfLading{}, err
	}

	bl := model.NewBillOfLading(decl.BLNumber, *carrier)
	bl.ShippingAgent = *agent
	bl.DischargeShippingAgent = *agent
	decl.DischargeTerminalOperator = terminalOperator
	req.BillOfLading = decl
	applyDeclaration(&bl, req)
	bl.GoodsItems = append(bl.GoodsItems, decl.GoodsItems...)
	bl.CreatedAt = ts
	touch(&bl, ts, req.Requester)

	for _, cn := range decl.Containers {
		if _, err := m.registry.Register(ctx, tx, ts, bl, cn); err != nil {
			return model.BillOfLading{}, err
		}
	}
	if err := m.save(ctx, tx, &bl, true); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationCreated, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// loadDeclared loads the bill of lading of a declaration for action and checks that the
// requester is its shipping agent.
func (m *_BillOfLadingManager) loadDeclared(ctx context.Context, tx storage.Tx, req DeclarationRequest, action Action) (model.BillOfLading, error) {
	bl, err := m.load(ctx, tx, req.BillOfLading.ID(), action)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.authorize(ctx, tx, req.Requester, action, bl, nil); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) Change(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/Change",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.BillOfLading.ID())))
	defer span.End()

	if err := ValidateDeclarationRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.change(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) change(ctx context.Context, tx storage.Tx, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	bl, err := m.loadDeclared(ctx, tx, req, ActionChange)
	if err != nil {
		return model.BillOfLading{}, err
	}

	decl := req.BillOfLading
	if decl.DischargeTerminalOperator, err = m.resolver.Resolve(ctx, tx, decl.DischargeTerminalOperator); err != nil {
		return model.BillOfLading{}, err
	}
	req.BillOfLading = decl
	applyDeclaration(&bl, req)
	bl.GoodsItems = append([]model.GoodsItem{}, decl.GoodsItems...)
	touch(&bl, ts, req.Requester)

	stored, err := m.registry.ListContainers(ctx, tx, bl.ID)
	if err != nil {
		return model.BillOfLading{}, err
	}
	declared := declaredContainerNumbers(decl)
	for _, cn := range stored {
		if cn.Status != model.ContainerStatusRegistered || lo.Contains(declared, cn.ContainerNumber) {
			continue
		}
		if _, err := m.registry.Remove(ctx, tx, ts, bl, cn.ContainerNumber); err != nil {
			return model.BillOfLading{}, err
		}
	}
	for _, cn := range decl.Containers {
		if _, err := m.registry.Register(ctx, tx, ts, bl, cn); err != nil {
			return model.BillOfLading{}, err
		}
	}

	if err := m.save(ctx, tx, &bl, false); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationChanged, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) Remove(ctx context.Context, ts int64, req BillOfLadingRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/Remove",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateBillOfLadingRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.remove(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) remove(ctx context.Context, tx storage.Tx, ts int64, req BillOfLadingRequest) (model.BillOfLading, error) {
	bl, err := m.load(ctx, tx, req.ID, ActionRemove)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.authorize(ctx, tx, req.Requester, ActionRemove, bl, nil); err != nil {
		return model.BillOfLading{}, err
	}
	touch(&bl, ts, req.Requester)

	stored, err := m.registry.ListContainers(ctx, tx, bl.ID)
	if err != nil {
		return model.BillOfLading{}, err
	}
	for _, cn := range stored {
		if cn.Status != model.ContainerStatusRegistered {
			continue
		}
		if _, err := m.registry.Remove(ctx, tx, ts, bl, cn.ContainerNumber); err != nil {
			return model.BillOfLading{}, err
		}
	}

	bl.Status = model.BillOfLadingStatusCancelled
	bl.ContainerNumbers = []string{}
	bl.Version++
	if err := m.storage.RemoveBillOfLading(ctx, tx, bl); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationCancelled, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) AddGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (GoodsItemsResult, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/AddGoodsItems",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.BillOfLading.ID())))
	defer span.End()

	if err := ValidateDeclarationRequest(req); err != nil {
		return GoodsItemsResult{}, err
	}

	var result GoodsItemsResult
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		result, err = m.addGoodsItems(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return GoodsItemsResult{}, err
	}
	return result, nil
}

// addGoodsItems creates the bill of lading when it is not declared yet.
func (m *_BillOfLadingManager) addGoodsItems(ctx context.Context, tx storage.Tx, ts int64, req DeclarationRequest) (GoodsItemsResult, error) {
	decl := req.BillOfLading
	exist, err := m.storage.BillOfLadingExists(ctx, tx, decl.ID())
	if err != nil {
		return GoodsItemsResult{}, err
	}
	if !exist {
		bl, err := m.create(ctx, tx, ts, req)
		if err != nil {
			return GoodsItemsResult{}, err
		}
		return GoodsItemsResult{BillOfLading: bl, New: true}, nil
	}

	bl, err := m.loadDeclared(ctx, tx, req, ActionChangeGoodsItems)
	if err != nil {
		return GoodsItemsResult{}, err
	}
	if duplicated := lo.Intersect(bl.GoodsItemNumbers(), goodsItemNumbers(decl.GoodsItems)); len(duplicated) > 0 {
		return GoodsItemsResult{}, fmt.Errorf("goods items %v of bill of lading %s: %w", duplicated, bl.ID, model.ErrGoodsItemAlreadyExists)
	}
	bl.GoodsItems = append(bl.GoodsItems, decl.GoodsItems...)
	touch(&bl, ts, req.Requester)

	for _, cn := range decl.Containers {
		if _, err := m.registry.RegisterItems(ctx, tx, ts, bl, cn); err != nil {
			return GoodsItemsResult{}, err
		}
	}
	if err := m.save(ctx, tx, &bl, false); err != nil {
		return GoodsItemsResult{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationChanged, bl); err != nil {
		return GoodsItemsResult{}, err
	}
	return GoodsItemsResult{BillOfLading: bl}, nil
}

func (m *_BillOfLadingManager) ChangeGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/ChangeGoodsItems",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.BillOfLading.ID())))
	defer span.End()

	if err := ValidateDeclarationRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.changeGoodsItems(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) changeGoodsItems(ctx context.Context, tx storage.Tx, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	bl, err := m.loadDeclared(ctx, tx, req, ActionChangeGoodsItems)
	if err != nil {
		return model.BillOfLading{}, err
	}

	decl := req.BillOfLading
	changed := goodsItemNumbers(decl.GoodsItems)
	if unknown := lo.Without(changed, bl.GoodsItemNumbers()...); len(unknown) > 0 {
		return model.BillOfLading{}, fmt.Errorf("goods items %v of bill of lading %s: %w", unknown, bl.ID, model.ErrGoodsItemNotDeclared)
	}
	bl.GoodsItems = container.UpsertGoodsItems(bl.GoodsItems, decl.GoodsItems)
	touch(&bl, ts, req.Requester)

	// The changed items move to the declared containers.
	if err := m.stripUndeclared(ctx, tx, ts, bl, decl, changed); err != nil {
		return model.BillOfLading{}, err
	}
	for _, cn := range decl.Containers {
		if _, err := m.registry.RegisterItems(ctx, tx, ts, bl, cn); err != nil {
			return model.BillOfLading{}, err
		}
	}

	if err := m.save(ctx, tx, &bl, false); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationChanged, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) RemoveGoodsItems(ctx context.Context, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/RemoveGoodsItems",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.BillOfLading.ID())))
	defer span.End()

	if err := ValidateDeclarationRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.removeGoodsItems(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) removeGoodsItems(ctx context.Context, tx storage.Tx, ts int64, req DeclarationRequest) (model.BillOfLading, error) {
	bl, err := m.loadDeclared(ctx, tx, req, ActionChangeGoodsItems)
	if err != nil {
		return model.BillOfLading{}, err
	}

	decl := req.BillOfLading
	removed := goodsItemNumbers(decl.GoodsItems)
	bl.GoodsItems = lo.Reject(bl.GoodsItems, func(item model.GoodsItem, _ int) bool {
		return lo.Contains(removed, item.GoodsItemNumber)
	})
	touch(&bl, ts, req.Requester)

	for _, cn := range decl.Containers {
		if _, err := m.registry.RemoveItems(ctx, tx, ts, bl, cn); err != nil {
			return model.BillOfLading{}, err
		}
	}
	if err := m.stripUndeclared(ctx, tx, ts, bl, decl, removed); err != nil {
		return model.BillOfLading{}, err
	}

	if err := m.save(ctx, tx, &bl, false); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLDeclarationChanged, bl); err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// stripUndeclared removes the goods items from the stored containers the declaration does not name.
func (m *_BillOfLadingManager) stripUndeclared(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, decl Declaration, itemNumbers []string) error {
	stored, err := m.registry.ListContainers(ctx, tx, bl.ID)
	if err != nil {
		return err
	}
	declared := declaredContainerNumbers(decl)
	for _, cn := range stored {
		if cn.Status != model.ContainerStatusRegistered || lo.Contains(declared, cn.ContainerNumber) {
			continue
		}
		if _, err := m.registry.StripItems(ctx, tx, ts, bl, cn, itemNumbers); err != nil {
			return err
		}
	}
	return nil
}

func (m *_BillOfLadingManager) SummaryDeclaration(ctx context.Context, ts int64, req SummaryDeclarationRequest) (SummaryDeclarationResult, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/SummaryDeclaration",
		trace.WithAttributes(
			attribute.String("requester", req.Requester),
			attribute.String("action", string(req.Action)),
			attribute.String("port_call_id", req.PortCallID),
		))
	defer span.End()

	if err := ValidateSummaryDeclarationRequest(req); err != nil {
		return SummaryDeclarationResult{}, err
	}

	result := SummaryDeclarationResult{
		BillsOfLading: make([]model.BillOfLading, 0, len(req.BillsOfLading)),
		NewBLIDs:      make([]string, 0),
		RemovedBLIDs:  make([]string, 0),
	}
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, decl := range req.BillsOfLading {
			if decl.DischargeTerminalOperator == nil {
				decl.DischargeTerminalOperator = req.DischargeTerminalOperator.Clone()
			}
			declReq := DeclarationRequest{
				Requester:                req.Requester,
				PortCallID:               req.PortCallID,
				SummaryDeclarationNumber: req.SummaryDeclarationNumber,
				ShippingAgent:            req.ShippingAgent,
				BillOfLading:             decl,
			}

			var bl model.BillOfLading
			var err error
			switch req.Action {
			case DeclarationAddBillsOfLading:
				bl, err = m.create(ctx, tx, ts, declReq)
				if err == nil {
					result.NewBLIDs = append(result.NewBLIDs, bl.ID)
				}
			case DeclarationChangeBillsOfLading:
				bl, err = m.change(ctx, tx, ts, declReq)
			case DeclarationRemoveBillsOfLading:
				bl, err = m.remove(ctx, tx, ts, BillOfLadingRequest{Requester: req.Requester, ID: decl.ID()})
				if err == nil {
					result.RemovedBLIDs = append(result.RemovedBLIDs, bl.ID)
				}
			case DeclarationAddGoodsItems:
				var added GoodsItemsResult
				added, err = m.addGoodsItems(ctx, tx, ts, declReq)
				bl = added.BillOfLading
				if err == nil && added.New {
					result.NewBLIDs = append(result.NewBLIDs, bl.ID)
				}
			case DeclarationChangeGoodsItems:
				bl, err = m.changeGoodsItems(ctx, tx, ts, declReq)
			case DeclarationRemoveGoodsItems:
				bl, err = m.removeGoodsItems(ctx, tx, ts, declReq)
			}
			if err != nil {
				return err
			}
			result.BillsOfLading = append(result.BillsOfLading, bl)
		}
		return nil
	})
	if err != nil {
		return SummaryDeclarationResult{}, err
	}
	return result, nil
}

func goodsItemNumbers(items []model.GoodsItem) []string {
	return lo.Map(items, func(item model.GoodsItem, _ int) string { return item.GoodsItemNumber })
}

func declaredContainerNumbers(decl Declaration) []string {
	return lo.Map(decl.Containers, func(cn container.Declaration, _ int) string { return cn.ContainerNumber })
}

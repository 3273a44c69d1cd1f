package memory

import (
	"context"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

func (s *_Storage) BillOfLadingExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	_, ok := memTx.state.billOfLadings[id]
	return ok, nil
}

func (s *_Storage) GetBillOfLading(ctx context.Context, tx storage.Tx, id string) (model.BillOfLading, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return model.BillOfLading{}, err
	}
	bl, ok, err := get[model.BillOfLading](memTx.state.billOfLadings, id)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if !ok {
		return model.BillOfLading{}, fmt.Errorf("%s: %w", id, model.ErrBillOfLadingNotFound)
	}
	return bl, nil
}

func (s *_Storage) AddBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.billOfLadings[bl.ID]; ok {
		return fmt.Errorf("%s: %w", bl.ID, model.ErrBillOfLadingAlreadyExists)
	}
	return memTx.state.put(memTx.state.billOfLadings, bl.ID, bl)
}

func (s *_Storage) UpdateBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.billOfLadings[bl.ID]; !ok {
		return fmt.Errorf("%s: %w", bl.ID, model.ErrBillOfLadingNotFound)
	}
	return memTx.state.put(memTx.state.billOfLadings, bl.ID, bl)
}

func (s *_Storage) RemoveBillOfLading(ctx context.Context, tx storage.Tx, bl model.BillOfLading) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.billOfLadings[bl.ID]; !ok {
		return fmt.Errorf("%s: %w", bl.ID, model.ErrBillOfLadingNotFound)
	}
	delete(memTx.state.billOfLadings, bl.ID)
	return nil
}

func (s *_Storage) ListBillOfLading(ctx context.Context, tx storage.Tx, req storage.ListBillOfLadingRequest) (storage.ListBillOfLadingResult, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListBillOfLadingResult{}, err
	}

	records, err := scan(memTx.state.billOfLadings, func(bl model.BillOfLading) bool {
		if req.OfficeID != "" && !lo.Contains(bl.InvolvedOffices(), req.OfficeID) {
			return false
		}
		if req.PortCallID != "" && bl.PortCallID != req.PortCallID {
			return false
		}
		if len(req.Statuses) > 0 && !lo.Contains(req.Statuses, bl.Status) {
			return false
		}
		return true
	})
	if err != nil {
		return storage.ListBillOfLadingResult{}, err
	}

	return storage.ListBillOfLadingResult{
		Total:   len(records),
		Records: paginate(records, req.Offset, req.Limit),
	}, nil
}

func (s *_Storage) ContainerExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	_, ok := memTx.state.containers[id]
	return ok, nil
}

func (s *_Storage) GetContainer(ctx context.Context, tx storage.Tx, id string) (model.Container, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return model.Container{}, err
	}
	cn, ok, err := get[model.Container](memTx.state.containers, id)
	if err != nil {
		return model.Container{}, err
	}
	if !ok {
		return model.Container{}, fmt.Errorf("%s: %w", id, model.ErrContainerNotFound)
	}
	return cn, nil
}

func (s *_Storage) AddContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.containers[cn.ID]; ok {
		return fmt.Errorf("container %s already exists%w", cn.ID, model.ErrConflict)
	}
	return memTx.state.put(memTx.state.containers, cn.ID, cn)
}

func (s *_Storage) UpdateContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.containers[cn.ID]; !ok {
		return fmt.Errorf("%s: %w", cn.ID, model.ErrContainerNotFound)
	}
	return memTx.state.put(memTx.state.containers, cn.ID, cn)
}

func (s *_Storage) RemoveContainer(ctx context.Context, tx storage.Tx, cn model.Container) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.containers[cn.ID]; !ok {
		return fmt.Errorf("%s: %w", cn.ID, model.ErrContainerNotFound)
	}
	delete(memTx.state.containers, cn.ID)
	return nil
}

func (s *_Storage) ListContainersByBillOfLading(ctx context.Context, tx storage.Tx, blID string) ([]model.Container, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	return scan(memTx.state.containers, func(cn model.Container) bool {
		return cn.BLID == blID
	})
}

func (s *_Storage) FindContainersByOrder(ctx context.Context, tx storage.Tx, kind model.OrderKind, orderID string) ([]model.Container, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	var index func(model.Container) []string
	switch kind {
	case model.OrderKindRelease:
		index = func(cn model.Container) []string { return cn.ReleaseOrders }
	case model.OrderKindAcceptance:
		index = func(cn model.Container) []string { return cn.AcceptanceOrders }
	case model.OrderKindTransport:
		index = func(cn model.Container) []string { return cn.TransportOrders }
	default:
		return nil, fmt.Errorf("unknown order kind %q%w", kind, model.ErrInvalidParameter)
	}
	return scan(memTx.state.containers, func(cn model.Container) bool {
		return lo.Contains(index(cn), orderID)
	})
}

func (s *_Storage) PaymentExists(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	_, ok := memTx.state.payments[id]
	return ok, nil
}

func (s *_Storage) GetPayment(ctx context.Context, tx storage.Tx, id string) (model.Payment, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return model.Payment{}, err
	}
	payment, ok, err := get[model.Payment](memTx.state.payments, id)
	if err != nil {
		return model.Payment{}, err
	}
	if !ok {
		return model.Payment{}, fmt.Errorf("%s: %w", id, model.ErrPaymentNotFound)
	}
	return payment, nil
}

func (s *_Storage) AddPayment(ctx context.Context, tx storage.Tx, payment model.Payment) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.payments[payment.ID]; ok {
		return fmt.Errorf("%s: %w", payment.ID, model.ErrPaymentAlreadyExists)
	}
	return memTx.state.put(memTx.state.payments, payment.ID, payment)
}

func (s *_Storage) UpdatePayment(ctx context.Context, tx storage.Tx, payment model.Payment) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	if _, ok := memTx.state.payments[payment.ID]; !ok {
		return fmt.Errorf("%s: %w", payment.ID, model.ErrPaymentNotFound)
	}
	return memTx.state.put(memTx.state.payments, payment.ID, payment)
}

package container_test

import (
	"context"

	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

// inTx runs fn in a write transaction committed when fn succeeds.
func (s *MovementControllerTestSuite) inTx(fn func(ctx context.Context, tx storage.Tx) error) error {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(true))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *MovementControllerTestSuite) TestRegisterItemsUpserts() {
	var cn model.Container
	err := s.inTx(func(ctx context.Context, tx storage.Tx) (err error) {
		cn, err = s.registry.RegisterItems(ctx, tx, s.ts, s.bl, container.Declaration{
			ContainerNumber: "MSCU1234567",
			GoodsItems: []model.GoodsItem{
				{GoodsItemNumber: "2", Description: "coffee"},
				{GoodsItemNumber: "3"},
			},
		})
		return err
	})
	s.Require().NoError(err)
	s.Equal([]string{"1", "2", "3"}, cn.GoodsItemNumbers())
	s.Equal("coffee", cn.GoodsItems[1].Description)
	s.Equal("22G1", cn.SummaryContainerType)
	s.Equal(int64(2), cn.Version)
}

func (s *MovementControllerTestSuite) TestRemoveItemsCancelsEmptyContainer() {
	var cn model.Container
	err := s.inTx(func(ctx context.Context, tx storage.Tx) (err error) {
		cn, err = s.registry.RemoveItems(ctx, tx, s.ts, s.bl, container.Declaration{
			ContainerNumber: "MSCU1234567",
			GoodsItems:      []model.GoodsItem{{GoodsItemNumber: "1"}},
		})
		return err
	})
	s.Require().NoError(err)
	s.Equal(model.ContainerStatusRegistered, cn.Status)
	s.Equal([]string{"2"}, cn.GoodsItemNumbers())

	err = s.inTx(func(ctx context.Context, tx storage.Tx) (err error) {
		cn, err = s.registry.RemoveItems(ctx, tx, s.ts, s.bl, container.Declaration{
			ContainerNumber: "MSCU1234567",
			GoodsItems:      []model.GoodsItem{{GoodsItemNumber: "2"}},
		})
		return err
	})
	s.Require().NoError(err)
	s.Equal(model.ContainerStatusCancelled, cn.Status)

	err = s.inTx(func(ctx context.Context, tx storage.Tx) error {
		numbers, err := s.registry.ContainerNumbers(ctx, tx, s.bl.ID)
		s.Empty(numbers)
		return err
	})
	s.Require().NoError(err)

	cancelled, found := lo.Find(s.events(), func(e model.Event) bool { return e.Type == model.EventContainerDeclarationCancelled })
	s.Require().True(found)
	s.ElementsMatch([]string{agentOffice, carrierOffice, holderOffice, terminalOffice}, cancelled.Offices)
}

func (s *MovementControllerTestSuite) TestRemoveItemsOfUnknownContainer() {
	err := s.inTx(func(ctx context.Context, tx storage.Tx) error {
		_, err := s.registry.RemoveItems(ctx, tx, s.ts, s.bl, container.Declaration{
			ContainerNumber: "TGHU0000000",
			GoodsItems:      []model.GoodsItem{{GoodsItemNumber: "1"}},
		})
		return err
	})
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *MovementControllerTestSuite) TestStripItemsLeavesOtherContainers() {
	err := s.inTx(func(ctx context.Context, tx storage.Tx) error {
		_, err := s.registry.Register(ctx, tx, s.ts, s.bl, container.Declaration{
			ContainerNumber: "TGHU0000000",
			GoodsItems:      []model.GoodsItem{{GoodsItemNumber: "3"}},
		})
		if err != nil {
			return err
		}
		containers, err := s.registry.ListContainers(ctx, tx, s.bl.ID)
		if err != nil {
			return err
		}
		s.Require().Len(containers, 2)
		for _, cn := range containers {
			if _, err := s.registry.StripItems(ctx, tx, s.ts, s.bl, cn, []string{"3"}); err != nil {
				return err
			}
		}
		numbers, err := s.registry.ContainerNumbers(ctx, tx, s.bl.ID)
		s.Equal([]string{"MSCU1234567"}, numbers)
		return err
	})
	s.Require().NoError(err)
}

func (s *MovementControllerTestSuite) TestUpsertGoodsItems() {
	items := container.UpsertGoodsItems(
		[]model.GoodsItem{{GoodsItemNumber: "1"}, {GoodsItemNumber: "2"}},
		[]model.GoodsItem{{GoodsItemNumber: "2", PackageType: "BX"}, {GoodsItemNumber: "4"}},
	)
	s.Equal([]model.GoodsItem{{GoodsItemNumber: "1"}, {GoodsItemNumber: "2", PackageType: "BX"}, {GoodsItemNumber: "4"}}, items)
}

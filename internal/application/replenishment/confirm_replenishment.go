package replenishment

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/replenishment"
)

// TxManager 事务管理接口(实现:mysql.TxManager)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConfirmReplenishmentUseCase 确认补货到货用例(管理端)
type ConfirmReplenishmentUseCase struct {
	replRepo  replenishment.Repository
	bookRepo  book.Repository
	txManager TxManager
}

// NewConfirmReplenishmentUseCase 创建确认到货用例
func NewConfirmReplenishmentUseCase(
	replRepo replenishment.Repository,
	bookRepo book.Repository,
	txManager TxManager,
) *ConfirmReplenishmentUseCase {
	return &ConfirmReplenishmentUseCase{
		replRepo:  replRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// Execute 确认到货
// 业务规则:
// 1. 只有Pending状态的补货单可以确认,重复确认被拒绝
// 2. 状态变更与库存入账在同一事务内完成
//    (旧版的入库加库存是数据库触发器做的,这里改为显式应用代码)
// 3. 加库存前先锁图书行,与结算的扣减走同一套行锁协议
func (uc *ConfirmReplenishmentUseCase) Execute(ctx context.Context, id uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.replRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := o.Confirm(); err != nil {
			return err
		}

		if _, err := uc.bookRepo.LockByISBN(txCtx, o.ISBN); err != nil {
			return err
		}
		if err := uc.bookRepo.UpdateStock(txCtx, o.ISBN, o.Qty); err != nil {
			return err
		}

		return uc.replRepo.Update(txCtx, o)
	})
}

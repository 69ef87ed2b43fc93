package order

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/order"
)

// CancelOrderUseCase 取消订单用例
type CancelOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// OrderCancelledEvent 订单取消事件(routing key: order.cancelled)
type OrderCancelledEvent struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	UserID    uint   `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// Execute 取消订单
// 业务规则:
// 1. 只能取消自己的订单
// 2. 状态机允许才能取消(Cancelled是终态)
// 3. 取消与库存回补在同一事务内:先锁图书行再加库存,
//    与结算共用同一套行锁协议
func (uc *CancelOrderUseCase) Execute(ctx context.Context, userID, orderID uint) error {
	var cancelled *order.Order

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return order.ErrNotOrderOwner
		}

		if err := o.Cancel(); err != nil {
			return err
		}

		// 回补库存:与结算保持同一加锁顺序(ISBN升序),避免交叉死锁
		items := append([]order.Item(nil), o.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].ISBN < items[j].ISBN })

		for _, item := range items {
			if _, err := uc.bookRepo.LockByISBN(txCtx, item.ISBN); err != nil {
				return err
			}
			if err := uc.bookRepo.UpdateStock(txCtx, item.ISBN, item.Qty); err != nil {
				return err
			}
		}

		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	if uc.publisher != nil {
		event := OrderCancelledEvent{
			OrderID:   cancelled.ID,
			OrderNo:   cancelled.OrderNo,
			UserID:    cancelled.UserID,
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if err := uc.publisher.Publish(ctx, "order.cancelled", event); err != nil {
			log.Printf("发布order.cancelled事件失败: %v", err)
		}
	}

	return nil
}

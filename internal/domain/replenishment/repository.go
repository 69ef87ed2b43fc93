package replenishment

import (
	"context"
)

// Repository 补货单仓储接口
type Repository interface {
	// Create 创建补货单(回填ID)
	Create(ctx context.Context, o *Order) error

	// FindByID 根据ID查找补货单
	FindByID(ctx context.Context, id uint) (*Order, error)

	// Update 更新补货单(状态)
	Update(ctx context.Context, o *Order) error

	// List 分页查询补货单(status为空表示全部,按下单时间倒序)
	List(ctx context.Context, status Status, page, pageSize int) ([]*Order, int64, error)

	// ExistsPending 是否已存在该书的Pending补货单
	// 结算事务内调用:持有图书行锁时检查,保证幂等判断不会并发穿透
	ExistsPending(ctx context.Context, isbn string) (bool, error)
}

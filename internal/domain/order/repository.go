package order

import (
	"context"
)

// Repository 订单仓储接口
// 设计说明:
// 1. Create必须同时持久化Order与Items(聚合整体写入)
// 2. 结算事务通过context传递事务DB,实现层自动识别
type Repository interface {
	// Create 创建订单(含明细,回填ID)
	Create(ctx context.Context, o *Order) error

	// FindByID 根据ID查找订单(含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单(含明细)
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 更新订单(状态/总额)
	Update(ctx context.Context, o *Order) error

	// ListByUserID 分页查询用户的订单列表(按创建时间倒序)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// CreateSalesTransaction 记录销售流水(结算事务内追加写)
	CreateSalesTransaction(ctx context.Context, st *SalesTransaction) error
}

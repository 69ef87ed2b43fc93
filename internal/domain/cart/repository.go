package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 设计说明:
// 1. EnsureActive实现"惰性创建":取最新ACTIVE购物车,没有则插入一个
// 2. 明细写操作都以(cartID, isbn)定位,Upsert语义由实现层处理
// 3. 结算事务通过context传递事务DB,ListItems/ClearItems需支持在事务内调用
type Repository interface {
	// EnsureActive 返回用户最新的ACTIVE购物车ID,不存在则创建
	EnsureActive(ctx context.Context, userID uint) (uint, error)

	// GetItemQty 查询购物车中某本书的当前数量(没有则返回0)
	GetItemQty(ctx context.Context, cartID uint, isbn string) (int, error)

	// AddItem 插入或累加明细数量(ON CONFLICT DO UPDATE语义)
	AddItem(ctx context.Context, cartID uint, isbn string, qty int) error

	// SetItemQty 覆盖明细数量
	SetItemQty(ctx context.Context, cartID uint, isbn string, qty int) error

	// RemoveItem 删除单条明细(无条件,不存在也成功)
	RemoveItem(ctx context.Context, cartID uint, isbn string) error

	// ClearItems 清空全部明细(幂等:空购物车清空也成功)
	ClearItems(ctx context.Context, cartID uint) error

	// ListItems 查询全部明细(仅ISBN+数量,结算事务用)
	ListItems(ctx context.Context, cartID uint) ([]*Item, error)

	// ListLines 查询明细并JOIN图书实时价格/书名/库存(展示用)
	ListLines(ctx context.Context, cartID uint) ([]*Line, error)
}

package cart

import (
	"time"
)

// Status 购物车状态
// 每个用户最多有一个ACTIVE购物车,首次访问时惰性创建;
// 结算只清空明细,购物车行保留为空继续复用
type Status string

const (
	// StatusActive 正在接受商品变更的购物车
	StatusActive Status = "ACTIVE"
)

// Cart 购物车实体
type Cart struct {
	ID        uint
	UserID    uint
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 购物车明细项
// 仅保存(ISBN,数量)引用,价格/书名在展示时与图书表实时JOIN
type Item struct {
	CartID uint
	ISBN   string
	Qty    int
}

// Line 购物车行的读模型(与图书实时数据JOIN后的展示行)
// 注意:这里的Stock是无锁快照,仅用于前端提示,
// 权威库存校验在结算事务的锁内复核
type Line struct {
	ISBN      string
	Title     string
	Price     int64 // 当前单价(分)
	Stock     int   // 当前库存快照
	Qty       int
	LineTotal int64 // Price*Qty(分)
}

// TotalOf 计算购物车行列表的合计金额(分)
func TotalOf(lines []*Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}
	return total
}

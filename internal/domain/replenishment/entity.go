package replenishment

import (
	"time"
)

// Status 补货单状态
type Status string

const (
	// StatusPending 已发起,等待管理员确认到货
	StatusPending Status = "Pending"
	// StatusConfirmed 已确认到货,库存已入账
	StatusConfirmed Status = "Confirmed"
)

// Order 补货单实体
// 业务规则:
// 1. 结算扣减库存后若跌破阈值,系统自动发起补货单
// 2. 同一本书同时最多存在一张Pending补货单(幂等保护)
// 3. 管理员确认到货时,补货数量一次性加回库存
type Order struct {
	ID          uint
	ISBN        string
	PublisherID uint // 下单对象:该书的出版社
	Qty         int  // 补货数量
	Status      Status
	OrderDate   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder 创建补货单(初始状态Pending)
func NewOrder(isbn string, publisherID uint, qty int) *Order {
	now := time.Now()
	return &Order{
		ISBN:        isbn,
		PublisherID: publisherID,
		Qty:         qty,
		Status:      StatusPending,
		OrderDate:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Confirm 确认到货
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return ErrAlreadyConfirmed
	}
	o.Status = StatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

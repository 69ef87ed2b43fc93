package order

import (
	"time"
)

// Status 订单状态
// 说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态集合:Pending(结算事务内的中间态)→Confirmed,或Cancelled
type Status int

const (
	StatusPending   Status = 1 // 待确认(结算事务内创建时的初始态)
	StatusConfirmed Status = 2 // 已确认(结算事务提交即确认)
	StatusCancelled Status = 3 // 已取消(库存已回补)
)

// String 实现Stringer接口(方便日志输出与DTO转换)
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// PaymentCOD 货到付款订单在payment_last4字段的标记值
const PaymentCOD = "COD"

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,Item是子实体,必须在同一事务中创建
// 2. 订单创建后除状态外不可变,Total在确认时一次性写入
// 3. PaymentLast4仅保留卡号末4位(或"COD"标记),完整卡号不落库
type Order struct {
	ID           uint
	OrderNo      string // 订单号(业务主键,全局唯一)
	UserID       uint   // 买家用户ID
	Total        int64  // 订单总金额(分)
	Status       Status
	PaymentLast4 string // 卡号末4位,货到付款为"COD"
	Items        []Item // 订单明细(聚合内的子实体)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Item 订单明细项(下单时刻的快照)
// 设计说明:
// 1. TitleSnapshot/PriceSnapshot是"购买时刻"的副本,
//    后续目录编辑(改名/改价)不会影响历史订单
// 2. 不直接关联Book对象,只保存ISBN(避免跨聚合引用)
type Item struct {
	ID            uint
	OrderID       uint
	ISBN          string
	TitleSnapshot string // 购买时的书名快照
	PriceSnapshot int64  // 购买时的单价快照(分)
	Qty           int
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为Pending,结算事务在计算出总额后调用Confirm
func NewOrder(orderNo string, userID uint, paymentLast4 string, items []Item) *Order {
	now := time.Now()
	return &Order{
		OrderNo:      orderNo,
		UserID:       userID,
		Status:       StatusPending,
		PaymentLast4: paymentLast4,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机:Pending→Confirmed/Cancelled,Confirmed→Cancelled,Cancelled为终态
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCancelled},
		StatusCancelled: {},
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm 确认订单并写入总额(领域行为,结算事务内调用)
func (o *Order) Confirm(total int64) error {
	if err := o.TransitionTo(StatusConfirmed); err != nil {
		return err
	}
	o.Total = total
	return nil
}

// Cancel 取消订单(领域行为)
// 注意:调用方必须在同一事务内回补每条明细的库存
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// CalculateTotal 按明细快照计算订单总金额(分)
// 快照价×数量逐行求和;以分为单位求和天然精确,格式化到元由DTO层负责
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.PriceSnapshot * int64(item.Qty)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户(防止越权访问他人订单)
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// SalesTransaction 销售流水(仅用于报表聚合,追加写)
type SalesTransaction struct {
	ID       uint
	OrderID  uint
	Amount   int64 // 金额(分)
	SaleDate time.Time
}

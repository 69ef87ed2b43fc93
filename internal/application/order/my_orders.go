package order

import (
	"context"
	"fmt"

	"github.com/xiebiao/booky/internal/domain/order"
)

// MyOrdersUseCase 查询我的订单列表用例
type MyOrdersUseCase struct {
	orderRepo order.Repository
}

// NewMyOrdersUseCase 创建查询订单列表用例
func NewMyOrdersUseCase(orderRepo order.Repository) *MyOrdersUseCase {
	return &MyOrdersUseCase{orderRepo: orderRepo}
}

// MyOrdersRequest 查询请求
type MyOrdersRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

// OrderSummary 订单列表项
type OrderSummary struct {
	OrderID      uint   `json:"order_id"`
	OrderNo      string `json:"order_no"`
	TotalYuan    string `json:"total_yuan"`
	Status       string `json:"status"`
	PaymentLast4 string `json:"payment_last4"`
	ItemCount    int    `json:"item_count"`
	CreatedAt    string `json:"created_at"`
}

// MyOrdersResponse 查询响应
type MyOrdersResponse struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
}

// Execute 分页查询当前用户的订单(按创建时间倒序)
func (uc *MyOrdersUseCase) Execute(ctx context.Context, req MyOrdersRequest) (*MyOrdersResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	orders, total, err := uc.orderRepo.ListByUserID(ctx, req.UserID, page, pageSize)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, len(orders))
	for i, o := range orders {
		summaries[i] = OrderSummary{
			OrderID:      o.ID,
			OrderNo:      o.OrderNo,
			TotalYuan:    formatPrice(o.Total),
			Status:       o.Status.String(),
			PaymentLast4: o.PaymentLast4,
			ItemCount:    len(o.Items),
			CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &MyOrdersResponse{Orders: summaries, Total: total}, nil
}

// GetOrderUseCase 查询订单详情用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建查询订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderDetail 订单详情
type OrderDetail struct {
	OrderSummary
	Items []OrderDetailItem `json:"items"`
}

// OrderDetailItem 订单明细项(快照值)
type OrderDetailItem struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	UnitPriceYuan string `json:"unit_price_yuan"`
	Qty           int    `json:"qty"`
	LineTotalYuan string `json:"line_total_yuan"`
}

// Execute 查询订单详情
// 业务规则:只能查看自己的订单,他人订单返回无权限
func (uc *GetOrderUseCase) Execute(ctx context.Context, userID, orderID uint) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrNotOrderOwner
	}

	items := make([]OrderDetailItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderDetailItem{
			ISBN:          item.ISBN,
			Title:         item.TitleSnapshot,
			UnitPriceYuan: formatPrice(item.PriceSnapshot),
			Qty:           item.Qty,
			LineTotalYuan: formatPrice(item.PriceSnapshot * int64(item.Qty)),
		}
	}

	return &OrderDetail{
		OrderSummary: OrderSummary{
			OrderID:      o.ID,
			OrderNo:      o.OrderNo,
			TotalYuan:    formatPrice(o.Total),
			Status:       o.Status.String(),
			PaymentLast4: o.PaymentLast4,
			ItemCount:    len(o.Items),
			CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		},
		Items: items,
	}, nil
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// normalizePage 分页参数归一化(页码默认1,每页默认20、上限50)
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	return page, pageSize
}

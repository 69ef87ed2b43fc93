package replenishment

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/replenishment"
)

// ListReplenishmentsUseCase 补货单列表用例(管理端)
type ListReplenishmentsUseCase struct {
	replRepo replenishment.Repository
}

// NewListReplenishmentsUseCase 创建补货单列表用例
func NewListReplenishmentsUseCase(replRepo replenishment.Repository) *ListReplenishmentsUseCase {
	return &ListReplenishmentsUseCase{replRepo: replRepo}
}

// ListRequest 补货单查询请求
type ListRequest struct {
	Status   string // Pending/Confirmed,空表示全部
	Page     int
	PageSize int
}

// ReplenishmentItem 补货单列表项
type ReplenishmentItem struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	PublisherID uint   `json:"publisher_id"`
	Qty         int    `json:"qty"`
	Status      string `json:"status"`
	OrderDate   string `json:"order_date"`
}

// ListResponse 补货单查询响应
type ListResponse struct {
	Replenishments []ReplenishmentItem `json:"replenishments"`
	Total          int64               `json:"total"`
}

// Execute 分页查询补货单
func (uc *ListReplenishmentsUseCase) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}

	orders, total, err := uc.replRepo.List(ctx, replenishment.Status(req.Status), page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]ReplenishmentItem, len(orders))
	for i, o := range orders {
		items[i] = ReplenishmentItem{
			ID:          o.ID,
			ISBN:        o.ISBN,
			PublisherID: o.PublisherID,
			Qty:         o.Qty,
			Status:      string(o.Status),
			OrderDate:   o.OrderDate.Format("2006-01-02 15:04:05"),
		}
	}

	return &ListResponse{Replenishments: items, Total: total}, nil
}

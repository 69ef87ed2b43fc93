package report

import (
	"context"
	"fmt"

	"github.com/xiebiao/booky/internal/domain/report"
)

// ReportsUseCase 报表查询用例(管理端)
type ReportsUseCase struct {
	reportRepo report.Repository
}

// NewReportsUseCase 创建报表用例
func NewReportsUseCase(reportRepo report.Repository) *ReportsUseCase {
	return &ReportsUseCase{reportRepo: reportRepo}
}

// MonthlySalesItem 月度销售额行
type MonthlySalesItem struct {
	Month      string `json:"month"`
	OrderCount int64  `json:"order_count"`
	AmountYuan string `json:"amount_yuan"`
}

// TopCustomerItem 消费排行行
type TopCustomerItem struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	OrderCount int64  `json:"order_count"`
	AmountYuan string `json:"amount_yuan"`
}

// TopBookItem 畅销排行行
type TopBookItem struct {
	ISBN       string `json:"isbn"`
	Title      string `json:"title"`
	SoldQty    int64  `json:"sold_qty"`
	AmountYuan string `json:"amount_yuan"`
}

// ReplenishmentCountItem 补货统计行
type ReplenishmentCountItem struct {
	ISBN         string `json:"isbn"`
	Title        string `json:"title"`
	PendingCount int64  `json:"pending_count"`
	TotalCount   int64  `json:"total_count"`
}

// MonthlySales 最近months个月的月度销售额(默认12个月,上限24)
func (uc *ReportsUseCase) MonthlySales(ctx context.Context, months int) ([]MonthlySalesItem, error) {
	if months < 1 {
		months = 12
	}
	if months > 24 {
		months = 24
	}

	rows, err := uc.reportRepo.MonthlySales(ctx, months)
	if err != nil {
		return nil, err
	}

	out := make([]MonthlySalesItem, len(rows))
	for i, r := range rows {
		out[i] = MonthlySalesItem{
			Month:      r.Month,
			OrderCount: r.OrderCount,
			AmountYuan: formatPrice(r.Amount),
		}
	}
	return out, nil
}

// TopCustomers 消费金额排行(默认前10,上限50)
func (uc *ReportsUseCase) TopCustomers(ctx context.Context, limit int) ([]TopCustomerItem, error) {
	limit = clampLimit(limit)

	rows, err := uc.reportRepo.TopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]TopCustomerItem, len(rows))
	for i, r := range rows {
		out[i] = TopCustomerItem{
			UserID:     r.UserID,
			Username:   r.Username,
			OrderCount: r.OrderCount,
			AmountYuan: formatPrice(r.Amount),
		}
	}
	return out, nil
}

// TopBooks 销量排行(默认前10,上限50)
func (uc *ReportsUseCase) TopBooks(ctx context.Context, limit int) ([]TopBookItem, error) {
	limit = clampLimit(limit)

	rows, err := uc.reportRepo.TopBooks(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]TopBookItem, len(rows))
	for i, r := range rows {
		out[i] = TopBookItem{
			ISBN:       r.ISBN,
			Title:      r.Title,
			SoldQty:    r.SoldQty,
			AmountYuan: formatPrice(r.Amount),
		}
	}
	return out, nil
}

// ReplenishmentCounts 各图书补货单统计
func (uc *ReportsUseCase) ReplenishmentCounts(ctx context.Context) ([]ReplenishmentCountItem, error) {
	rows, err := uc.reportRepo.ReplenishmentCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ReplenishmentCountItem, len(rows))
	for i, r := range rows {
		out[i] = ReplenishmentCountItem{
			ISBN:         r.ISBN,
			Title:        r.Title,
			PendingCount: r.PendingCount,
			TotalCount:   r.TotalCount,
		}
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}

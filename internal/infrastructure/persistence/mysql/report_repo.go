package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/booky/internal/domain/order"
	"github.com/xiebiao/booky/internal/domain/report"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// reportRepository 报表仓储实现(MySQL)
// 设计说明:
// 1. 报表是纯聚合查询,直接用Raw SQL表达比链式API清晰
// 2. 只统计已确认订单(status=2),取消订单不计入销售
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

// MonthlySales 最近months个月的月度销售额(按销售流水聚合)
func (r *reportRepository) MonthlySales(ctx context.Context, months int) ([]*report.MonthlySales, error) {
	var rows []struct {
		Month      string
		OrderCount int64
		Amount     int64
	}

	err := getDB(ctx, r.db).Raw(`
		SELECT DATE_FORMAT(sale_date, '%Y-%m') AS month,
		       COUNT(*)                        AS order_count,
		       COALESCE(SUM(amount), 0)       AS amount
		FROM sales_transactions
		WHERE sale_date >= DATE_SUB(CURDATE(), INTERVAL ? MONTH)
		GROUP BY DATE_FORMAT(sale_date, '%Y-%m')
		ORDER BY month DESC`, months).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询月度销售额失败")
	}

	out := make([]*report.MonthlySales, len(rows))
	for i, row := range rows {
		out[i] = &report.MonthlySales{Month: row.Month, OrderCount: row.OrderCount, Amount: row.Amount}
	}
	return out, nil
}

// TopCustomers 消费金额前limit名的顾客(只计已确认订单)
func (r *reportRepository) TopCustomers(ctx context.Context, limit int) ([]*report.TopCustomer, error) {
	var rows []struct {
		UserID     uint
		Username   string
		OrderCount int64
		Amount     int64
	}

	err := getDB(ctx, r.db).Raw(fmt.Sprintf(`
		SELECT o.user_id                 AS user_id,
		       u.username                AS username,
		       COUNT(*)                  AS order_count,
		       COALESCE(SUM(o.total), 0) AS amount
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = %d
		GROUP BY o.user_id, u.username
		ORDER BY amount DESC
		LIMIT ?`, confirmedStatus), limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询消费排行失败")
	}

	out := make([]*report.TopCustomer, len(rows))
	for i, row := range rows {
		out[i] = &report.TopCustomer{
			UserID:     row.UserID,
			Username:   row.Username,
			OrderCount: row.OrderCount,
			Amount:     row.Amount,
		}
	}
	return out, nil
}

// TopBooks 销量前limit名的图书(按明细快照聚合,只计已确认订单)
func (r *reportRepository) TopBooks(ctx context.Context, limit int) ([]*report.TopBook, error) {
	var rows []struct {
		ISBN    string
		Title   string
		SoldQty int64
		Amount  int64
	}

	err := getDB(ctx, r.db).Raw(fmt.Sprintf(`
		SELECT oi.isbn                                         AS isbn,
		       COALESCE(b.title, oi.title_snapshot)            AS title,
		       COALESCE(SUM(oi.qty), 0)                        AS sold_qty,
		       COALESCE(SUM(oi.price_snapshot * oi.qty), 0)    AS amount
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN books b ON b.isbn = oi.isbn
		WHERE o.status = %d
		GROUP BY oi.isbn, COALESCE(b.title, oi.title_snapshot)
		ORDER BY sold_qty DESC
		LIMIT ?`, confirmedStatus), limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询畅销排行失败")
	}

	out := make([]*report.TopBook, len(rows))
	for i, row := range rows {
		out[i] = &report.TopBook{ISBN: row.ISBN, Title: row.Title, SoldQty: row.SoldQty, Amount: row.Amount}
	}
	return out, nil
}

// ReplenishmentCounts 各图书的补货单统计
func (r *reportRepository) ReplenishmentCounts(ctx context.Context) ([]*report.ReplenishmentCount, error) {
	var rows []struct {
		ISBN         string
		Title        string
		PendingCount int64
		TotalCount   int64
	}

	err := getDB(ctx, r.db).Raw(`
		SELECT ro.isbn                                             AS isbn,
		       COALESCE(b.title, '')                               AS title,
		       SUM(CASE WHEN ro.status = 'Pending' THEN 1 ELSE 0 END) AS pending_count,
		       COUNT(*)                                            AS total_count
		FROM replenishment_orders ro
		LEFT JOIN books b ON b.isbn = ro.isbn
		GROUP BY ro.isbn, COALESCE(b.title, '')
		ORDER BY total_count DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询补货统计失败")
	}

	out := make([]*report.ReplenishmentCount, len(rows))
	for i, row := range rows {
		out[i] = &report.ReplenishmentCount{
			ISBN:         row.ISBN,
			Title:        row.Title,
			PendingCount: row.PendingCount,
			TotalCount:   row.TotalCount,
		}
	}
	return out, nil
}

// confirmedStatus 已确认订单的状态值(报表只统计已确认订单)
var confirmedStatus = int(order.StatusConfirmed)

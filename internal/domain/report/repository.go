// Package report 报表读模型
// 只读聚合查询,没有实体与业务行为,数据源是销售流水/订单明细/补货单
package report

import (
	"context"
)

// MonthlySales 月度销售额(按销售流水聚合)
type MonthlySales struct {
	Month      string // YYYY-MM
	OrderCount int64
	Amount     int64 // 合计金额(分)
}

// TopCustomer 消费排行
type TopCustomer struct {
	UserID     uint
	Username   string
	OrderCount int64
	Amount     int64 // 累计消费(分)
}

// TopBook 畅销排行(按订单明细快照聚合,只统计已确认订单)
type TopBook struct {
	ISBN    string
	Title   string // 当前书名(快照书名可能已过时)
	SoldQty int64
	Amount  int64 // 累计销售额(分)
}

// ReplenishmentCount 补货统计
type ReplenishmentCount struct {
	ISBN         string
	Title        string
	PendingCount int64
	TotalCount   int64
}

// Repository 报表仓储接口
type Repository interface {
	// MonthlySales 最近months个月的月度销售额
	MonthlySales(ctx context.Context, months int) ([]*MonthlySales, error)

	// TopCustomers 消费金额前limit名的顾客
	TopCustomers(ctx context.Context, limit int) ([]*TopCustomer, error)

	// TopBooks 销量前limit名的图书
	TopBooks(ctx context.Context, limit int) ([]*TopBook, error)

	// ReplenishmentCounts 各图书的补货单统计
	ReplenishmentCounts(ctx context.Context) ([]*ReplenishmentCount, error)
}

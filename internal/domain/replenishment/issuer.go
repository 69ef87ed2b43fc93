package replenishment

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/book"
)

// Issuer 自动补货服务(领域服务)
// 设计说明:
// 1. 原实现用数据库触发器在扣库存后自动插入补货单,
//    这里改为显式的领域服务,由结算用例在事务内调用,
//    业务规则可见、可测试、可演进
// 2. 必须在持有图书行锁的事务内调用:锁保证"读库存→判阈值→插补货单"
//    这一序列不会与并发结算交错,幂等检查才可靠
type Issuer struct {
	repo Repository
}

// NewIssuer 创建自动补货服务
func NewIssuer(repo Repository) *Issuer {
	return &Issuer{repo: repo}
}

// IssueIfBelowThreshold 若图书扣减后跌破阈值则发起补货单
// 业务规则:
// 1. 仅当stock <= threshold时触发
// 2. 同一本书已有Pending补货单时跳过(不叠加)
// 3. 补货量 = 2*threshold - stock,且不低于threshold本身
// 返回值:发起的补货单(跳过时为nil)
func (s *Issuer) IssueIfBelowThreshold(ctx context.Context, b *book.Book) (*Order, error) {
	if !b.BelowThreshold() {
		return nil, nil
	}

	exists, err := s.repo.ExistsPending(ctx, b.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	qty := 2*b.Threshold - b.Stock
	if qty < b.Threshold {
		qty = b.Threshold
	}

	o := NewOrder(b.ISBN, b.PublisherID, qty)
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

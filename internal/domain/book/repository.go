package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 库存有两种读法:普通读(购物车的建议性校验)与锁定读(结算的权威校验),
//    同一个"库存可用性"能力,两种一致性级别
type Repository interface {
	// Create 创建图书(含作者关联)
	Create(ctx context.Context, b *Book, authors []string) error

	// FindByISBN 根据ISBN查找图书(普通读,无锁)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// GetDetail 图书详情(含分类名/出版社信息/作者列表)
	GetDetail(ctx context.Context, isbn string) (*Detail, error)

	// Update 部分更新图书信息(零值字段不更新,COALESCE语义)
	Update(ctx context.Context, isbn string, patch UpdatePatch) error

	// SetStock 管理端直接设置库存绝对值
	// 业务规则:负数在应用层拒绝(原实现靠数据库触发器拦截)
	SetStock(ctx context.Context, isbn string, stock int) error

	// List 目录查询:过滤+分页,返回聚合了作者列表的读模型
	List(ctx context.Context, params ListParams) ([]*Summary, int64, error)

	// LockByISBN 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 结算事务必须先对购物车涉及的每本书加行锁,再在锁内复核库存,
	// 这一"先锁后查"的顺序是防超卖的关键
	LockByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateStock 增量更新库存(原子操作)
	// delta为正数表示增加,负数表示减少
	// 内部通过WHERE stock_qty + delta >= 0保证不出现负库存,
	// 不足时返回ErrInsufficientStock
	UpdateStock(ctx context.Context, isbn string, delta int) error

	// ListCategories 查询全部分类(按名称排序)
	ListCategories(ctx context.Context) ([]*Category, error)

	// FindPublisher 根据ID查找出版社
	FindPublisher(ctx context.Context, id uint) (*Publisher, error)
}

// ListParams 目录查询参数
// 过滤条件全部可选,组合为AND语义
type ListParams struct {
	ISBN       string // ISBN精确匹配
	Title      string // 书名模糊匹配
	Author     string // 作者姓名模糊匹配
	Publisher  string // 出版社名模糊匹配
	CategoryID uint   // 分类ID
	Page       int    // 页码(从1开始,默认1)
	PageSize   int    // 每页数量(默认20,上限50)
}

// UpdatePatch 图书部分更新字段
// 指针为nil表示不更新该字段
type UpdatePatch struct {
	Title           *string
	PublicationYear *int
	Price           *int64
	CategoryID      *uint
	PublisherID     *uint
	Threshold       *int
}

package book

import (
	"context"
	"time"

	"github.com/xiebiao/booky/internal/domain/book"
)

// AddBookUseCase 新增图书用例(管理端)
type AddBookUseCase struct {
	bookRepo book.Repository
}

// NewAddBookUseCase 创建新增图书用例
func NewAddBookUseCase(bookRepo book.Repository) *AddBookUseCase {
	return &AddBookUseCase{bookRepo: bookRepo}
}

// AddBookRequest 新增图书请求
type AddBookRequest struct {
	ISBN            string
	Title           string
	PublicationYear int
	Price           int64 // 单位:分
	CategoryID      uint
	PublisherID     uint
	Stock           int
	Threshold       int
	Authors         []string // 作者姓名列表(不存在则创建)
}

// Execute 新增图书
// 业务规则:
// 1. 价格/库存/阈值不能为负,出版年份不能晚于明年
// 2. 分类和出版社必须已存在
// 3. ISBN唯一性由数据库UNIQUE索引保证
// 4. 作者按姓名Upsert:已有同名作者直接关联,否则新建
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) error {
	if req.Price < 0 {
		return book.ErrInvalidPrice
	}
	if req.Stock < 0 || req.Threshold < 0 {
		return book.ErrInvalidStock
	}
	if req.PublicationYear < 1000 || req.PublicationYear > time.Now().Year()+1 {
		return book.ErrInvalidYear
	}

	b := book.NewBook(req.ISBN, req.Title, req.PublicationYear, req.Price,
		req.CategoryID, req.PublisherID, req.Stock, req.Threshold)

	return uc.bookRepo.Create(ctx, b, req.Authors)
}

// UpdateBookUseCase 更新图书用例(管理端)
type UpdateBookUseCase struct {
	bookRepo book.Repository
}

// NewUpdateBookUseCase 创建更新图书用例
func NewUpdateBookUseCase(bookRepo book.Repository) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookRepo: bookRepo}
}

// UpdateBookRequest 更新图书请求(指针为nil的字段不更新)
type UpdateBookRequest struct {
	ISBN            string
	Title           *string
	PublicationYear *int
	Price           *int64
	CategoryID      *uint
	PublisherID     *uint
	Threshold       *int
}

// Execute 部分更新图书
// 注意:不允许通过此接口改库存,库存变更走SetStock(管理端)或结算/补货流程
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) error {
	if req.Price != nil && *req.Price < 0 {
		return book.ErrInvalidPrice
	}
	if req.Threshold != nil && *req.Threshold < 0 {
		return book.ErrInvalidStock
	}

	return uc.bookRepo.Update(ctx, req.ISBN, book.UpdatePatch{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		PublisherID:     req.PublisherID,
		Threshold:       req.Threshold,
	})
}

// UpdateStockUseCase 管理端设置库存用例
type UpdateStockUseCase struct {
	bookRepo book.Repository
}

// NewUpdateStockUseCase 创建设置库存用例
func NewUpdateStockUseCase(bookRepo book.Repository) *UpdateStockUseCase {
	return &UpdateStockUseCase{bookRepo: bookRepo}
}

// Execute 设置库存绝对值
// 业务规则:负库存在应用层显式拒绝(旧版依赖数据库触发器拦截)
func (uc *UpdateStockUseCase) Execute(ctx context.Context, isbn string, stock int) error {
	if stock < 0 {
		return book.ErrInvalidStock
	}
	return uc.bookRepo.SetStock(ctx, isbn, stock)
}

package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/booky/internal/domain/book"
)

// ListBooksUseCase 目录查询用例
// 过滤条件全部可选,组合为AND;由Repository翻译成带JOIN的查询
type ListBooksUseCase struct {
	bookRepo book.Repository
}

// NewListBooksUseCase 创建目录查询用例
func NewListBooksUseCase(bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookRepo: bookRepo}
}

// ListBooksRequest 目录查询请求
type ListBooksRequest struct {
	ISBN       string // ISBN精确匹配
	Title      string // 书名模糊匹配
	Author     string // 作者姓名模糊匹配
	Publisher  string // 出版社名模糊匹配
	CategoryID uint   // 分类ID过滤
	Page       int    // 页码(默认1)
	PageSize   int    // 每页数量(默认20,上限50)
}

// BookSummary 目录列表项
type BookSummary struct {
	ISBN            string   `json:"isbn"`
	Title           string   `json:"title"`
	PublicationYear int      `json:"publication_year"`
	PriceYuan       string   `json:"price_yuan"`
	Category        string   `json:"category"`
	Publisher       string   `json:"publisher"`
	Authors         []string `json:"authors"`
	Stock           int      `json:"stock"`
}

// ListBooksResponse 目录查询响应
type ListBooksResponse struct {
	Books []BookSummary `json:"books"`
	Total int64         `json:"total"`
}

// Execute 执行目录查询
// 分页规则:页码最小1,每页默认20、硬上限50(防止一次拉取整库)
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	summaries, total, err := uc.bookRepo.List(ctx, book.ListParams{
		ISBN:       req.ISBN,
		Title:      req.Title,
		Author:     req.Author,
		Publisher:  req.Publisher,
		CategoryID: req.CategoryID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	books := make([]BookSummary, len(summaries))
	for i, s := range summaries {
		books[i] = toBookSummary(s)
	}

	return &ListBooksResponse{Books: books, Total: total}, nil
}

func toBookSummary(s *book.Summary) BookSummary {
	authors := s.Authors
	if authors == nil {
		authors = []string{}
	}
	return BookSummary{
		ISBN:            s.ISBN,
		Title:           s.Title,
		PublicationYear: s.PublicationYear,
		PriceYuan:       formatPrice(s.Price),
		Category:        s.Category,
		Publisher:       s.Publisher,
		Authors:         authors,
		Stock:           s.Stock,
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}

// normalizePage 分页参数归一化
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

package book

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/book"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookRepo book.Repository
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookRepo book.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookRepo: bookRepo}
}

// BookDetail 图书详情(比列表项多出版社联系方式与补货阈值)
type BookDetail struct {
	BookSummary
	Threshold        int    `json:"threshold"`
	PublisherAddress string `json:"publisher_address"`
	PublisherPhone   string `json:"publisher_phone"`
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, isbn string) (*BookDetail, error) {
	d, err := uc.bookRepo.GetDetail(ctx, isbn)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		BookSummary:      toBookSummary(&d.Summary),
		Threshold:        d.Threshold,
		PublisherAddress: d.PublisherAddress,
		PublisherPhone:   d.PublisherPhone,
	}, nil
}

// ListCategoriesUseCase 分类列表用例
type ListCategoriesUseCase struct {
	bookRepo book.Repository
}

// NewListCategoriesUseCase 创建分类列表用例
func NewListCategoriesUseCase(bookRepo book.Repository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{bookRepo: bookRepo}
}

// CategoryItem 分类项
type CategoryItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Execute 查询全部分类
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryItem, error) {
	categories, err := uc.bookRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryItem, len(categories))
	for i, c := range categories {
		out[i] = CategoryItem{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

package cart

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/cart"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// UpdateItemUseCase 修改购物车商品数量用例
type UpdateItemUseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewUpdateItemUseCase 创建修改数量用例
func NewUpdateItemUseCase(cartRepo cart.Repository, bookRepo book.Repository) *UpdateItemUseCase {
	return &UpdateItemUseCase{cartRepo: cartRepo, bookRepo: bookRepo}
}

// UpdateItemRequest 修改数量请求
type UpdateItemRequest struct {
	UserID uint
	ISBN   string
	Qty    int // 新的绝对数量
}

// Execute 覆盖购物车中某本书的数量
// 业务规则:新数量不能超过当前库存(建议性校验,同AddItem)
func (uc *UpdateItemUseCase) Execute(ctx context.Context, req UpdateItemRequest) error {
	if req.Qty <= 0 {
		return cart.ErrInvalidQuantity
	}

	b, err := uc.bookRepo.FindByISBN(ctx, req.ISBN)
	if err != nil {
		return err
	}

	cartID, err := uc.cartRepo.EnsureActive(ctx, req.UserID)
	if err != nil {
		return err
	}

	current, err := uc.cartRepo.GetItemQty(ctx, cartID, req.ISBN)
	if err != nil {
		return err
	}
	if current == 0 {
		return cart.ErrItemNotFound
	}

	if req.Qty > b.Stock {
		return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
			"《%s》库存不足:当前库存%d,购物车中已有%d", b.Title, b.Stock, current)
	}

	return uc.cartRepo.SetItemQty(ctx, cartID, req.ISBN, req.Qty)
}

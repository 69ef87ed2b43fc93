package cart

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/cart"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// AddItemUseCase 添加商品到购物车用例
type AddItemUseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewAddItemUseCase 创建添加商品用例
func NewAddItemUseCase(cartRepo cart.Repository, bookRepo book.Repository) *AddItemUseCase {
	return &AddItemUseCase{cartRepo: cartRepo, bookRepo: bookRepo}
}

// AddItemRequest 添加商品请求
type AddItemRequest struct {
	UserID uint
	ISBN   string
	Qty    int
}

// Execute 添加商品(存在则累加数量)
// 业务规则:
// 1. 图书必须存在
// 2. 购物车现有数量+本次数量不能超过当前库存
// 注意:这里的库存检查是无锁的建议性校验,只用于尽早给用户友好提示;
// 并发购物车之间会互相竞争,权威校验在结算事务的行锁内完成
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) error {
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

	if current+req.Qty > b.Stock {
		return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
			"《%s》库存不足:当前库存%d,购物车中已有%d", b.Title, b.Stock, current)
	}

	return uc.cartRepo.AddItem(ctx, cartID, req.ISBN, req.Qty)
}

package cart

import (
	"context"

	"github.com/xiebiao/booky/internal/domain/cart"
)

// RemoveItemUseCase 删除购物车商品用例
type RemoveItemUseCase struct {
	cartRepo cart.Repository
}

// NewRemoveItemUseCase 创建删除商品用例
func NewRemoveItemUseCase(cartRepo cart.Repository) *RemoveItemUseCase {
	return &RemoveItemUseCase{cartRepo: cartRepo}
}

// Execute 删除单条明细(无条件,不存在也成功)
func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID uint, isbn string) error {
	cartID, err := uc.cartRepo.EnsureActive(ctx, userID)
	if err != nil {
		return err
	}
	return uc.cartRepo.RemoveItem(ctx, cartID, isbn)
}

// ClearCartUseCase 清空购物车用例
type ClearCartUseCase struct {
	cartRepo cart.Repository
}

// NewClearCartUseCase 创建清空购物车用例
func NewClearCartUseCase(cartRepo cart.Repository) *ClearCartUseCase {
	return &ClearCartUseCase{cartRepo: cartRepo}
}

// Execute 清空全部明细(幂等:空购物车清空也成功)
func (uc *ClearCartUseCase) Execute(ctx context.Context, userID uint) error {
	cartID, err := uc.cartRepo.EnsureActive(ctx, userID)
	if err != nil {
		return err
	}
	return uc.cartRepo.ClearItems(ctx, cartID)
}

package cart

import (
	"context"
	"fmt"

	"github.com/xiebiao/booky/internal/domain/cart"
)

// GetCartUseCase 查询购物车用例
type GetCartUseCase struct {
	cartRepo cart.Repository
}

// NewGetCartUseCase 创建查询购物车用例
func NewGetCartUseCase(cartRepo cart.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo}
}

// CartLine 购物车行(展示用,价格/书名/库存为实时值)
type CartLine struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	PriceYuan     string `json:"price_yuan"`
	Stock         int    `json:"stock"` // 库存快照,仅供前端提示
	Qty           int    `json:"qty"`
	LineTotalYuan string `json:"line_total_yuan"`
}

// GetCartResponse 查询购物车响应
type GetCartResponse struct {
	CartID    uint       `json:"cart_id"`
	Lines     []CartLine `json:"lines"`
	TotalYuan string     `json:"total_yuan"`
}

// Execute 查询购物车(明细JOIN图书实时数据,合计保留2位小数)
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*GetCartResponse, error) {
	cartID, err := uc.cartRepo.EnsureActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.cartRepo.ListLines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = CartLine{
			ISBN:          l.ISBN,
			Title:         l.Title,
			PriceYuan:     formatPrice(l.Price),
			Stock:         l.Stock,
			Qty:           l.Qty,
			LineTotalYuan: formatPrice(l.LineTotal),
		}
	}

	return &GetCartResponse{
		CartID:    cartID,
		Lines:     out,
		TotalYuan: formatPrice(cart.TotalOf(lines)),
	}, nil
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}

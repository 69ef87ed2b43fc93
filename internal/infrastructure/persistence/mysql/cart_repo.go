package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booky/internal/domain/cart"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// EnsureActive 返回用户最新的ACTIVE购物车ID,不存在则创建(惰性创建)
func (r *cartRepository) EnsureActive(ctx context.Context, userID uint) (uint, error) {
	db := getDB(ctx, r.db)

	var model CartModel
	err := db.Where("user_id = ? AND status = ?", userID, string(cart.StatusActive)).
		Order("id DESC").
		First(&model).Error
	if err == nil {
		return model.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.Wrap(err, "查询购物车失败")
	}

	model = CartModel{UserID: userID, Status: string(cart.StatusActive)}
	if err := db.Create(&model).Error; err != nil {
		return 0, apperrors.Wrap(err, "创建购物车失败")
	}
	return model.ID, nil
}

// GetItemQty 查询购物车中某本书的数量(没有返回0)
func (r *cartRepository) GetItemQty(ctx context.Context, cartID uint, isbn string) (int, error) {
	var model CartItemModel
	err := getDB(ctx, r.db).
		Where("cart_id = ? AND isbn = ?", cartID, isbn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "查询购物车明细失败")
	}
	return model.Qty, nil
}

// AddItem 插入或累加明细数量
// INSERT ... ON DUPLICATE KEY UPDATE qty = qty + ?
// (cart_id, isbn)唯一索引保证并发加购也只产生一行
func (r *cartRepository) AddItem(ctx context.Context, cartID uint, isbn string, qty int) error {
	model := CartItemModel{CartID: cartID, ISBN: isbn, Qty: qty}
	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "isbn"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"qty": gorm.Expr("qty + ?", qty)}),
	}).Create(&model).Error
	if err != nil {
		return apperrors.Wrap(err, "添加购物车明细失败")
	}
	return nil
}

// SetItemQty 覆盖明细数量
func (r *cartRepository) SetItemQty(ctx context.Context, cartID uint, isbn string, qty int) error {
	result := getDB(ctx, r.db).Model(&CartItemModel{}).
		Where("cart_id = ? AND isbn = ?", cartID, isbn).
		Update("qty", qty)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车明细失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem 删除单条明细(不存在也成功)
func (r *cartRepository) RemoveItem(ctx context.Context, cartID uint, isbn string) error {
	err := getDB(ctx, r.db).
		Where("cart_id = ? AND isbn = ?", cartID, isbn).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除购物车明细失败")
	}
	return nil
}

// ClearItems 清空全部明细(幂等)
func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	err := getDB(ctx, r.db).
		Where("cart_id = ?", cartID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

// ListItems 查询全部明细(仅ISBN+数量,结算事务用)
func (r *cartRepository) ListItems(ctx context.Context, cartID uint) ([]*cart.Item, error) {
	var models []CartItemModel
	err := getDB(ctx, r.db).
		Where("cart_id = ?", cartID).
		Order("isbn ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车明细失败")
	}

	items := make([]*cart.Item, len(models))
	for i, m := range models {
		items[i] = &cart.Item{CartID: m.CartID, ISBN: m.ISBN, Qty: m.Qty}
	}
	return items, nil
}

// ListLines 查询明细并JOIN图书实时价格/书名/库存(展示用,无锁快照)
func (r *cartRepository) ListLines(ctx context.Context, cartID uint) ([]*cart.Line, error) {
	var rows []struct {
		ISBN     string
		Title    string
		Price    int64
		StockQty int
		Qty      int
	}

	err := getDB(ctx, r.db).Table("cart_items").
		Select("cart_items.isbn, books.title, books.price, books.stock_qty, cart_items.qty").
		Joins("JOIN books ON books.isbn = cart_items.isbn").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.isbn ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	lines := make([]*cart.Line, len(rows))
	for i, row := range rows {
		lines[i] = &cart.Line{
			ISBN:      row.ISBN,
			Title:     row.Title,
			Price:     row.Price,
			Stock:     row.StockQty,
			Qty:       row.Qty,
			LineTotal: row.Price * int64(row.Qty),
		}
	}
	return lines, nil
}

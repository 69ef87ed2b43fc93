package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/booky/internal/domain/order"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(含明细,回填ID)
// 订单与明细必须一起写入;调用方(结算用例)已开启外层事务
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	db := getDB(ctx, r.db)

	model := &OrderModel{
		OrderNo:      o.OrderNo,
		UserID:       o.UserID,
		Total:        o.Total,
		Status:       int(o.Status),
		PaymentLast4: o.PaymentLast4,
	}
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt

	if len(o.Items) > 0 {
		itemModels := make([]OrderItemModel, len(o.Items))
		for i, item := range o.Items {
			itemModels[i] = OrderItemModel{
				OrderID:       model.ID,
				ISBN:          item.ISBN,
				TitleSnapshot: item.TitleSnapshot,
				PriceSnapshot: item.PriceSnapshot,
				Qty:           item.Qty,
			}
		}
		if err := db.Create(&itemModels).Error; err != nil {
			return apperrors.Wrap(err, "创建订单明细失败")
		}
		for i := range o.Items {
			o.Items[i].ID = itemModels[i].ID
			o.Items[i].OrderID = model.ID
		}
	}

	return nil
}

// FindByID 根据ID查找订单(含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return r.loadWithItems(ctx, &model)
}

// FindByOrderNo 根据订单号查找订单(含明细)
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return r.loadWithItems(ctx, &model)
}

// Update 更新订单(状态/总额)
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	err := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status": int(o.Status),
			"total":  o.Total,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新订单失败")
	}
	return nil
}

// ListByUserID 分页查询用户订单(按创建时间倒序,含明细)
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := db.Model(&OrderModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	if len(models) == 0 {
		return []*order.Order{}, total, nil
	}

	// 批量取明细,避免N+1查询
	orderIDs := make([]uint, len(models))
	for i, m := range models {
		orderIDs[i] = m.ID
	}

	var itemModels []OrderItemModel
	if err := db.Where("order_id IN ?", orderIDs).Find(&itemModels).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单明细失败")
	}

	itemsByOrder := make(map[uint][]order.Item)
	for _, im := range itemModels {
		itemsByOrder[im.OrderID] = append(itemsByOrder[im.OrderID], toOrderItem(&im))
	}

	orders := make([]*order.Order, len(models))
	for i, m := range models {
		o := toOrderEntity(&m)
		o.Items = itemsByOrder[m.ID]
		orders[i] = o
	}

	return orders, total, nil
}

// CreateSalesTransaction 记录销售流水
func (r *orderRepository) CreateSalesTransaction(ctx context.Context, st *order.SalesTransaction) error {
	model := &SalesTransactionModel{
		OrderID:  st.OrderID,
		Amount:   st.Amount,
		SaleDate: st.SaleDate,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "记录销售流水失败")
	}
	st.ID = model.ID
	return nil
}

// loadWithItems 加载订单明细并组装实体
func (r *orderRepository) loadWithItems(ctx context.Context, model *OrderModel) (*order.Order, error) {
	var itemModels []OrderItemModel
	err := getDB(ctx, r.db).Where("order_id = ?", model.ID).Find(&itemModels).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}

	o := toOrderEntity(model)
	o.Items = make([]order.Item, len(itemModels))
	for i, im := range itemModels {
		o.Items[i] = toOrderItem(&im)
	}
	return o, nil
}

func toOrderEntity(model *OrderModel) *order.Order {
	return &order.Order{
		ID:           model.ID,
		OrderNo:      model.OrderNo,
		UserID:       model.UserID,
		Total:        model.Total,
		Status:       order.Status(model.Status),
		PaymentLast4: model.PaymentLast4,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toOrderItem(model *OrderItemModel) order.Item {
	return order.Item{
		ID:            model.ID,
		OrderID:       model.OrderID,
		ISBN:          model.ISBN,
		TitleSnapshot: model.TitleSnapshot,
		PriceSnapshot: model.PriceSnapshot,
		Qty:           model.Qty,
	}
}

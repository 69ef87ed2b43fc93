package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/booky/internal/domain/replenishment"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// replenishmentRepository 补货单仓储实现(MySQL)
type replenishmentRepository struct {
	db *gorm.DB
}

// NewReplenishmentRepository 创建补货单仓储
func NewReplenishmentRepository(db *gorm.DB) replenishment.Repository {
	return &replenishmentRepository{db: db}
}

// Create 创建补货单(回填ID)
func (r *replenishmentRepository) Create(ctx context.Context, o *replenishment.Order) error {
	model := &ReplenishmentModel{
		ISBN:        o.ISBN,
		PublisherID: o.PublisherID,
		Qty:         o.Qty,
		Status:      string(o.Status),
		OrderDate:   o.OrderDate,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建补货单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找补货单
func (r *replenishmentRepository) FindByID(ctx context.Context, id uint) (*replenishment.Order, error) {
	var model ReplenishmentModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, replenishment.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "查询补货单失败")
	}

	return toReplenishmentEntity(&model), nil
}

// Update 更新补货单(状态)
func (r *replenishmentRepository) Update(ctx context.Context, o *replenishment.Order) error {
	err := getDB(ctx, r.db).Model(&ReplenishmentModel{}).
		Where("id = ?", o.ID).
		Update("status", string(o.Status)).Error
	if err != nil {
		return apperrors.Wrap(err, "更新补货单失败")
	}
	return nil
}

// List 分页查询补货单(status为空表示全部)
func (r *replenishmentRepository) List(ctx context.Context, status replenishment.Status, page, pageSize int) ([]*replenishment.Order, int64, error) {
	db := getDB(ctx, r.db)

	query := db.Model(&ReplenishmentModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询补货单总数失败")
	}

	var models []ReplenishmentModel
	offset := (page - 1) * pageSize
	err := query.Order("order_date DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询补货单列表失败")
	}

	orders := make([]*replenishment.Order, len(models))
	for i, m := range models {
		orders[i] = toReplenishmentEntity(&m)
	}
	return orders, total, nil
}

// ExistsPending 是否已存在该书的Pending补货单
func (r *replenishmentRepository) ExistsPending(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ReplenishmentModel{}).
		Where("isbn = ? AND status = ?", isbn, string(replenishment.StatusPending)).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询补货单失败")
	}
	return count > 0, nil
}

func toReplenishmentEntity(model *ReplenishmentModel) *replenishment.Order {
	return &replenishment.Order{
		ID:          model.ID,
		ISBN:        model.ISBN,
		PublisherID: model.PublisherID,
		Qty:         model.Qty,
		Status:      replenishment.Status(model.Status),
		OrderDate:   model.OrderDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/booky/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. 开发环境开启SQL日志,生产环境关闭
// 4. 自动迁移表结构(AutoMigrate,生产环境应换专门的迁移工具)
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意:AutoMigrate只创建表、补字段,不会删除或修改已有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&PublisherModel{},
		&AuthorModel{},
		&BookModel{},
		&BookAuthorModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&SalesTransactionModel{},
		&ReplenishmentModel{},
	)
}

// =========================================
// GORM数据模型
// 设计说明:
// 1. 带GORM tag的模型属于infrastructure层,domain层实体不依赖GORM
// 2. Repository负责两者之间的转换
// 3. ISBN是图书的业务主键,购物车/订单明细/补货单都以ISBN引用
// =========================================

// UserModel 用户表
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:30;not null;comment:用户名"`
	Email     string    `gorm:"index;size:100;comment:邮箱(可选)"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt哈希)"`
	Role      string    `gorm:"size:20;not null;default:CUSTOMER;comment:角色(CUSTOMER/ADMIN)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel 图书分类表
type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:分类名"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// PublisherModel 出版社表
type PublisherModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"uniqueIndex;size:100;not null;comment:出版社名"`
	Address string `gorm:"size:200;comment:地址"`
	Phone   string `gorm:"size:30;comment:联系电话"`
}

func (PublisherModel) TableName() string {
	return "publishers"
}

// AuthorModel 作者表
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:100;not null;comment:作者姓名"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// BookModel 图书表
// 设计说明:
// 1. 价格用int64存"分",避免浮点精度问题
// 2. StockQty是唯一被并发争用的列,扣减走行锁+守卫更新
// 3. Threshold是补货阈值,结算扣减后跌破即自动补货
type BookModel struct {
	ISBN            string    `gorm:"primaryKey;size:20;comment:ISBN号(业务主键)"`
	Title           string    `gorm:"index;size:200;not null;comment:书名"`
	PublicationYear int       `gorm:"comment:出版年份"`
	Price           int64     `gorm:"not null;comment:售价(分)"`
	CategoryID      uint      `gorm:"index;comment:分类ID"`
	PublisherID     uint      `gorm:"index;comment:出版社ID"`
	StockQty        int       `gorm:"not null;default:0;comment:库存数量"`
	Threshold       int       `gorm:"not null;default:0;comment:补货阈值"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// BookAuthorModel 图书-作者关联表(多对多)
type BookAuthorModel struct {
	ISBN     string `gorm:"primaryKey;size:20"`
	AuthorID uint   `gorm:"primaryKey"`
}

func (BookAuthorModel) TableName() string {
	return "book_authors"
}

// CartModel 购物车表
// 每个用户最多一个ACTIVE购物车,结算只清明细,购物车行保留复用
type CartModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null;comment:用户ID"`
	Status    string    `gorm:"size:20;not null;default:ACTIVE;comment:状态"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel 购物车明细表
// (cart_id, isbn)唯一:同一本书在购物车中只有一行
type CartItemModel struct {
	ID     uint   `gorm:"primaryKey"`
	CartID uint   `gorm:"uniqueIndex:uk_cart_isbn;not null;comment:购物车ID"`
	ISBN   string `gorm:"uniqueIndex:uk_cart_isbn;size:20;not null;comment:ISBN号"`
	Qty    int    `gorm:"not null;comment:数量"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel 订单表
type OrderModel struct {
	ID           uint      `gorm:"primaryKey"`
	OrderNo      string    `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID       uint      `gorm:"index;not null;comment:买家用户ID"`
	Total        int64     `gorm:"not null;comment:总金额(分)"`
	Status       int       `gorm:"not null;comment:状态(1待确认 2已确认 3已取消)"`
	PaymentLast4 string    `gorm:"size:4;not null;comment:卡号末4位或COD"`
	CreatedAt    time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细表(下单时刻的快照)
// TitleSnapshot/PriceSnapshot固化购买时的值,目录编辑不影响历史订单
type OrderItemModel struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"index;not null;comment:订单ID"`
	ISBN          string `gorm:"index;size:20;not null;comment:ISBN号"`
	TitleSnapshot string `gorm:"size:200;not null;comment:书名快照"`
	PriceSnapshot int64  `gorm:"not null;comment:单价快照(分)"`
	Qty           int    `gorm:"not null;comment:数量"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// SalesTransactionModel 销售流水表(报表数据源,追加写)
type SalesTransactionModel struct {
	ID       uint      `gorm:"primaryKey"`
	OrderID  uint      `gorm:"index;not null;comment:订单ID"`
	Amount   int64     `gorm:"not null;comment:金额(分)"`
	SaleDate time.Time `gorm:"index;not null;comment:销售时间"`
}

func (SalesTransactionModel) TableName() string {
	return "sales_transactions"
}

// ReplenishmentModel 补货单表
type ReplenishmentModel struct {
	ID          uint      `gorm:"primaryKey"`
	ISBN        string    `gorm:"index;size:20;not null;comment:ISBN号"`
	PublisherID uint      `gorm:"index;comment:出版社ID"`
	Qty         int       `gorm:"not null;comment:补货数量"`
	Status      string    `gorm:"index;size:20;not null;default:Pending;comment:状态(Pending/Confirmed)"`
	OrderDate   time.Time `gorm:"comment:下单时间"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (ReplenishmentModel) TableName() string {
	return "replenishment_orders"
}

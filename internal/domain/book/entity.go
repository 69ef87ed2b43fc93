package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. ISBN是业务主键(目录标识),购物车/订单/补货单都以ISBN引用图书
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. Stock是唯一被并发争用的共享状态,扣减必须在行锁保护下进行
// 4. Threshold是补货阈值:库存降到阈值及以下时触发补货(见replenishment.Issuer)
type Book struct {
	ISBN            string // ISBN号(业务主键)
	Title           string // 书名
	PublicationYear int    // 出版年份
	Price           int64  // 售价(单位:分,1元=100分)
	CategoryID      uint   // 分类ID
	PublisherID     uint   // 出版社ID
	Stock           int    // 库存数量(不变量:>=0)
	Threshold       int    // 补货阈值
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, title string, year int, price int64, categoryID, publisherID uint, stock, threshold int) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		PublicationYear: year,
		Price:           price,
		CategoryID:      categoryID,
		PublisherID:     publisherID,
		Stock:           stock,
		Threshold:       threshold,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasStockFor 判断库存是否足够本次购买
// 注意:结算流程必须在LockByISBN之后调用,否则读取的是可能过期的快照
func (b *Book) HasStockFor(quantity int) bool {
	return b.Stock >= quantity
}

// DecrStock 扣减库存(用于结算)
// 业务规则:扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存(用于订单取消、补货确认)
func (b *Book) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// BelowThreshold 库存是否已降到补货阈值及以下
func (b *Book) BelowThreshold() bool {
	return b.Stock <= b.Threshold
}

// Category 图书分类(查找表)
type Category struct {
	ID   uint
	Name string
}

// Publisher 出版社
// 补货单会关联出版社(向谁补货)
type Publisher struct {
	ID      uint
	Name    string
	Address string
	Phone   string
}

// Summary 目录查询的读模型
// 设计说明:列表/详情接口需要分类名、出版社名和作者列表,
// 这些是跨表聚合出来的展示数据,与聚合根Book分开建模
type Summary struct {
	ISBN            string
	Title           string
	PublicationYear int
	Price           int64
	CategoryID      uint
	Category        string
	PublisherID     uint
	Publisher       string
	Stock           int
	Threshold       int
	Authors         []string
}

// Detail 图书详情读模型(比Summary多出版社联系方式)
type Detail struct {
	Summary
	PublisherAddress string
	PublisherPhone   string
}

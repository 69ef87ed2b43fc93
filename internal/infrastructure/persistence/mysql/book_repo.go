package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booky/internal/domain/book"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库特定错误(如ISBN重复)转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书(含作者关联,单事务)
// 作者按姓名Upsert:同名作者复用,新作者插入
func (r *bookRepository) Create(ctx context.Context, b *book.Book, authors []string) error {
	db := getDB(ctx, r.db)

	return db.Transaction(func(tx *gorm.DB) error {
		// 1. 校验分类与出版社存在
		var count int64
		if err := tx.Model(&CategoryModel{}).Where("id = ?", b.CategoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询分类失败")
		}
		if count == 0 {
			return book.ErrCategoryNotFound
		}
		if err := tx.Model(&PublisherModel{}).Where("id = ?", b.PublisherID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询出版社失败")
		}
		if count == 0 {
			return book.ErrPublisherNotFound
		}

		// 2. 插入图书
		model := &BookModel{
			ISBN:            b.ISBN,
			Title:           b.Title,
			PublicationYear: b.PublicationYear,
			Price:           b.Price,
			CategoryID:      b.CategoryID,
			PublisherID:     b.PublisherID,
			StockQty:        b.Stock,
			Threshold:       b.Threshold,
		}
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return book.ErrISBNDuplicate
			}
			return apperrors.Wrap(err, "创建图书失败")
		}

		// 3. 作者Upsert并建立关联
		for _, name := range authors {
			author := AuthorModel{Name: name}
			// ON DUPLICATE KEY时什么都不做,随后按姓名取回ID
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&author).Error; err != nil {
				return apperrors.Wrap(err, "创建作者失败")
			}
			if author.ID == 0 {
				if err := tx.Where("name = ?", name).First(&author).Error; err != nil {
					return apperrors.Wrap(err, "查询作者失败")
				}
			}
			link := BookAuthorModel{ISBN: b.ISBN, AuthorID: author.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return apperrors.Wrap(err, "关联作者失败")
			}
		}

		b.CreatedAt = model.CreatedAt
		b.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// FindByISBN 根据ISBN查找图书(普通读,无锁)
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// GetDetail 图书详情(含分类名/出版社信息/作者列表)
func (r *bookRepository) GetDetail(ctx context.Context, isbn string) (*book.Detail, error) {
	db := getDB(ctx, r.db)

	var row struct {
		BookModel
		CategoryName     string
		PublisherName    string
		PublisherAddress string
		PublisherPhone   string
	}

	err := db.Table("books").
		Select("books.*, categories.name AS category_name, "+
			"publishers.name AS publisher_name, publishers.address AS publisher_address, "+
			"publishers.phone AS publisher_phone").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id").
		Where("books.isbn = ?", isbn).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书详情失败")
	}

	authors, err := r.authorsOf(ctx, []string{isbn})
	if err != nil {
		return nil, err
	}

	return &book.Detail{
		Summary: book.Summary{
			ISBN:            row.ISBN,
			Title:           row.Title,
			PublicationYear: row.PublicationYear,
			Price:           row.Price,
			CategoryID:      row.CategoryID,
			Category:        row.CategoryName,
			PublisherID:     row.PublisherID,
			Publisher:       row.PublisherName,
			Stock:           row.StockQty,
			Threshold:       row.Threshold,
			Authors:         authors[isbn],
		},
		PublisherAddress: row.PublisherAddress,
		PublisherPhone:   row.PublisherPhone,
	}, nil
}

// Update 部分更新图书信息(nil指针字段跳过)
func (r *bookRepository) Update(ctx context.Context, isbn string, patch book.UpdatePatch) error {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.PublicationYear != nil {
		updates["publication_year"] = *patch.PublicationYear
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.PublisherID != nil {
		updates["publisher_id"] = *patch.PublisherID
	}
	if patch.Threshold != nil {
		updates["threshold"] = *patch.Threshold
	}
	if len(updates) == 0 {
		return nil
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).Where("isbn = ?", isbn).Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		// 可能是图书不存在,也可能是值没变化,查一次区分
		var count int64
		if err := getDB(ctx, r.db).Model(&BookModel{}).Where("isbn = ?", isbn).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询图书失败")
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
	}
	return nil
}

// SetStock 管理端直接设置库存绝对值(负数已在用例层拒绝)
func (r *bookRepository) SetStock(ctx context.Context, isbn string, stock int) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("isbn = ?", isbn).
		Update("stock_qty", stock)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "设置库存失败")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := getDB(ctx, r.db).Model(&BookModel{}).Where("isbn = ?", isbn).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询图书失败")
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
	}
	return nil
}

// List 目录查询:过滤+分页
// 过滤条件翻译规则:
// - ISBN精确匹配;书名/出版社名LIKE模糊匹配
// - 作者过滤走book_authors关联表的EXISTS子查询
// - 全部条件AND组合
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Summary, int64, error) {
	db := getDB(ctx, r.db)

	query := db.Table("books").
		Select("books.*, categories.name AS category_name, publishers.name AS publisher_name").
		Joins("LEFT JOIN categories ON categories.id = books.category_id").
		Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id")

	if params.ISBN != "" {
		query = query.Where("books.isbn = ?", params.ISBN)
	}
	if params.Title != "" {
		query = query.Where("books.title LIKE ?", "%"+params.Title+"%")
	}
	if params.Publisher != "" {
		query = query.Where("publishers.name LIKE ?", "%"+params.Publisher+"%")
	}
	if params.CategoryID != 0 {
		query = query.Where("books.category_id = ?", params.CategoryID)
	}
	if params.Author != "" {
		query = query.Where("EXISTS (SELECT 1 FROM book_authors ba "+
			"JOIN authors a ON a.id = ba.author_id "+
			"WHERE ba.isbn = books.isbn AND a.name LIKE ?)", "%"+params.Author+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var rows []struct {
		BookModel
		CategoryName  string
		PublisherName string
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("books.title ASC").
		Limit(params.PageSize).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	// 批量取作者列表,避免逐行N+1查询
	isbns := make([]string, len(rows))
	for i, row := range rows {
		isbns[i] = row.ISBN
	}
	authors, err := r.authorsOf(ctx, isbns)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*book.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = &book.Summary{
			ISBN:            row.ISBN,
			Title:           row.Title,
			PublicationYear: row.PublicationYear,
			Price:           row.Price,
			CategoryID:      row.CategoryID,
			Category:        row.CategoryName,
			PublisherID:     row.PublisherID,
			Publisher:       row.PublisherName,
			Stock:           row.StockQty,
			Threshold:       row.Threshold,
			Authors:         authors[row.ISBN],
		}
	}

	return summaries, total, nil
}

// authorsOf 批量查询图书的作者姓名列表
func (r *bookRepository) authorsOf(ctx context.Context, isbns []string) (map[string][]string, error) {
	out := make(map[string][]string, len(isbns))
	if len(isbns) == 0 {
		return out, nil
	}

	var rows []struct {
		ISBN string
		Name string
	}
	err := getDB(ctx, r.db).Table("book_authors").
		Select("book_authors.isbn, authors.name").
		Joins("JOIN authors ON authors.id = book_authors.author_id").
		Where("book_authors.isbn IN ?", isbns).
		Order("authors.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	for _, row := range rows {
		out[row.ISBN] = append(out[row.ISBN], row.Name)
	}
	return out, nil
}

// LockByISBN 悲观锁查询图书
// SELECT * FROM books WHERE isbn = ? FOR UPDATE
// 必须在事务内调用,行锁持有到COMMIT/ROLLBACK
func (r *bookRepository) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("isbn = ?", isbn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// UpdateStock 增量更新库存(原子操作)
// UPDATE books SET stock_qty = stock_qty + ? WHERE isbn = ? AND stock_qty + ? >= 0
// WHERE守卫保证任何路径都无法把库存写成负数
func (r *bookRepository) UpdateStock(ctx context.Context, isbn string, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("isbn = ?", isbn).
		Where("stock_qty + ? >= 0", delta).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在或库存不足,查一次区分
		var model BookModel
		if err := db.Where("isbn = ?", isbn).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}

	return nil
}

// ListCategories 查询全部分类(按名称排序)
func (r *bookRepository) ListCategories(ctx context.Context) ([]*book.Category, error) {
	var models []CategoryModel
	if err := getDB(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	categories := make([]*book.Category, len(models))
	for i, m := range models {
		categories[i] = &book.Category{ID: m.ID, Name: m.Name}
	}
	return categories, nil
}

// FindPublisher 根据ID查找出版社
func (r *bookRepository) FindPublisher(ctx context.Context, id uint) (*book.Publisher, error) {
	var model PublisherModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrPublisherNotFound
		}
		return nil, apperrors.Wrap(err, "查询出版社失败")
	}

	return &book.Publisher{ID: model.ID, Name: model.Name, Address: model.Address, Phone: model.Phone}, nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ISBN:            model.ISBN,
		Title:           model.Title,
		PublicationYear: model.PublicationYear,
		Price:           model.Price,
		CategoryID:      model.CategoryID,
		PublisherID:     model.PublisherID,
		Stock:           model.StockQty,
		Threshold:       model.Threshold,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/cart"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// memCartRepo 内存版购物车仓储
type memCartRepo struct {
	nextCartID uint
	userCart   map[uint]uint           // userID → cartID
	items      map[uint]map[string]int // cartID → (isbn → qty)
	books      map[string]*book.Book   // ListLines用
}

func newMemCartRepo(books map[string]*book.Book) *memCartRepo {
	return &memCartRepo{
		nextCartID: 1,
		userCart:   make(map[uint]uint),
		items:      make(map[uint]map[string]int),
		books:      books,
	}
}

func (m *memCartRepo) EnsureActive(ctx context.Context, userID uint) (uint, error) {
	if id, ok := m.userCart[userID]; ok {
		return id, nil
	}
	id := m.nextCartID
	m.nextCartID++
	m.userCart[userID] = id
	m.items[id] = make(map[string]int)
	return id, nil
}

func (m *memCartRepo) GetItemQty(ctx context.Context, cartID uint, isbn string) (int, error) {
	return m.items[cartID][isbn], nil
}

func (m *memCartRepo) AddItem(ctx context.Context, cartID uint, isbn string, qty int) error {
	m.items[cartID][isbn] += qty
	return nil
}

func (m *memCartRepo) SetItemQty(ctx context.Context, cartID uint, isbn string, qty int) error {
	m.items[cartID][isbn] = qty
	return nil
}

func (m *memCartRepo) RemoveItem(ctx context.Context, cartID uint, isbn string) error {
	delete(m.items[cartID], isbn)
	return nil
}

func (m *memCartRepo) ClearItems(ctx context.Context, cartID uint) error {
	m.items[cartID] = make(map[string]int)
	return nil
}

func (m *memCartRepo) ListItems(ctx context.Context, cartID uint) ([]*cart.Item, error) {
	var out []*cart.Item
	for isbn, qty := range m.items[cartID] {
		out = append(out, &cart.Item{CartID: cartID, ISBN: isbn, Qty: qty})
	}
	return out, nil
}

func (m *memCartRepo) ListLines(ctx context.Context, cartID uint) ([]*cart.Line, error) {
	var out []*cart.Line
	for isbn, qty := range m.items[cartID] {
		b := m.books[isbn]
		out = append(out, &cart.Line{
			ISBN:      isbn,
			Title:     b.Title,
			Price:     b.Price,
			Stock:     b.Stock,
			Qty:       qty,
			LineTotal: b.Price * int64(qty),
		})
	}
	return out, nil
}

// memBookRepo 只实现购物车用例用到的FindByISBN
type memBookRepo struct {
	books map[string]*book.Book
}

func (m *memBookRepo) Create(ctx context.Context, b *book.Book, authors []string) error { return nil }

func (m *memBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	b, ok := m.books[isbn]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (m *memBookRepo) GetDetail(ctx context.Context, isbn string) (*book.Detail, error) {
	return nil, book.ErrBookNotFound
}

func (m *memBookRepo) Update(ctx context.Context, isbn string, patch book.UpdatePatch) error {
	return nil
}

func (m *memBookRepo) SetStock(ctx context.Context, isbn string, stock int) error { return nil }

func (m *memBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Summary, int64, error) {
	return nil, 0, nil
}

func (m *memBookRepo) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return m.FindByISBN(ctx, isbn)
}

func (m *memBookRepo) UpdateStock(ctx context.Context, isbn string, delta int) error { return nil }

func (m *memBookRepo) ListCategories(ctx context.Context) ([]*book.Category, error) {
	return nil, nil
}

func (m *memBookRepo) FindPublisher(ctx context.Context, id uint) (*book.Publisher, error) {
	return nil, book.ErrPublisherNotFound
}

func setup() (*memCartRepo, *memBookRepo) {
	books := map[string]*book.Book{
		"9787111111111": {ISBN: "9787111111111", Title: "Go程序设计", Price: 5900, Stock: 5},
	}
	return newMemCartRepo(books), &memBookRepo{books: books}
}

func TestAddItem(t *testing.T) {
	cartRepo, bookRepo := setup()
	uc := NewAddItemUseCase(cartRepo, bookRepo)
	ctx := context.Background()

	err := uc.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 2})
	require.NoError(t, err)

	// 再次添加累加数量
	err = uc.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 3})
	require.NoError(t, err)

	qty, _ := cartRepo.GetItemQty(ctx, 1, "9787111111111")
	assert.Equal(t, 5, qty)
}

func TestAddItemExceedsStock(t *testing.T) {
	cartRepo, bookRepo := setup()
	uc := NewAddItemUseCase(cartRepo, bookRepo)
	ctx := context.Background()

	// 库存5,已有3,再加3超出
	require.NoError(t, uc.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 3}))

	err := uc.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 3})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
	// 提示信息包含当前库存与购物车现有数量
	assert.Contains(t, appErr.Message, "5")
	assert.Contains(t, appErr.Message, "3")

	// 失败不改变购物车
	qty, _ := cartRepo.GetItemQty(ctx, 1, "9787111111111")
	assert.Equal(t, 3, qty)
}

func TestAddItemBookNotFound(t *testing.T) {
	cartRepo, bookRepo := setup()
	uc := NewAddItemUseCase(cartRepo, bookRepo)

	err := uc.Execute(context.Background(), AddItemRequest{UserID: 1, ISBN: "0000000000000", Qty: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAddItemInvalidQty(t *testing.T) {
	cartRepo, bookRepo := setup()
	uc := NewAddItemUseCase(cartRepo, bookRepo)

	for _, qty := range []int{0, -1} {
		err := uc.Execute(context.Background(), AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: qty})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	}
}

func TestUpdateItem(t *testing.T) {
	cartRepo, bookRepo := setup()
	addUC := NewAddItemUseCase(cartRepo, bookRepo)
	updateUC := NewUpdateItemUseCase(cartRepo, bookRepo)
	ctx := context.Background()

	require.NoError(t, addUC.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 2}))

	// 覆盖为绝对数量
	require.NoError(t, updateUC.Execute(ctx, UpdateItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 4}))
	qty, _ := cartRepo.GetItemQty(ctx, 1, "9787111111111")
	assert.Equal(t, 4, qty)

	// 超过库存被拒绝,提示信息包含当前库存与购物车现有数量(与AddItem一致)
	err := updateUC.Execute(ctx, UpdateItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 6})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
	assert.Contains(t, appErr.Message, "库存5")
	assert.Contains(t, appErr.Message, "已有4")

	// 不在购物车中的书不能改数量
	err = updateUC.Execute(ctx, UpdateItemRequest{UserID: 2, ISBN: "9787111111111", Qty: 1})
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	cartRepo, bookRepo := setup()
	addUC := NewAddItemUseCase(cartRepo, bookRepo)
	removeUC := NewRemoveItemUseCase(cartRepo)
	clearUC := NewClearCartUseCase(cartRepo)
	ctx := context.Background()

	require.NoError(t, addUC.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 2}))

	// 删除不存在的明细也成功
	assert.NoError(t, removeUC.Execute(ctx, 1, "0000000000000"))

	assert.NoError(t, removeUC.Execute(ctx, 1, "9787111111111"))
	qty, _ := cartRepo.GetItemQty(ctx, 1, "9787111111111")
	assert.Equal(t, 0, qty)

	// 清空空购物车幂等成功
	assert.NoError(t, clearUC.Execute(ctx, 1))
	assert.NoError(t, clearUC.Execute(ctx, 1))
}

func TestGetCart(t *testing.T) {
	cartRepo, bookRepo := setup()
	addUC := NewAddItemUseCase(cartRepo, bookRepo)
	getUC := NewGetCartUseCase(cartRepo)
	ctx := context.Background()

	// 首次访问惰性创建空购物车
	resp, err := getUC.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, "0.00", resp.TotalYuan)

	require.NoError(t, addUC.Execute(ctx, AddItemRequest{UserID: 1, ISBN: "9787111111111", Qty: 2}))

	resp, err = getUC.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "59.00", resp.Lines[0].PriceYuan)
	assert.Equal(t, "118.00", resp.Lines[0].LineTotalYuan)
	assert.Equal(t, "118.00", resp.TotalYuan)
}

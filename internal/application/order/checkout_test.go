package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/cart"
	"github.com/xiebiao/booky/internal/domain/order"
	"github.com/xiebiao/booky/internal/domain/replenishment"
	apperrors "github.com/xiebiao/booky/pkg/errors"
)

// =========================================
// 内存版测试替身
// 说明:事务用直通实现模拟,回滚语义通过"失败用例断言无副作用"覆盖,
// 真实的锁与回滚行为由test/integration下的集成测试验证
// =========================================

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCartRepo struct {
	cartID  uint
	items   []*cart.Item
	cleared bool
}

func (f *fakeCartRepo) EnsureActive(ctx context.Context, userID uint) (uint, error) {
	return f.cartID, nil
}

func (f *fakeCartRepo) GetItemQty(ctx context.Context, cartID uint, isbn string) (int, error) {
	for _, it := range f.items {
		if it.ISBN == isbn {
			return it.Qty, nil
		}
	}
	return 0, nil
}

func (f *fakeCartRepo) AddItem(ctx context.Context, cartID uint, isbn string, qty int) error {
	f.items = append(f.items, &cart.Item{CartID: cartID, ISBN: isbn, Qty: qty})
	return nil
}

func (f *fakeCartRepo) SetItemQty(ctx context.Context, cartID uint, isbn string, qty int) error {
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID uint, isbn string) error {
	return nil
}

func (f *fakeCartRepo) ClearItems(ctx context.Context, cartID uint) error {
	f.items = nil
	f.cleared = true
	return nil
}

func (f *fakeCartRepo) ListItems(ctx context.Context, cartID uint) ([]*cart.Item, error) {
	out := make([]*cart.Item, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeCartRepo) ListLines(ctx context.Context, cartID uint) ([]*cart.Line, error) {
	return nil, nil
}

type fakeBookRepo struct {
	books       map[string]*book.Book
	lockedISBNs []string // 记录加锁顺序
}

func (f *fakeBookRepo) Create(ctx context.Context, b *book.Book, authors []string) error { return nil }

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	b, ok := f.books[isbn]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeBookRepo) GetDetail(ctx context.Context, isbn string) (*book.Detail, error) {
	return nil, book.ErrBookNotFound
}

func (f *fakeBookRepo) Update(ctx context.Context, isbn string, patch book.UpdatePatch) error {
	return nil
}

func (f *fakeBookRepo) SetStock(ctx context.Context, isbn string, stock int) error { return nil }

func (f *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Summary, int64, error) {
	return nil, 0, nil
}

func (f *fakeBookRepo) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	b, ok := f.books[isbn]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	f.lockedISBNs = append(f.lockedISBNs, isbn)
	// 返回副本,模拟"锁定时刻的快照"
	snapshot := *b
	return &snapshot, nil
}

func (f *fakeBookRepo) UpdateStock(ctx context.Context, isbn string, delta int) error {
	b, ok := f.books[isbn]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return apperrors.ErrInsufficientStock
	}
	b.Stock += delta
	return nil
}

func (f *fakeBookRepo) ListCategories(ctx context.Context) ([]*book.Category, error) {
	return nil, nil
}

func (f *fakeBookRepo) FindPublisher(ctx context.Context, id uint) (*book.Publisher, error) {
	return nil, book.ErrPublisherNotFound
}

type fakeOrderRepo struct {
	orders []*order.Order
	sales  []*order.SalesTransaction
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = uint(len(f.orders) + 1)
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error { return nil }

func (f *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	return f.orders, int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) CreateSalesTransaction(ctx context.Context, st *order.SalesTransaction) error {
	f.sales = append(f.sales, st)
	return nil
}

type fakeReplRepo struct {
	pending map[string]bool
	created []*replenishment.Order
}

func newFakeReplRepo() *fakeReplRepo {
	return &fakeReplRepo{pending: make(map[string]bool)}
}

func (f *fakeReplRepo) Create(ctx context.Context, o *replenishment.Order) error {
	o.ID = uint(len(f.created) + 1)
	f.created = append(f.created, o)
	f.pending[o.ISBN] = true
	return nil
}

func (f *fakeReplRepo) FindByID(ctx context.Context, id uint) (*replenishment.Order, error) {
	return nil, replenishment.ErrNotFound
}

func (f *fakeReplRepo) Update(ctx context.Context, o *replenishment.Order) error { return nil }

func (f *fakeReplRepo) List(ctx context.Context, status replenishment.Status, page, pageSize int) ([]*replenishment.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeReplRepo) ExistsPending(ctx context.Context, isbn string) (bool, error) {
	return f.pending[isbn], nil
}

type fakePublisher struct {
	events []string // routing keys
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	f.events = append(f.events, routingKey)
	return nil
}

// =========================================
// 测试环境组装
// =========================================

type checkoutEnv struct {
	uc        *CheckoutUseCase
	cartRepo  *fakeCartRepo
	bookRepo  *fakeBookRepo
	orderRepo *fakeOrderRepo
	replRepo  *fakeReplRepo
	publisher *fakePublisher
}

func newCheckoutEnv() *checkoutEnv {
	cartRepo := &fakeCartRepo{cartID: 1}
	bookRepo := &fakeBookRepo{books: map[string]*book.Book{
		"9787111111111": {ISBN: "9787111111111", Title: "Go程序设计", Price: 5900, PublisherID: 1, Stock: 10, Threshold: 3},
		"9787222222222": {ISBN: "9787222222222", Title: "数据库系统", Price: 8800, PublisherID: 2, Stock: 5, Threshold: 2},
	}}
	orderRepo := &fakeOrderRepo{}
	replRepo := newFakeReplRepo()
	publisher := &fakePublisher{}

	uc := NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, replRepo, passthroughTx{}, publisher)
	return &checkoutEnv{
		uc:        uc,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		replRepo:  replRepo,
		publisher: publisher,
	}
}

// 有效的测试卡号(Luhn校验通过)与远未过期的有效期
const (
	testCardNumber = "4242424242424242"
	testCardExpiry = "1239"
)

func cardRequest(userID uint) CheckoutRequest {
	return CheckoutRequest{
		UserID:        userID,
		PaymentMethod: "CARD",
		CardNumber:    testCardNumber,
		CardExpiry:    testCardExpiry,
	}
}

// =========================================
// 用例测试
// =========================================

func TestCheckoutSuccess(t *testing.T) {
	env := newCheckoutEnv()
	ctx := context.Background()

	env.cartRepo.items = []*cart.Item{
		{CartID: 1, ISBN: "9787111111111", Qty: 2},
		{CartID: 1, ISBN: "9787222222222", Qty: 1},
	}

	resp, err := env.uc.Execute(ctx, cardRequest(1))
	require.NoError(t, err)

	// 订单与快照
	assert.Equal(t, "Confirmed", resp.Status)
	assert.Equal(t, int64(5900*2+8800), resp.Total)
	assert.Equal(t, "206.00", resp.TotalYuan)
	assert.Equal(t, "4242", resp.PaymentLast4)
	assert.Len(t, resp.Items, 2)

	// 库存已扣减
	assert.Equal(t, 8, env.bookRepo.books["9787111111111"].Stock)
	assert.Equal(t, 4, env.bookRepo.books["9787222222222"].Stock)

	// 销售流水已写入
	require.Len(t, env.orderRepo.sales, 1)
	assert.Equal(t, int64(20600), env.orderRepo.sales[0].Amount)

	// 购物车已清空
	assert.True(t, env.cartRepo.cleared)

	// 事件已发布
	assert.Contains(t, env.publisher.events, "order.confirmed")
}

func TestCheckoutCOD(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	resp, err := env.uc.Execute(context.Background(), CheckoutRequest{
		UserID:        1,
		PaymentMethod: "COD",
	})
	require.NoError(t, err)
	assert.Equal(t, order.PaymentCOD, resp.PaymentLast4)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newCheckoutEnv()

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyCart, apperrors.GetAppError(err).Code)

	// 无任何副作用
	assert.Empty(t, env.orderRepo.orders)
	assert.Empty(t, env.orderRepo.sales)
}

func TestCheckoutInvalidCard(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	tests := []struct {
		name   string
		number string
		expiry string
	}{
		{"卡号太短", "4242", testCardExpiry},
		{"Luhn校验失败", "4242424242424241", testCardExpiry},
		{"有效期已过", testCardNumber, "0120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.uc.Execute(context.Background(), CheckoutRequest{
				UserID:        1,
				PaymentMethod: "CARD",
				CardNumber:    tt.number,
				CardExpiry:    tt.expiry,
			})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodePaymentRejected, apperrors.GetAppError(err).Code)
		})
	}

	// 支付校验失败不产生任何存储写入
	assert.Empty(t, env.orderRepo.orders)
	assert.Equal(t, 10, env.bookRepo.books["9787111111111"].Stock)
	assert.False(t, env.cartRepo.cleared)
	assert.Empty(t, env.bookRepo.lockedISBNs, "支付校验失败不应触碰数据库")
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	_, err := env.uc.Execute(context.Background(), CheckoutRequest{
		UserID:        1,
		PaymentMethod: "BITCOIN",
	})
	assert.Error(t, err)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	env := newCheckoutEnv()
	// 库存5本,要买6本
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787222222222", Qty: 6}}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
	// 错误信息指明是哪本书、现有多少、要买多少
	assert.Contains(t, appErr.Message, "数据库系统")
	assert.Contains(t, appErr.Message, "5")
	assert.Contains(t, appErr.Message, "6")

	// 整单失败:无订单、无流水、购物车保留
	assert.Empty(t, env.orderRepo.orders)
	assert.Empty(t, env.orderRepo.sales)
	assert.False(t, env.cartRepo.cleared)
}

func TestCheckoutPartialInsufficientFailsWhole(t *testing.T) {
	env := newCheckoutEnv()
	// 第一本够,第二本不够:整单失败
	env.cartRepo.items = []*cart.Item{
		{CartID: 1, ISBN: "9787111111111", Qty: 1},
		{CartID: 1, ISBN: "9787222222222", Qty: 100},
	}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.Error(t, err)
	assert.Empty(t, env.orderRepo.orders)
}

func TestCheckoutLockOrderSortedByISBN(t *testing.T) {
	env := newCheckoutEnv()
	// 购物车顺序故意反着放
	env.cartRepo.items = []*cart.Item{
		{CartID: 1, ISBN: "9787222222222", Qty: 1},
		{CartID: 1, ISBN: "9787111111111", Qty: 1},
	}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)

	// 加锁顺序必须是ISBN升序,与购物车顺序无关
	assert.Equal(t, []string{"9787111111111", "9787222222222"}, env.bookRepo.lockedISBNs)
}

func TestCheckoutIssuesReplenishment(t *testing.T) {
	env := newCheckoutEnv()
	// 库存10,阈值3:买8本后剩2,触发补货
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 8}}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)

	require.Len(t, env.replRepo.created, 1)
	repl := env.replRepo.created[0]
	assert.Equal(t, "9787111111111", repl.ISBN)
	assert.Equal(t, uint(1), repl.PublisherID)
	// 补货量 = 2*3 - 2 = 4
	assert.Equal(t, 4, repl.Qty)
	assert.Equal(t, replenishment.StatusPending, repl.Status)

	assert.Contains(t, env.publisher.events, "replenishment.requested")
}

func TestCheckoutNoReplenishmentAboveThreshold(t *testing.T) {
	env := newCheckoutEnv()
	// 买1本后剩9,高于阈值3
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)
	assert.Empty(t, env.replRepo.created)
}

func TestCheckoutReplenishmentIdempotent(t *testing.T) {
	env := newCheckoutEnv()
	// 已有Pending补货单时不重复发起
	env.replRepo.pending["9787111111111"] = true
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 8}}

	_, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)
	assert.Empty(t, env.replRepo.created)
}

func TestCheckoutSnapshotInsulatesFromCatalogEdits(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	resp, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)

	// 结算后修改目录,订单快照不受影响
	env.bookRepo.books["9787111111111"].Title = "改名了"
	env.bookRepo.books["9787111111111"].Price = 1

	o, err := env.orderRepo.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Go程序设计", o.Items[0].TitleSnapshot)
	assert.Equal(t, int64(5900), o.Items[0].PriceSnapshot)
	assert.Equal(t, int64(5900), o.Total)
}

func TestCheckoutWithoutPublisher(t *testing.T) {
	// MQ未配置(publisher为nil)时结算照常工作
	env := newCheckoutEnv()
	uc := NewCheckoutUseCase(env.cartRepo, env.bookRepo, env.orderRepo, env.replRepo, passthroughTx{}, nil)
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	_, err := uc.Execute(context.Background(), cardRequest(1))
	assert.NoError(t, err)
}

// =========================================
// 取消订单
// =========================================

func TestCancelOrderRestoresStock(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 3}}

	resp, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)
	assert.Equal(t, 7, env.bookRepo.books["9787111111111"].Stock)

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, passthroughTx{}, env.publisher)
	err = cancelUC.Execute(context.Background(), 1, resp.OrderID)
	require.NoError(t, err)

	// 库存已回补
	assert.Equal(t, 10, env.bookRepo.books["9787111111111"].Stock)
	assert.Contains(t, env.publisher.events, "order.cancelled")

	// 重复取消被状态机拒绝
	err = cancelUC.Execute(context.Background(), 1, resp.OrderID)
	assert.Error(t, err)
}

func TestCancelOrderLockOrderSortedByISBN(t *testing.T) {
	env := newCheckoutEnv()

	// 明细故意按ISBN降序存放,模拟存储层不保证读取顺序的情况
	env.orderRepo.orders = []*order.Order{{
		ID:     1,
		UserID: 1,
		Status: order.StatusConfirmed,
		Items: []order.Item{
			{ISBN: "9787222222222", Qty: 1},
			{ISBN: "9787111111111", Qty: 1},
		},
	}}

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, passthroughTx{}, nil)
	err := cancelUC.Execute(context.Background(), 1, 1)
	require.NoError(t, err)

	// 回补加锁顺序必须是ISBN升序,与结算共用同一套锁协议
	assert.Equal(t, []string{"9787111111111", "9787222222222"}, env.bookRepo.lockedISBNs)
}

func TestCancelOrderForbiddenForOthers(t *testing.T) {
	env := newCheckoutEnv()
	env.cartRepo.items = []*cart.Item{{CartID: 1, ISBN: "9787111111111", Qty: 1}}

	resp, err := env.uc.Execute(context.Background(), cardRequest(1))
	require.NoError(t, err)

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, passthroughTx{}, nil)
	err = cancelUC.Execute(context.Background(), 2, resp.OrderID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetAppError(err).Code)

	// 未取消,库存不变
	assert.Equal(t, 9, env.bookRepo.books["9787111111111"].Stock)
}

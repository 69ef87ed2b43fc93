package order

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/xiebiao/booky/internal/domain/book"
	"github.com/xiebiao/booky/internal/domain/cart"
	"github.com/xiebiao/booky/internal/domain/order"
	"github.com/xiebiao/booky/internal/domain/payment"
	"github.com/xiebiao/booky/internal/domain/replenishment"
	apperrors "github.com/xiebiao/booky/pkg/errors"
	"github.com/xiebiao/booky/pkg/metrics"
)

// TxManager 事务管理接口
// 由infrastructure层的mysql.TxManager实现;用例层只依赖接口,
// 单元测试可用直通实现替代真实事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 领域事件发布接口(实现:pkg/mq.Publisher)
// 发布发生在COMMIT之后,失败只记录日志不影响订单
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// CheckoutUseCase 结算用例
// 这是整个系统最核心的用例:支付校验→锁库存→下单→扣减→自动补货→清空购物车,
// 全部数据库写操作在同一个事务内完成
type CheckoutUseCase struct {
	cartRepo  cart.Repository
	bookRepo  book.Repository
	orderRepo order.Repository
	replRepo  replenishment.Repository
	issuer    *replenishment.Issuer
	txManager TxManager
	publisher EventPublisher // 可为nil(MQ未配置时)
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	bookRepo book.Repository,
	orderRepo order.Repository,
	replRepo replenishment.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		replRepo:  replRepo,
		issuer:    replenishment.NewIssuer(replRepo),
		txManager: txManager,
		publisher: publisher,
	}
}

// CheckoutRequest 结算请求DTO
type CheckoutRequest struct {
	UserID        uint   // 买家用户ID(从JWT中提取)
	PaymentMethod string // CARD或COD
	CardNumber    string // 卡号(仅CARD,不落库)
	CardExpiry    string // 有效期MMYY(仅CARD)
}

// CheckoutResponse 结算响应DTO
type CheckoutResponse struct {
	OrderID      uint           `json:"order_id"`
	OrderNo      string         `json:"order_no"`
	Total        int64          `json:"total"`
	TotalYuan    string         `json:"total_yuan"`
	Status       string         `json:"status"`
	PaymentLast4 string         `json:"payment_last4"`
	Items        []CheckoutItem `json:"items"`
	CreatedAt    string         `json:"created_at"`
}

// CheckoutItem 结算响应明细(快照值)
type CheckoutItem struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	PriceYuan string `json:"price_yuan"`
	Qty       int    `json:"qty"`
}

// OrderConfirmedEvent 结算成功事件(routing key: order.confirmed)
type OrderConfirmedEvent struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	UserID    uint   `json:"user_id"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
	Timestamp string `json:"timestamp"`
}

// ReplenishmentRequestedEvent 自动补货事件(routing key: replenishment.requested)
type ReplenishmentRequestedEvent struct {
	ReplenishmentID uint   `json:"replenishment_id"`
	ISBN            string `json:"isbn"`
	PublisherID     uint   `json:"publisher_id"`
	Qty             int    `json:"qty"`
	Timestamp       string `json:"timestamp"`
}

// Execute 执行结算
//
// 核心问题:库存超卖
// 场景:某书库存10本,100人同时结算
// 错误做法是先查库存再判断再扣减,100个请求都能通过检查。
// 正确做法:
//  1. SELECT ... FOR UPDATE 锁定购物车涉及的每一行图书
//  2. 在锁内复核库存(购物车页面的库存提示只是无锁快照,不可信)
//  3. 扣减库存(UPDATE带stock_qty + delta >= 0守卫,双保险)
//  4. COMMIT释放锁
//
// 事务内的完整步骤:
//  1. 支付校验(事务外:卡号格式/Luhn/有效期,失败不开启事务)
//  2. 读取购物车明细,空购物车拒绝
//  3. 按ISBN升序逐本加行锁(固定加锁顺序,避免两笔结算互相死锁)
//  4. 锁内复核库存,不足则整单失败并指明是哪本书
//  5. 创建订单+明细快照(书名/单价取锁定时刻的值,防改价攻击)
//  6. 扣减库存
//  7. 跌破阈值的书自动创建补货单(替代旧版的数据库触发器)
//  8. 写销售流水(报表数据源)
//  9. 清空购物车明细
//  10. COMMIT;随后发布领域事件(尽力而为)
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	start := time.Now()

	// 1. 支付校验(事务外完成,失败不占用数据库连接)
	method := payment.Method(req.PaymentMethod)
	if !method.Valid() {
		uc.countFailure("validation")
		return nil, payment.ErrInvalidMethod
	}

	paymentLast4 := order.PaymentCOD
	if method == payment.MethodCard {
		card, err := payment.ValidateCard(req.CardNumber, req.CardExpiry)
		if err != nil {
			uc.countFailure("validation")
			return nil, err
		}
		paymentLast4 = card.Last4
	}

	var (
		result      *order.Order
		issuedRepls []*replenishment.Order
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 读取购物车明细
		cartID, err := uc.cartRepo.EnsureActive(txCtx, req.UserID)
		if err != nil {
			return err
		}
		items, err := uc.cartRepo.ListItems(txCtx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return cart.ErrEmptyCart
		}

		// 3. 固定按ISBN升序加锁,避免并发结算交叉等锁死锁
		sort.Slice(items, func(i, j int) bool { return items[i].ISBN < items[j].ISBN })

		lockedBooks := make(map[string]*book.Book, len(items))
		for _, item := range items {
			b, err := uc.bookRepo.LockByISBN(txCtx, item.ISBN)
			if err != nil {
				return err
			}

			// 4. 锁内复核库存(权威校验)
			if !b.HasStockFor(item.Qty) {
				return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
					"图书《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Stock, item.Qty)
			}
			lockedBooks[item.ISBN] = b
		}

		// 5. 创建订单,明细取锁定时刻的书名/单价快照
		orderItems := make([]order.Item, len(items))
		for i, item := range items {
			b := lockedBooks[item.ISBN]
			orderItems[i] = order.Item{
				ISBN:          b.ISBN,
				TitleSnapshot: b.Title,
				PriceSnapshot: b.Price,
				Qty:           item.Qty,
			}
		}

		newOrder := order.NewOrder(order.GenerateOrderNo(), req.UserID, paymentLast4, orderItems)
		if err := newOrder.Confirm(newOrder.CalculateTotal()); err != nil {
			return err
		}
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// 6+7. 扣减库存,跌破阈值则自动补货
		for _, item := range items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.ISBN, -item.Qty); err != nil {
				return err
			}

			b := lockedBooks[item.ISBN]
			if err := b.DecrStock(item.Qty); err != nil {
				return err // 已在锁内复核过,正常不会走到这里
			}

			repl, err := uc.issuer.IssueIfBelowThreshold(txCtx, b)
			if err != nil {
				return err
			}
			if repl != nil {
				issuedRepls = append(issuedRepls, repl)
			}
		}

		// 8. 销售流水(报表数据源,追加写)
		st := &order.SalesTransaction{
			OrderID:  newOrder.ID,
			Amount:   newOrder.Total,
			SaleDate: time.Now(),
		}
		if err := uc.orderRepo.CreateSalesTransaction(txCtx, st); err != nil {
			return err
		}

		// 9. 清空购物车(购物车行保留,下次购物复用)
		if err := uc.cartRepo.ClearItems(txCtx, cartID); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		uc.countFailure(failureReason(err))
		return nil, err
	}

	// 事务已提交:记录指标,发布事件
	if metrics.CheckoutSuccessTotal != nil {
		metrics.CheckoutSuccessTotal.Inc()
		metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}
	if metrics.ReplenishmentsIssuedTotal != nil {
		for range issuedRepls {
			metrics.ReplenishmentsIssuedTotal.Inc()
		}
	}
	uc.publishEvents(ctx, result, issuedRepls)

	return toCheckoutResponse(result), nil
}

// publishEvents COMMIT后发布领域事件
// 尽力而为:发布失败只记录日志,订单已经提交成功
func (uc *CheckoutUseCase) publishEvents(ctx context.Context, o *order.Order, repls []*replenishment.Order) {
	if uc.publisher == nil {
		return
	}

	now := time.Now().Format(time.RFC3339)
	event := OrderConfirmedEvent{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		UserID:    o.UserID,
		Total:     o.Total,
		ItemCount: len(o.Items),
		Timestamp: now,
	}
	if err := uc.publisher.Publish(ctx, "order.confirmed", event); err != nil {
		log.Printf("发布order.confirmed事件失败: %v", err)
	}

	for _, r := range repls {
		ev := ReplenishmentRequestedEvent{
			ReplenishmentID: r.ID,
			ISBN:            r.ISBN,
			PublisherID:     r.PublisherID,
			Qty:             r.Qty,
			Timestamp:       now,
		}
		if err := uc.publisher.Publish(ctx, "replenishment.requested", ev); err != nil {
			log.Printf("发布replenishment.requested事件失败: %v", err)
		}
	}
}

func (uc *CheckoutUseCase) countFailure(reason string) {
	if metrics.CheckoutFailedTotal != nil {
		metrics.CheckoutFailedTotal.WithLabelValues(reason).Inc()
	}
}

// failureReason 将事务错误归类为指标label(低基数)
func failureReason(err error) string {
	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeEmptyCart:
		return "empty_cart"
	case apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case apperrors.ErrCodePaymentRejected:
		return "validation"
	default:
		return "persistence"
	}
}

func toCheckoutResponse(o *order.Order) *CheckoutResponse {
	items := make([]CheckoutItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = CheckoutItem{
			ISBN:      item.ISBN,
			Title:     item.TitleSnapshot,
			PriceYuan: formatPrice(item.PriceSnapshot),
			Qty:       item.Qty,
		}
	}
	return &CheckoutResponse{
		OrderID:      o.ID,
		OrderNo:      o.OrderNo,
		Total:        o.Total,
		TotalYuan:    formatPrice(o.Total),
		Status:       o.Status.String(),
		PaymentLast4: o.PaymentLast4,
		Items:        items,
		CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

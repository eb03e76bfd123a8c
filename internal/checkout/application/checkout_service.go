package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/livecommerce/internal/cart/domain"
	"github.com/wyfcoding/livecommerce/internal/checkout/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
)

// CartGateway 结算对购物车上下文的依赖：读取与清空会话购物车
type CartGateway interface {
	GetCart(ctx context.Context, sessionToken string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, sessionToken string) error
}

// CheckoutCommand 结算命令。IdempotencyKey 可由客户端携带用于安全重试，
// 缺省时服务端生成。
type CheckoutCommand struct {
	SessionToken   string
	UserID         uint
	IdempotencyKey string
}

// Receipt 结算回执
type Receipt struct {
	OrderID        string          `json:"order_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int64           `json:"item_count"`
}

// CheckoutService 结算服务。批量更新、订单落库与事件发布在同一事务内完成，
// 只有事务提交成功才清空购物车。
type CheckoutService struct {
	store     domain.InventoryStore
	carts     CartGateway
	publisher domain.EventPublisher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService 创建结算服务实例
func NewCheckoutService(store domain.InventoryStore, carts CartGateway, publisher domain.EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:     store,
		carts:     carts,
		publisher: publisher,
		inFlight:  make(map[string]struct{}),
	}
}

// Checkout 执行结算。同一会话并发提交返回 ErrCheckoutInFlight，
// 幂等键重复返回 ErrDuplicateCheckout，事务失败时购物车保持原样。
func (s *CheckoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (*Receipt, error) {
	if !s.acquire(cmd.SessionToken) {
		return nil, domain.ErrCheckoutInFlight
	}
	defer s.release(cmd.SessionToken)

	cart, err := s.carts.GetCart(ctx, cmd.SessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	lines := make([]domain.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, domain.Line{
			ProductID:     item.ID,
			Name:          item.Name,
			UnitPrice:     item.Price,
			Quantity:      item.Quantity,
			SnapshotStock: item.Stock,
		})
	}

	key := cmd.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	order := &domain.Order{
		ID:             fmt.Sprintf("ORD-%d", idgen.GenID()),
		IdempotencyKey: key,
		UserID:         cmd.UserID,
		Total:          cart.Total(),
		ItemCount:      cart.Count(),
		Lines:          lines,
	}
	updates := domain.BuildBatch(lines)

	err = s.store.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.store.ApplyBatch(txCtx, updates); err != nil {
			return err
		}
		if err := s.store.SaveOrder(txCtx, order); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		tx := contextx.GetTx(txCtx)
		placed := domain.OrderPlacedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Total:     order.Total,
			ItemCount: order.ItemCount,
			Timestamp: time.Now(),
		}
		if err := s.publisher.PublishInTx(ctx, tx, domain.OrderPlacedEventType, order.ID, placed); err != nil {
			return err
		}
		committed := domain.StockCommittedEvent{
			OrderID:   order.ID,
			Updates:   updates,
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, tx, domain.StockCommittedEventType, order.ID, committed)
	})
	if err != nil {
		return nil, err
	}

	// 事务已提交；清空失败只影响展示，订单与库存都已生效
	_ = s.carts.ClearCart(ctx, cmd.SessionToken)

	return &Receipt{
		OrderID:        order.ID,
		IdempotencyKey: order.IdempotencyKey,
		Total:          order.Total,
		ItemCount:      order.ItemCount,
	}, nil
}

// GetReceipt 按幂等键取回之前的回执，不存在返回 (nil, nil)
func (s *CheckoutService) GetReceipt(ctx context.Context, idempotencyKey string) (*Receipt, error) {
	order, err := s.store.GetOrderByKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return &Receipt{
		OrderID:        order.ID,
		IdempotencyKey: order.IdempotencyKey,
		Total:          order.Total,
		ItemCount:      order.ItemCount,
	}, nil
}

func (s *CheckoutService) acquire(sessionToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[sessionToken]; ok {
		return false
	}
	s.inFlight[sessionToken] = struct{}{}
	return true
}

func (s *CheckoutService) release(sessionToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionToken)
}

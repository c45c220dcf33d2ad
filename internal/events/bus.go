package events

import (
	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/talkincode/toughstore/internal/domain"
	"go.uber.org/zap"
)

// Topics published on the application bus
const (
	TopicOrderCreated = "order.created"
)

// OrderCreated carries a freshly committed order to best-effort listeners.
type OrderCreated struct {
	Order *domain.Order `json:"order"`
	Email string        `json:"email"`
}

// Bus wraps the process-wide event bus. Publishing is asynchronous on a
// worker pool so listener behaviour never reaches back into the caller.
type Bus struct {
	bus  EventBus.Bus
	pool *ants.Pool
}

func NewBus(workers int) *Bus {
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		panic(err)
	}
	return &Bus{bus: EventBus.New(), pool: pool}
}

// SubscribeOrderCreated registers a listener for committed orders.
func (b *Bus) SubscribeOrderCreated(fn func(evt *OrderCreated)) error {
	return b.bus.Subscribe(TopicOrderCreated, fn)
}

// PublishOrderCreated dispatches the event on the pool. Delivery is
// best-effort: a saturated pool or a panicking listener is logged and dropped.
func (b *Bus) PublishOrderCreated(evt *OrderCreated) {
	err := b.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Warn("order.created listener panic",
					zap.Any("recover", r),
					zap.Int64("order_id", evt.Order.ID))
			}
		}()
		b.bus.Publish(TopicOrderCreated, evt)
	})
	if err != nil {
		zap.L().Warn("order.created dispatch dropped", zap.Error(err))
	}
}

// Release stops the dispatch pool.
func (b *Bus) Release() {
	b.pool.Release()
}

package cache

import (
	"time"

	"craft-store/internal/model"

	gocache "github.com/patrickmn/go-cache"
)

// OrderViewCache keeps rendered order detail views warm between reads.
// Reconciliation invalidates an order's entry when it flips to paid, so a
// read that follows the webhook never serves a stale unpaid view.
type OrderViewCache struct {
	cache *gocache.Cache
}

func NewOrderViewCache(ttl time.Duration) *OrderViewCache {
	return &OrderViewCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *OrderViewCache) Get(orderID string) (*model.Order, bool) {
	value, found := c.cache.Get(orderID)
	if !found {
		return nil, false
	}

	order, ok := value.(*model.Order)
	return order, ok
}

func (c *OrderViewCache) Set(order *model.Order) {
	c.cache.SetDefault(order.ID, order)
}

func (c *OrderViewCache) Invalidate(orderID string) {
	c.cache.Delete(orderID)
}

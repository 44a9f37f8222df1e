package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/Sampel65/youshop-go/internal/store"
)

const cacheKey = "products"

// Cache holds the last successfully fetched product list and serves it until
// invalidated. It is write-through to the durable store so a restart keeps
// the catalog warm.
type Cache struct {
	mu       sync.RWMutex
	products []Product
	warm     bool

	store  store.Store
	logger *log.Logger
}

// NewCache loads any persisted product list. A decode failure or a store
// error means a cold cache, never a fatal error.
func NewCache(ctx context.Context, st store.Store, logger *log.Logger) *Cache {
	c := &Cache{store: st, logger: logger}

	raw, err := st.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Printf("load cached products: %v", err)
		}
		return c
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		logger.Printf("decode cached products, starting cold: %v", err)
		return c
	}

	c.products = products
	c.warm = true
	return c
}

// Products returns the cached list and whether the cache is warm.
func (c *Cache) Products() ([]Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.warm {
		return nil, false
	}
	cp := make([]Product, len(c.products))
	copy(cp, c.products)
	return cp, true
}

// Put replaces the cached list and persists it. A save failure leaves the
// in-memory cache authoritative.
func (c *Cache) Put(ctx context.Context, products []Product) {
	cp := make([]Product, len(products))
	copy(cp, products)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = cp
	c.warm = true

	raw, err := json.Marshal(cp)
	if err != nil {
		c.logger.Printf("encode cached products: %v", err)
		return
	}
	if err := c.store.Set(ctx, cacheKey, raw); err != nil {
		c.logger.Printf("save cached products: %v", err)
	}
}

// Invalidate drops the in-memory list and the persisted blob.
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	c.warm = false

	if err := c.store.Delete(ctx, cacheKey); err != nil {
		c.logger.Printf("clear cached products: %v", err)
	}
}

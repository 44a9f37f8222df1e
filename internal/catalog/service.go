package catalog

import (
	"context"
	"fmt"
	"log"
)

// Service is the fetch-with-cache entry point the rest of the app consumes.
type Service struct {
	client *Client
	cache  *Cache
	logger *log.Logger
}

func NewService(client *Client, cache *Cache, logger *log.Logger) *Service {
	return &Service{client: client, cache: cache, logger: logger}
}

// Products returns the cached list when warm, otherwise fetches from the
// provider and caches the result.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	if products, ok := s.cache.Products(); ok {
		return products, nil
	}

	products, err := s.client.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	s.cache.Put(ctx, products)
	return products, nil
}

// Refresh invalidates the cache and fetches a fresh list.
func (s *Service) Refresh(ctx context.Context) ([]Product, error) {
	s.cache.Invalidate(ctx)
	return s.Products(ctx)
}

// Find returns the product with the given id, if known.
func (s *Service) Find(ctx context.Context, id int) (Product, bool, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

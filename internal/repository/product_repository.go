package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mercado-libre-api/internal/domain"
	"mercado-libre-api/internal/metrics"
	"mercado-libre-api/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
// Every mutating call rewrites the whole catalog through the storage backend.
type ProductRepository interface {
	Load(ctx context.Context) error
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByCategory(ctx context.Context, category, excludeID string, limit int) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// productRepository holds the catalog in memory, in insertion order.
// The mutex protects the map itself; callers performing read-modify-write
// sequences are not serialized against each other.
type productRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string

	persistMu sync.Mutex
	backend   storage.Backend
	logger    *zap.Logger
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(backend storage.Backend, logger *zap.Logger) ProductRepository {
	return &productRepository{
		products: make(map[string]*domain.Product),
		backend:  backend,
		logger:   logger,
	}
}

// Load replaces the in-memory catalog with the stored snapshot. When no snapshot
// exists yet, the seed catalog is written and adopted.
func (r *productRepository) Load(ctx context.Context) error {
	products, err := r.backend.Load(ctx)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		r.logger.Info("No catalog snapshot found, writing seed data",
			zap.String("backend", r.backend.Name()),
		)

		products = SeedProducts()
		if err := r.backend.SaveAll(ctx, products); err != nil {
			return fmt.Errorf("failed to write seed products: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	r.mu.Lock()
	r.products = make(map[string]*domain.Product, len(products))
	r.order = r.order[:0]
	for i := range products {
		p := products[i]
		if _, exists := r.products[p.ID]; !exists {
			r.order = append(r.order, p.ID)
		}
		r.products[p.ID] = &p
	}
	count := len(r.order)
	r.mu.Unlock()

	metrics.Products.Set(float64(count))
	r.logger.Info("Catalog loaded",
		zap.String("backend", r.backend.Name()),
		zap.Int("products", count),
	)
	return nil
}

// FindAll returns copies of every product in store order
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id].Clone())
	}
	return products, nil
}

// FindByID returns a copy of the product with the given ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product.Clone(), nil
}

// FindByCategory returns up to limit products in category, skipping excludeID, in store order
func (r *productRepository) FindByCategory(ctx context.Context, category, excludeID string, limit int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*domain.Product{}
	for _, id := range r.order {
		if len(products) >= limit {
			break
		}
		p := r.products[id]
		if p.Category == category && p.ID != excludeID {
			products = append(products, p.Clone())
		}
	}
	return products, nil
}

// Save inserts or replaces the product, then persists the whole catalog.
// A persist failure is returned but the in-memory change is kept.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product.Clone()
	r.mu.Unlock()

	return r.persist(ctx)
}

// Delete removes the product, then persists the whole catalog
func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, exists := r.products[id]; !exists {
		r.mu.Unlock()
		return ErrProductNotFound
	}

	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	return r.persist(ctx)
}

// persist snapshots the catalog and writes it. Writes are serialized so the
// snapshot taken last is always the one written last.
func (r *productRepository) persist(ctx context.Context) error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.mu.RLock()
	snapshot := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, *r.products[id].Clone())
	}
	r.mu.RUnlock()

	metrics.Products.Set(float64(len(snapshot)))

	start := time.Now()
	err := r.backend.SaveAll(ctx, snapshot)
	metrics.ObserveSnapshotWrite(r.backend.Name(), time.Since(start), err)

	if err != nil {
		r.logger.Error("Failed to persist catalog",
			zap.String("backend", r.backend.Name()),
			zap.Int("products", len(snapshot)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

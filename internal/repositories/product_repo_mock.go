package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products matching the filter.
func (r *MockProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.Available != nil {
			if *filter.Available && p.Stock == 0 {
				continue
			}
			if !*filter.Available && p.Stock > 0 {
				continue
			}
		}
		productList = append(productList, p)
	}
	return paginate(sortByID(productList, func(p models.Product) string { return p.ID }), filter.Skip, filter.Limit), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NewProductNotFound(id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return apperrors.NewProductNotFound(product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return apperrors.NewProductNotFound(id)
	}
	delete(r.products, id)
	return nil
}

// Reserve decrements stock by quantity under the repository lock, so the
// check and the decrement are atomic like the SQL conditional update.
func (r *MockProductRepository) Reserve(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.NewProductNotFound(id)
	}
	if product.Stock < quantity {
		return apperrors.NewInsufficientStock(id, product.Stock, quantity)
	}
	product.Stock -= quantity
	r.products[id] = product
	return nil
}

// Release increments stock by quantity.
func (r *MockProductRepository) Release(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.NewPersistenceError(fmt.Sprintf("stock release for missing product %s", id), nil)
	}
	product.Stock += quantity
	r.products[id] = product
	return nil
}

// snapshot copies the store for transactional rollback.
func (r *MockProductRepository) snapshot() map[string]models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]models.Product, len(r.products))
	for id, p := range r.products {
		copied[id] = p
	}
	return copied
}

// restore replaces the store with a previously taken snapshot.
func (r *MockProductRepository) restore(snapshot map[string]models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = snapshot
}

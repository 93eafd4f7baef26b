package repositories

import (
	"backoffice/internal/models"
)

// ProductFilter holds the optional catalog listing filters.
type ProductFilter struct {
	Category  string
	MaxPrice  *float64
	Available *bool // true: stock > 0, false: stock == 0
	Skip      int
	Limit     int
}

// ProductRepository defines the interface for product data access.
//
// Reserve and Release are the only stock mutations in the system. Reserve is
// a guarded conditional decrement: it must fail with InsufficientStockError
// instead of driving stock negative, even under concurrent callers.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Reserve(id string, quantity int) error
	Release(id string, quantity int) error
}

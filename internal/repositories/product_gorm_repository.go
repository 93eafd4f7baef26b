package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products from the database, applying the given filters.
func (r *GORMProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Available != nil {
		if *filter.Available {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}

	query = query.Order("id ASC").Offset(filter.Skip)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewProductNotFound(id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound for an update that
		// matched nothing, so we check RowsAffected.
		return apperrors.NewProductNotFound(product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewProductNotFound(id)
	}
	return nil
}

// Reserve atomically decrements the product's stock by quantity. The check
// and the decrement are a single conditional UPDATE, so two concurrent
// reservations can never both pass against a stale stock value.
func (r *GORMProductRepository) Reserve(id string, quantity int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to reserve stock for product %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing product from insufficient stock.
		product, err := r.GetByID(id)
		if err != nil {
			if _, ok := apperrors.IsProductNotFound(err); ok {
				return err
			}
			return apperrors.NewPersistenceError(fmt.Sprintf("failed to reserve stock for product %s", id), err)
		}
		return apperrors.NewInsufficientStock(id, product.Stock, quantity)
	}
	return nil
}

// Release atomically increments the product's stock by quantity, undoing a
// prior reservation. A missing product here is a data-integrity failure, not
// a client error.
func (r *GORMProductRepository) Release(id string, quantity int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to release stock for product %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewPersistenceError(fmt.Sprintf("stock release for missing product %s", id), nil)
	}
	return nil
}

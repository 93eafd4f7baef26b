package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// List retrieves orders matching the filter, items preloaded, ordered by id
// ascending so pagination is stable.
func (r *GORMOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	query := r.db.Model(&models.Order{}).Preload("Items")

	if filter.ID != "" {
		query = query.Where("orders.id = ?", filter.ID)
	}
	if filter.ClientID != "" {
		query = query.Where("orders.client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}

	// Item-level filters join through order_items; join it once even when
	// both filters are set, and de-duplicate the joined rows.
	needsItems := filter.ProductID != "" || filter.Section != ""
	if needsItems {
		query = query.Joins("JOIN order_items ON order_items.order_id = orders.id").
			Distinct("orders.*")
	}
	if filter.ProductID != "" {
		query = query.Where("order_items.product_id = ?", filter.ProductID)
	}
	if filter.Section != "" {
		query = query.Joins("JOIN products ON products.id = order_items.product_id").
			Where("LOWER(products.section) LIKE ?", "%"+strings.ToLower(filter.Section)+"%")
	}

	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("orders.created_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	} else if filter.StartDate != nil {
		query = query.Where("orders.created_at >= ?", *filter.StartDate)
	} else if filter.EndDate != nil {
		query = query.Where("orders.created_at <= ?", *filter.EndDate)
	}

	query = query.Order("orders.id ASC").Offset(filter.Skip)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewOrderNotFound(id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists a new order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return apperrors.NewPersistenceError("failed to create order", err)
	}
	return nil
}

// Save persists the order's scalar fields.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Select("ClientID", "Status", "TotalAmount", "TotalPrice").
		Updates(models.Order{
			ClientID:    order.ClientID,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			TotalPrice:  order.TotalPrice,
		})
	if res.Error != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to save order %s", order.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewOrderNotFound(order.ID)
	}
	return nil
}

// ReplaceItems removes the order's current item rows and inserts the new set.
func (r *GORMOrderRepository) ReplaceItems(orderID string, items []models.OrderItem) error {
	if err := r.db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to delete items of order %s", orderID), err)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = orderID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return apperrors.NewPersistenceError(fmt.Sprintf("failed to insert items of order %s", orderID), err)
		}
	}
	return nil
}

// Delete removes the order and all of its items.
func (r *GORMOrderRepository) Delete(id string) error {
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to delete items of order %s", id), err)
	}
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to delete order %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewOrderNotFound(id)
	}
	return nil
}

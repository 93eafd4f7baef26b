package repositories

import (
	"time"

	"backoffice/internal/models"
)

// OrderFilter holds the optional order listing filters. All set filters are
// combined with AND. Date bounds are inclusive; a single bound is a one-sided
// inequality.
type OrderFilter struct {
	ID        string
	ClientID  string
	Status    string
	ProductID string // orders containing this product among their items
	Section   string // case-insensitive substring match on an item's product section
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

// OrderRepository defines the interface for order data access. GetByID and
// List return orders with their items loaded.
type OrderRepository interface {
	List(filter OrderFilter) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// Save persists the order's scalar fields (client, status, totals).
	Save(order *models.Order) error
	// ReplaceItems deletes the order's current items and inserts the given set.
	ReplaceItems(orderID string, items []models.OrderItem) error
	// Delete removes the order together with its items.
	Delete(id string) error
}

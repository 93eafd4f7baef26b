package repositories

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. The
// product repository is consulted for the section filter, which joins through
// items to products in the GORM implementation.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// List returns orders matching the filter, sorted by id ascending.
func (r *MockOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if r.matches(order, filter) {
			orderList = append(orderList, order)
		}
	}
	return paginate(sortByID(orderList, func(o models.Order) string { return o.ID }), filter.Skip, filter.Limit), nil
}

func (r *MockOrderRepository) matches(order models.Order, filter OrderFilter) bool {
	if filter.ID != "" && order.ID != filter.ID {
		return false
	}
	if filter.ClientID != "" && order.ClientID != filter.ClientID {
		return false
	}
	if filter.Status != "" && order.Status != filter.Status {
		return false
	}
	if filter.ProductID != "" && !hasProduct(order, filter.ProductID) {
		return false
	}
	if filter.Section != "" && !r.hasSection(order, filter.Section) {
		return false
	}
	if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
		return false
	}
	return true
}

func hasProduct(order models.Order, productID string) bool {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (r *MockOrderRepository) hasSection(order models.Order, section string) bool {
	if r.products == nil {
		return false
	}
	for _, item := range order.Items {
		product, err := r.products.GetByID(item.ProductID)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(product.Section), strings.ToLower(section)) {
			return true
		}
	}
	return false
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewOrderNotFound(id)
	}
	return &order, nil
}

// Create adds a new order with its items.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = *order
	return nil
}

// Save persists the order's scalar fields.
func (r *MockOrderRepository) Save(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return apperrors.NewOrderNotFound(order.ID)
	}
	stored.ClientID = order.ClientID
	stored.Status = order.Status
	stored.TotalAmount = order.TotalAmount
	stored.TotalPrice = order.TotalPrice
	r.orders[order.ID] = stored
	return nil
}

// ReplaceItems swaps the order's item set.
func (r *MockOrderRepository) ReplaceItems(orderID string, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return apperrors.NewOrderNotFound(orderID)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = orderID
	}
	order.Items = items
	r.orders[orderID] = order
	return nil
}

// Delete removes the order and its items.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.orders[id]
	if !ok {
		return apperrors.NewOrderNotFound(id)
	}
	delete(r.orders, id)
	return nil
}

// snapshot copies the store for transactional rollback. Item slices are
// copied too, so restoring cannot alias mutated state.
func (r *MockOrderRepository) snapshot() map[string]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]models.Order, len(r.orders))
	for id, o := range r.orders {
		items := make([]models.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
		copied[id] = o
	}
	return copied
}

// restore replaces the store with a previously taken snapshot.
func (r *MockOrderRepository) restore(snapshot map[string]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = snapshot
}

package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
	"backoffice/internal/repositories"
	"backoffice/pkg/rabbitmq"
)

// OrderLineRequest is one requested product/quantity pair.
type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest is the input for CreateOrder.
type CreateOrderRequest struct {
	ClientID string             `json:"client_id" validate:"required"`
	Status   string             `json:"status"`
	Products []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

// UpdateOrderRequest is the input for UpdateOrder. All fields are optional
// and independent; a non-empty Products list replaces the order's whole item
// set.
type UpdateOrderRequest struct {
	ClientID *string            `json:"client_id"`
	Status   *string            `json:"status"`
	Products []OrderLineRequest `json:"products" validate:"omitempty,dive"`
}

// OrderService implements order placement with inventory reservation: create
// reserves stock per line and computes the derived totals, update reconciles
// the item set by releasing old reservations before making new ones, delete
// releases everything. Each operation runs as one transaction.
type OrderService struct {
	tx        repositories.TxRunner
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. mqClient may be nil; order
// operations never fail because the broker is unavailable.
func NewOrderService(tx repositories.TxRunner, orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		tx:        tx,
		orderRepo: orderRepo,
		mqClient:  mqClient,
		logger:    logger,
	}
}

// ListOrders retrieves orders matching the filter.
func (s *OrderService) ListOrders(filter repositories.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.List(filter)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder validates the request against the catalog, reserves stock for
// every line in input order, snapshots unit prices, computes totals and
// persists the order atomically. On any failure no stock mutation survives.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("order requires at least one product line")
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.NewInvalidStatus(status)
	}

	var created *models.Order
	err := s.tx.RunInTx(func(repos repositories.RepoSet) error {
		if _, err := repos.Clients.GetByID(req.ClientID); err != nil {
			return err
		}

		items, totalAmount, totalPrice, err := reserveLines(repos.Products, req.Products)
		if err != nil {
			return err
		}

		order := &models.Order{
			ClientID:    req.ClientID,
			Status:      status,
			TotalAmount: totalAmount,
			TotalPrice:  totalPrice,
			CreatedAt:   time.Now().UTC(),
			Items:       items,
		}
		if err := repos.Orders.Create(order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderCreated, created)
	return created, nil
}

// UpdateOrder applies an optional client reassignment, status replacement
// and item reconciliation to an existing order, atomically. Reconciliation
// releases every existing line's stock, then runs the same reserve sequence
// as creation against the post-release stock levels, and rewrites both
// totals.
func (s *OrderService) UpdateOrder(orderID string, req UpdateOrderRequest) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.RunInTx(func(repos repositories.RepoSet) error {
		order, err := repos.Orders.GetByID(orderID)
		if err != nil {
			return err
		}

		if req.ClientID != nil {
			if _, err := repos.Clients.GetByID(*req.ClientID); err != nil {
				return err
			}
			order.ClientID = *req.ClientID
		}

		if req.Status != nil {
			if !models.ValidOrderStatus(*req.Status) {
				return apperrors.NewInvalidStatus(*req.Status)
			}
			order.Status = *req.Status
		}

		if len(req.Products) > 0 {
			for _, item := range order.Items {
				if err := repos.Products.Release(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}

			items, totalAmount, totalPrice, err := reserveLines(repos.Products, req.Products)
			if err != nil {
				return err
			}
			if err := repos.Orders.ReplaceItems(order.ID, items); err != nil {
				return err
			}
			order.Items = items
			order.TotalAmount = totalAmount
			order.TotalPrice = totalPrice
		}

		if err := repos.Orders.Save(order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderUpdated, updated)
	return updated, nil
}

// DeleteOrder releases every line's reserved stock back to the catalog and
// removes the order with its items, atomically. It returns the order's last
// representation.
func (s *OrderService) DeleteOrder(orderID string) (*models.Order, error) {
	var deleted *models.Order
	err := s.tx.RunInTx(func(repos repositories.RepoSet) error {
		order, err := repos.Orders.GetByID(orderID)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := repos.Products.Release(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.Orders.Delete(order.ID); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderDeleted, deleted)
	return deleted, nil
}

// reserveLines runs the validate-reserve-accumulate sequence for each line in
// input order. The first failing line aborts the whole sequence; the caller's
// transaction discards any reservations already made.
func reserveLines(products repositories.ProductRepository, lines []OrderLineRequest) ([]models.OrderItem, int, float64, error) {
	var items []models.OrderItem
	totalAmount := 0
	totalPrice := 0.0

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, 0, fmt.Errorf("quantity must be at least 1 for product %s", line.ProductID)
		}

		product, err := products.GetByID(line.ProductID)
		if err != nil {
			return nil, 0, 0, err
		}
		if err := products.Reserve(line.ProductID, line.Quantity); err != nil {
			return nil, 0, 0, err
		}

		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price, // Price at the time of reservation
		})
		totalPrice += product.Price * float64(line.Quantity)
		totalAmount += line.Quantity
	}
	return items, totalAmount, totalPrice, nil
}

// publishEvent publishes an order lifecycle event after a successful commit.
// Publish failures are logged, never surfaced to the caller.
func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil || order == nil {
		return
	}

	payload := map[string]interface{}{
		"order_id":     order.ID,
		"client_id":    order.ClientID,
		"status":       order.Status,
		"total_amount": order.TotalAmount,
		"total_price":  order.TotalPrice,
	}
	if err := s.mqClient.PublishOrderEvent(event, payload); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event", event), zap.String("orderId", order.ID), zap.Error(err))
		return
	}
	s.logger.Info("published order event",
		zap.String("event", event), zap.String("orderId", order.ID))
}

package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backoffice/internal/apperrors"
	"backoffice/internal/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	// Mutations are restricted to back-office administrators.
	orderRoutes.Post("/", middleware.AdminRequired(), h.HandleCreateOrder)
	orderRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteOrder)
}

// HandleListOrders retrieves orders matching the optional query filters.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		ID:        c.Query("id"),
		ClientID:  c.Query("client_id"),
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Section:   c.Query("section"),
		Skip:      c.QueryInt("skip", 0),
		Limit:     c.QueryInt("limit", 10),
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit < 1 {
		filter.Limit = 1
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid start_date, expected RFC3339 timestamp",
				"error":   err.Error(),
			})
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid end_date, expected RFC3339 timestamp",
				"error":   err.Error(),
			})
		}
		filter.EndDate = &t
	}

	orders, err := h.service.ListOrders(filter)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order, reserving stock for every line.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	createdOrder, err := h.service.CreateOrder(req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleUpdateOrder updates an order's client, status and/or item set.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req services.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	updatedOrder, err := h.service.UpdateOrder(orderID, req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(updatedOrder)
}

// HandleDeleteOrder deletes an order, releasing its reserved stock.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	deletedOrder, err := h.service.DeleteOrder(orderID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(deletedOrder)
}

// errorResponse maps domain errors to HTTP status codes. Anything untyped is
// a persistence or system failure and surfaces as a 500.
func (h *OrderHandler) errorResponse(c *fiber.Ctx, err error) error {
	if e, ok := apperrors.IsProductNotFound(err); ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":    e.Error(),
			"product_id": e.ProductID,
		})
	}
	if e, ok := apperrors.IsClientNotFound(err); ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":   e.Error(),
			"client_id": e.ClientID,
		})
	}
	if e, ok := apperrors.IsOrderNotFound(err); ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":  e.Error(),
			"order_id": e.OrderID,
		})
	}
	if e, ok := apperrors.IsInsufficientStock(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":    e.Error(),
			"product_id": e.ProductID,
			"available":  e.Available,
			"requested":  e.Requested,
		})
	}
	if e, ok := apperrors.IsInvalidStatus(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": e.Error(),
			"status":  e.Status,
		})
	}

	h.logger.Error("order operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process order",
		"error":   err.Error(),
	})
}

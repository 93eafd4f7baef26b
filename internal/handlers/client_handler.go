package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backoffice/internal/apperrors"
	"backoffice/internal/middleware"
	"backoffice/internal/models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	service  *services.ClientService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(service *services.ClientService, logger *zap.Logger) *ClientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the client routes with the Fiber app.
func (h *ClientHandler) RegisterRoutes(router fiber.Router) {
	clientRoutes := router.Group("/clients")
	clientRoutes.Get("/", h.HandleListClients)
	clientRoutes.Get("/:id", h.HandleGetClientByID)
	clientRoutes.Post("/", middleware.AdminRequired(), h.HandleCreateClient)
	clientRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdateClient)
	clientRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteClient)
}

// HandleListClients retrieves clients matching the optional query filters.
func (h *ClientHandler) HandleListClients(c *fiber.Ctx) error {
	filter := repositories.ClientFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", 10),
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

	clients, err := h.service.ListClients(filter)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve clients",
			"error":   err.Error(),
		})
	}
	return c.JSON(clients)
}

// HandleGetClientByID retrieves a single client by its ID.
func (h *ClientHandler) HandleGetClientByID(c *fiber.Ctx) error {
	clientID := c.Params("id")
	client, err := h.service.GetClientByID(clientID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(client)
}

// HandleCreateClient creates a new client.
func (h *ClientHandler) HandleCreateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(client); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreateClient(&client); err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient updates an existing client.
func (h *ClientHandler) HandleUpdateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	client.ID = c.Params("id")

	if err := h.validate.Struct(client); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.UpdateClient(&client); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(client)
}

// HandleDeleteClient deletes a client by its ID.
func (h *ClientHandler) HandleDeleteClient(c *fiber.Ctx) error {
	clientID := c.Params("id")
	if err := h.service.DeleteClient(clientID); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Client deleted successfully",
	})
}

func (h *ClientHandler) errorResponse(c *fiber.Ctx, err error) error {
	if e, ok := apperrors.IsClientNotFound(err); ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":   e.Error(),
			"client_id": e.ClientID,
		})
	}
	if errors.Is(err, services.ErrInvalidCPF) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if errors.Is(err, services.ErrCPFAlreadyRegistered) || errors.Is(err, services.ErrEmailAlreadyRegistered) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	h.logger.Error("client operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process client",
		"error":   err.Error(),
	})
}

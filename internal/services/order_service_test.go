package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
)

type orderFixture struct {
	service  *services.OrderService
	products *repositories.MockProductRepository
	orders   *repositories.MockOrderRepository
	clients  *repositories.MockClientRepository
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(products)
	clients := repositories.NewMockClientRepository()
	tx := repositories.NewMockTxRunner(orders, products, clients)

	return &orderFixture{
		service:  services.NewOrderService(tx, orders, nil, nil),
		products: products,
		orders:   orders,
		clients:  clients,
	}
}

func (f *orderFixture) seedClient(t *testing.T, id string) {
	t.Helper()
	err := f.clients.Create(&models.Client{ID: id, Name: "Cliente Teste", CPF: "52998224725", Email: id + "@example.com"})
	assert.NoError(t, err)
}

func (f *orderFixture) seedProduct(t *testing.T, id string, price float64, stock int) {
	t.Helper()
	err := f.products.Create(&models.Product{ID: id, Name: "Produto " + id, BarCode: "bar-" + id, Price: price, Stock: stock})
	assert.NoError(t, err)
}

func (f *orderFixture) stock(t *testing.T, id string) int {
	t.Helper()
	product, err := f.products.GetByID(id)
	assert.NoError(t, err)
	return product.Stock
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 100.0, 10)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Status:   models.OrderStatusPending,
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 3}},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "client-1", order.ClientID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 3, order.TotalAmount)
	assert.Equal(t, 300.0, order.TotalPrice)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 100.0, order.Items[0].UnitPrice)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, 7, f.stock(t, "prod-a"))

	// A second order exceeding the remaining stock fails and mutates nothing.
	_, err = f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 8}},
	})

	stockErr, ok := apperrors.IsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, "prod-a", stockErr.ProductID)
	assert.Equal(t, 7, stockErr.Available)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 7, f.stock(t, "prod-a"))

	persisted, err := f.orders.List(repositories.OrderFilter{})
	assert.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestOrderService_CreateOrder_DefaultsStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 10.0, 5)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_CreateOrder_InvalidStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 10.0, 5)

	_, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Status:   "despachado",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})

	statusErr, ok := apperrors.IsInvalidStatus(err)
	assert.True(t, ok)
	assert.Equal(t, "despachado", statusErr.Status)
	assert.Equal(t, 5, f.stock(t, "prod-a"))
}

func TestOrderService_CreateOrder_ClientNotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.seedProduct(t, "prod-a", 10.0, 5)

	_, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "ghost",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})

	clientErr, ok := apperrors.IsClientNotFound(err)
	assert.True(t, ok)
	assert.Equal(t, "ghost", clientErr.ClientID)
	assert.Equal(t, 5, f.stock(t, "prod-a"))
}

func TestOrderService_CreateOrder_ProductNotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 10.0, 5)

	_, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "ghost", Quantity: 1},
		},
	})

	productErr, ok := apperrors.IsProductNotFound(err)
	assert.True(t, ok)
	assert.Equal(t, "ghost", productErr.ProductID)
	// The reservation already made for prod-a is rolled back.
	assert.Equal(t, 5, f.stock(t, "prod-a"))
}

func TestOrderService_CreateOrder_RollbackOnThirdLine(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 10.0, 5)
	f.seedProduct(t, "prod-b", 20.0, 5)
	f.seedProduct(t, "prod-c", 30.0, 1)

	_, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 3},
			{ProductID: "prod-c", Quantity: 2},
		},
	})

	_, ok := apperrors.IsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, 5, f.stock(t, "prod-a"))
	assert.Equal(t, 5, f.stock(t, "prod-b"))
	assert.Equal(t, 1, f.stock(t, "prod-c"))

	persisted, listErr := f.orders.List(repositories.OrderFilter{})
	assert.NoError(t, listErr)
	assert.Empty(t, persisted)
}

func TestOrderService_CreateOrder_UnitPriceIsSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 100.0, 10)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.NoError(t, err)

	// A later price change must not affect the persisted line.
	product, err := f.products.GetByID("prod-a")
	assert.NoError(t, err)
	product.Price = 250.0
	assert.NoError(t, f.products.Update(product))

	stored, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, stored.Items[0].UnitPrice)
	assert.Equal(t, 100.0, stored.TotalPrice)
}

func TestOrderService_UpdateOrder_ReleaseThenReserve(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 50.0, 5)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "prod-a"))

	// Raising the quantity to 5 only works because the old reservation of 2
	// is released first: 3 on hand + 2 released = 5 available.
	updated, err := f.service.UpdateOrder(order.ID, services.UpdateOrderRequest{
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 5}},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "prod-a"))
	assert.Equal(t, 5, updated.TotalAmount)
	assert.Equal(t, 250.0, updated.TotalPrice)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
}

func TestOrderService_UpdateOrder_RollbackKeepsReleases(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 50.0, 5)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 2}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "prod-a"))

	// 6 exceeds even the post-release availability of 5, so the update fails
	// and the already-computed release must not persist.
	_, err = f.service.UpdateOrder(order.ID, services.UpdateOrderRequest{
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 6}},
	})

	stockErr, ok := apperrors.IsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 3, f.stock(t, "prod-a"))

	stored, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.TotalAmount)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestOrderService_UpdateOrder_ClientAndStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedClient(t, "client-2")
	f.seedProduct(t, "prod-a", 50.0, 5)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.NoError(t, err)

	newClient := "client-2"
	newStatus := models.OrderStatusCompleted
	updated, err := f.service.UpdateOrder(order.ID, services.UpdateOrderRequest{
		ClientID: &newClient,
		Status:   &newStatus,
	})

	assert.NoError(t, err)
	assert.Equal(t, "client-2", updated.ClientID)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	// Items and stock are untouched when no product list is given.
	assert.Equal(t, 1, updated.TotalAmount)
	assert.Equal(t, 4, f.stock(t, "prod-a"))

	ghost := "ghost"
	_, err = f.service.UpdateOrder(order.ID, services.UpdateOrderRequest{ClientID: &ghost})
	_, ok := apperrors.IsClientNotFound(err)
	assert.True(t, ok)

	bad := "despachado"
	_, err = f.service.UpdateOrder(order.ID, services.UpdateOrderRequest{Status: &bad})
	_, ok = apperrors.IsInvalidStatus(err)
	assert.True(t, ok)
}

func TestOrderService_UpdateOrder_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.UpdateOrder("missing", services.UpdateOrderRequest{})
	orderErr, ok := apperrors.IsOrderNotFound(err)
	assert.True(t, ok)
	assert.Equal(t, "missing", orderErr.OrderID)
}

func TestOrderService_DeleteOrder_ReleasesStock(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedProduct(t, "prod-a", 10.0, 5)
	f.seedProduct(t, "prod-b", 20.0, 5)

	order, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 1},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "prod-a"))
	assert.Equal(t, 4, f.stock(t, "prod-b"))

	deleted, err := f.service.DeleteOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)
	assert.Len(t, deleted.Items, 2)

	assert.Equal(t, 5, f.stock(t, "prod-a"))
	assert.Equal(t, 5, f.stock(t, "prod-b"))

	_, err = f.orders.GetByID(order.ID)
	_, ok := apperrors.IsOrderNotFound(err)
	assert.True(t, ok)
}

func TestOrderService_DeleteOrder_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.DeleteOrder("missing")
	_, ok := apperrors.IsOrderNotFound(err)
	assert.True(t, ok)
}

func TestOrderService_ListOrders_Filters(t *testing.T) {
	f := newOrderFixture(t)
	f.seedClient(t, "client-1")
	f.seedClient(t, "client-2")
	f.seedProduct(t, "prod-a", 10.0, 50)
	f.seedProduct(t, "prod-b", 20.0, 50)

	first, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-1",
		Products: []services.OrderLineRequest{{ProductID: "prod-a", Quantity: 1}},
	})
	assert.NoError(t, err)

	second, err := f.service.CreateOrder(services.CreateOrderRequest{
		ClientID: "client-2",
		Status:   models.OrderStatusProcessing,
		Products: []services.OrderLineRequest{{ProductID: "prod-b", Quantity: 2}},
	})
	assert.NoError(t, err)

	byClient, err := f.service.ListOrders(repositories.OrderFilter{ClientID: "client-1"})
	assert.NoError(t, err)
	assert.Len(t, byClient, 1)
	assert.Equal(t, first.ID, byClient[0].ID)

	byStatus, err := f.service.ListOrders(repositories.OrderFilter{Status: models.OrderStatusProcessing})
	assert.NoError(t, err)
	assert.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	byProduct, err := f.service.ListOrders(repositories.OrderFilter{ProductID: "prod-b"})
	assert.NoError(t, err)
	assert.Len(t, byProduct, 1)
	assert.Equal(t, second.ID, byProduct[0].ID)

	all, err := f.service.ListOrders(repositories.OrderFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	paged, err := f.service.ListOrders(repositories.OrderFilter{Skip: 1, Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, paged, 1)
}

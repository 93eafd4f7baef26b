package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
	"backoffice/internal/repositories"
)

// openTestDB opens a fresh in-memory SQLite database named after the test so
// parallel tests never share state.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{
		Name:     "Cerveja Artesanal",
		BarCode:  "789100000001",
		Price:    12.5,
		Stock:    30,
		Category: "bebidas",
		Section:  "geladeira",
	}
	assert.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ID)

	fetched, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Cerveja Artesanal", fetched.Name)
	assert.Equal(t, 30, fetched.Stock)

	fetched.Price = 13.0
	assert.NoError(t, repo.Update(fetched))

	updated, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 13.0, updated.Price)

	assert.NoError(t, repo.Delete(product.ID))

	_, err = repo.GetByID(product.ID)
	notFound, ok := apperrors.IsProductNotFound(err)
	assert.True(t, ok)
	assert.Equal(t, product.ID, notFound.ProductID)

	err = repo.Delete("missing")
	_, ok = apperrors.IsProductNotFound(err)
	assert.True(t, ok)
}

func TestGORMProductRepository_GetAllFilters(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	seed := []models.Product{
		{ID: "p-01", Name: "Cerveja Lager", BarCode: "789100000001", Price: 8.0, Stock: 12, Category: "bebidas"},
		{ID: "p-02", Name: "Vinho Tinto", BarCode: "789100000002", Price: 45.0, Stock: 0, Category: "bebidas"},
		{ID: "p-03", Name: "Arroz Integral", BarCode: "789100000003", Price: 20.0, Stock: 8, Category: "mercearia"},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	byCategory, err := repo.GetAll(repositories.ProductFilter{Category: "bebidas", Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, byCategory, 2)

	maxPrice := 25.0
	cheap, err := repo.GetAll(repositories.ProductFilter{MaxPrice: &maxPrice, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, cheap, 2)

	available := true
	inStock, err := repo.GetAll(repositories.ProductFilter{Available: &available, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, inStock, 2)

	available = false
	outOfStock, err := repo.GetAll(repositories.ProductFilter{Available: &available, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, outOfStock, 1)
	assert.Equal(t, "p-02", outOfStock[0].ID)

	// Ordering is stable by id, so pagination windows never overlap.
	page, err := repo.GetAll(repositories.ProductFilter{Skip: 1, Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, "p-02", page[0].ID)
}

func TestGORMProductRepository_ReserveAndRelease(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{ID: "p-01", Name: "Cafe Torrado", BarCode: "789100000010", Price: 100.0, Stock: 10}
	assert.NoError(t, repo.Create(product))

	assert.NoError(t, repo.Reserve("p-01", 3))

	afterReserve, err := repo.GetByID("p-01")
	assert.NoError(t, err)
	assert.Equal(t, 7, afterReserve.Stock)

	// The conditional update refuses to go below zero and reports the stock
	// observed at failure time.
	err = repo.Reserve("p-01", 8)
	stockErr, ok := apperrors.IsInsufficientStock(err)
	assert.True(t, ok)
	assert.Equal(t, "p-01", stockErr.ProductID)
	assert.Equal(t, 7, stockErr.Available)
	assert.Equal(t, 8, stockErr.Requested)

	unchanged, err := repo.GetByID("p-01")
	assert.NoError(t, err)
	assert.Equal(t, 7, unchanged.Stock)

	err = repo.Reserve("missing", 1)
	_, ok = apperrors.IsProductNotFound(err)
	assert.True(t, ok)

	assert.NoError(t, repo.Release("p-01", 3))

	afterRelease, err := repo.GetByID("p-01")
	assert.NoError(t, err)
	assert.Equal(t, 10, afterRelease.Stock)

	err = repo.Release("missing", 1)
	var persistenceErr *apperrors.PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))
}

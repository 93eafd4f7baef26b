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

// GORMClientRepository is a GORM implementation of ClientRepository.
type GORMClientRepository struct {
	db *gorm.DB
}

// NewGORMClientRepository creates a new instance of GORMClientRepository.
func NewGORMClientRepository(db *gorm.DB) *GORMClientRepository {
	return &GORMClientRepository{
		db: db,
	}
}

// GetAll retrieves clients from the database, applying the given filters.
func (r *GORMClientRepository) GetAll(filter ClientFilter) ([]models.Client, error) {
	query := r.db.Model(&models.Client{})

	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	query = query.Order("id ASC").Offset(filter.Skip)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// GetByID retrieves a single client by its ID from the database.
func (r *GORMClientRepository) GetByID(id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewClientNotFound(id)
		}
		return nil, fmt.Errorf("failed to get client by ID %s: %w", id, err)
	}
	return &client, nil
}

// GetByCPF retrieves a client by CPF.
func (r *GORMClientRepository) GetByCPF(cpf string) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, "cpf = ?", cpf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client with CPF %s not found", cpf)
		}
		return nil, fmt.Errorf("failed to get client by CPF %s: %w", cpf, err)
	}
	return &client, nil
}

// GetByEmail retrieves a client by email.
func (r *GORMClientRepository) GetByEmail(email string) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get client by email %s: %w", email, err)
	}
	return &client, nil
}

// Create creates a new client in the database.
func (r *GORMClientRepository) Create(client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if err := r.db.Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Update updates an existing client in the database.
func (r *GORMClientRepository) Update(client *models.Client) error {
	res := r.db.Save(client) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewClientNotFound(client.ID)
	}
	return nil
}

// Delete deletes a client by its ID from the database.
func (r *GORMClientRepository) Delete(id string) error {
	res := r.db.Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewClientNotFound(id)
	}
	return nil
}

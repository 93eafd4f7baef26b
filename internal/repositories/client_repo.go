package repositories

import (
	"backoffice/internal/models"
)

// ClientFilter holds the optional client listing filters.
type ClientFilter struct {
	Name  string // case-insensitive substring match
	Email string // exact match
	Skip  int
	Limit int
}

// ClientRepository defines the interface for client data access.
type ClientRepository interface {
	GetAll(filter ClientFilter) ([]models.Client, error)
	GetByID(id string) (*models.Client, error)
	GetByCPF(cpf string) (*models.Client, error)
	GetByEmail(email string) (*models.Client, error)
	Create(client *models.Client) error
	Update(client *models.Client) error
	Delete(id string) error
}

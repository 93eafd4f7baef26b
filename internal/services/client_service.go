package services

import (
	"errors"
	"fmt"

	"backoffice/internal/models"
	"backoffice/internal/repositories"
	"backoffice/pkg/cpf"
)

// Client registration errors surfaced to the HTTP layer.
var (
	ErrInvalidCPF             = errors.New("invalid CPF")
	ErrCPFAlreadyRegistered   = errors.New("CPF already registered")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// ClientService handles business logic related to clients.
type ClientService struct {
	repo repositories.ClientRepository
}

// NewClientService creates a new ClientService.
func NewClientService(repo repositories.ClientRepository) *ClientService {
	return &ClientService{
		repo: repo,
	}
}

// ListClients retrieves clients matching the filter.
func (s *ClientService) ListClients(filter repositories.ClientFilter) ([]models.Client, error) {
	return s.repo.GetAll(filter)
}

// GetClientByID retrieves a single client by its ID.
func (s *ClientService) GetClientByID(id string) (*models.Client, error) {
	return s.repo.GetByID(id)
}

// CreateClient validates the CPF checksum and CPF/email uniqueness, then
// persists the client.
func (s *ClientService) CreateClient(client *models.Client) error {
	if !cpf.Valid(client.CPF) {
		return fmt.Errorf("%w: %s", ErrInvalidCPF, client.CPF)
	}
	if existing, err := s.repo.GetByCPF(client.CPF); err == nil && existing != nil {
		return fmt.Errorf("%w: %s", ErrCPFAlreadyRegistered, client.CPF)
	}
	if existing, err := s.repo.GetByEmail(client.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, client.Email)
	}
	return s.repo.Create(client)
}

// UpdateClient updates an existing client, re-validating the CPF and the
// uniqueness of any changed CPF/email.
func (s *ClientService) UpdateClient(client *models.Client) error {
	current, err := s.repo.GetByID(client.ID)
	if err != nil {
		return err
	}

	if client.CPF != current.CPF {
		if !cpf.Valid(client.CPF) {
			return fmt.Errorf("%w: %s", ErrInvalidCPF, client.CPF)
		}
		if existing, err := s.repo.GetByCPF(client.CPF); err == nil && existing != nil {
			return fmt.Errorf("%w: %s", ErrCPFAlreadyRegistered, client.CPF)
		}
	}
	if client.Email != current.Email {
		if existing, err := s.repo.GetByEmail(client.Email); err == nil && existing != nil {
			return fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, client.Email)
		}
	}
	return s.repo.Update(client)
}

// DeleteClient deletes a client by its ID.
func (s *ClientService) DeleteClient(id string) error {
	return s.repo.Delete(id)
}

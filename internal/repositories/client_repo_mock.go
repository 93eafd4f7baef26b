package repositories

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"backoffice/internal/apperrors"
	"backoffice/internal/models"
)

// MockClientRepository is an in-memory implementation of ClientRepository.
type MockClientRepository struct {
	clients map[string]models.Client
	mu      sync.RWMutex
}

// NewMockClientRepository creates a new instance of MockClientRepository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]models.Client),
	}
}

// GetAll returns all clients matching the filter.
func (r *MockClientRepository) GetAll(filter ClientFilter) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientList := make([]models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		if filter.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Email != "" && c.Email != filter.Email {
			continue
		}
		clientList = append(clientList, c)
	}
	return paginate(sortByID(clientList, func(c models.Client) string { return c.ID }), filter.Skip, filter.Limit), nil
}

// GetByID returns a client by its ID.
func (r *MockClientRepository) GetByID(id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NewClientNotFound(id)
	}
	return &client, nil
}

// GetByCPF returns a client by CPF.
func (r *MockClientRepository) GetByCPF(cpf string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.CPF == cpf {
			client := c
			return &client, nil
		}
	}
	return nil, fmt.Errorf("client with CPF %s not found", cpf)
}

// GetByEmail returns a client by email.
func (r *MockClientRepository) GetByEmail(email string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Email == email {
			client := c
			return &client, nil
		}
	}
	return nil, fmt.Errorf("client with email %s not found", email)
}

// Create adds a new client.
func (r *MockClientRepository) Create(client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	r.clients[client.ID] = *client
	return nil
}

// Update modifies an existing client.
func (r *MockClientRepository) Update(client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.clients[client.ID]
	if !ok {
		return apperrors.NewClientNotFound(client.ID)
	}
	r.clients[client.ID] = *client
	return nil
}

// Delete removes a client by its ID.
func (r *MockClientRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.clients[id]
	if !ok {
		return apperrors.NewClientNotFound(id)
	}
	delete(r.clients, id)
	return nil
}

// snapshot copies the store for transactional rollback.
func (r *MockClientRepository) snapshot() map[string]models.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]models.Client, len(r.clients))
	for id, c := range r.clients {
		copied[id] = c
	}
	return copied
}

// restore replaces the store with a previously taken snapshot.
func (r *MockClientRepository) restore(snapshot map[string]models.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = snapshot
}

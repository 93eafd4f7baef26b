package repositories

import (
	"sync"

	"gorm.io/gorm"
)

// RepoSet bundles the repositories an order operation touches. Inside a
// transaction every repository in the set is bound to that transaction, so
// order, item and stock writes commit or roll back together.
type RepoSet struct {
	Orders   OrderRepository
	Products ProductRepository
	Clients  ClientRepository
}

// TxRunner executes fn as one atomic unit of work. If fn returns an error,
// every mutation made through the RepoSet is rolled back.
type TxRunner interface {
	RunInTx(fn func(repos RepoSet) error) error
}

// GormTxRunner runs units of work inside a database transaction.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new GormTxRunner.
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// RunInTx opens a transaction and hands fn repositories bound to it.
func (r *GormTxRunner) RunInTx(fn func(repos RepoSet) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(RepoSet{
			Orders:   NewGORMOrderRepository(tx),
			Products: NewGORMProductRepository(tx),
			Clients:  NewGORMClientRepository(tx),
		})
	})
}

// MockTxRunner is an in-memory TxRunner over the mock repositories. It
// snapshots every store before running fn and restores the snapshots when fn
// fails, giving tests real rollback semantics without a database.
type MockTxRunner struct {
	Orders   *MockOrderRepository
	Products *MockProductRepository
	Clients  *MockClientRepository
	mu       sync.Mutex
}

// NewMockTxRunner creates a MockTxRunner over the given mock repositories.
func NewMockTxRunner(orders *MockOrderRepository, products *MockProductRepository, clients *MockClientRepository) *MockTxRunner {
	return &MockTxRunner{
		Orders:   orders,
		Products: products,
		Clients:  clients,
	}
}

// RunInTx runs fn against the shared mock stores. Units of work are
// serialized, which stands in for the row locking a real database provides.
func (r *MockTxRunner) RunInTx(fn func(repos RepoSet) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.Orders.snapshot()
	products := r.Products.snapshot()
	clients := r.Clients.snapshot()

	err := fn(RepoSet{
		Orders:   r.Orders,
		Products: r.Products,
		Clients:  r.Clients,
	})
	if err != nil {
		r.Orders.restore(orders)
		r.Products.restore(products)
		r.Clients.restore(clients)
		return err
	}
	return nil
}

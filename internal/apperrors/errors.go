package apperrors

import (
	"errors"
	"fmt"
)

// ProductNotFoundError indicates a referenced product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ProductID)
}

// NewProductNotFound creates a ProductNotFoundError.
func NewProductNotFound(productID string) *ProductNotFoundError {
	return &ProductNotFoundError{ProductID: productID}
}

// InsufficientStockError indicates a product lacks the requested quantity.
// Available carries the stock level observed when the reservation failed.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductID, e.Requested, e.Available)
}

// NewInsufficientStock creates an InsufficientStockError.
func NewInsufficientStock(productID string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Available: available, Requested: requested}
}

// ClientNotFoundError indicates a referenced client does not exist.
type ClientNotFoundError struct {
	ClientID string
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("client with ID %s not found", e.ClientID)
}

// NewClientNotFound creates a ClientNotFoundError.
func NewClientNotFound(clientID string) *ClientNotFoundError {
	return &ClientNotFoundError{ClientID: clientID}
}

// OrderNotFoundError indicates a referenced order does not exist.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.OrderID)
}

// NewOrderNotFound creates an OrderNotFoundError.
func NewOrderNotFound(orderID string) *OrderNotFoundError {
	return &OrderNotFoundError{OrderID: orderID}
}

// InvalidStatusError indicates an order status outside the known set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %s", e.Status)
}

// NewInvalidStatus creates an InvalidStatusError.
func NewInvalidStatus(status string) *InvalidStatusError {
	return &InvalidStatusError{Status: status}
}

// PersistenceError wraps a failure at the persistence layer. The operation
// that produced it has been rolled back in full.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError creates a PersistenceError.
func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{Message: message, Cause: cause}
}

// IsProductNotFound reports whether err is a ProductNotFoundError.
func IsProductNotFound(err error) (*ProductNotFoundError, bool) {
	var e *ProductNotFoundError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var e *InsufficientStockError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsClientNotFound reports whether err is a ClientNotFoundError.
func IsClientNotFound(err error) (*ClientNotFoundError, bool) {
	var e *ClientNotFoundError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsOrderNotFound reports whether err is an OrderNotFoundError.
func IsOrderNotFound(err error) (*OrderNotFoundError, bool) {
	var e *OrderNotFoundError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsInvalidStatus reports whether err is an InvalidStatusError.
func IsInvalidStatus(err error) (*InvalidStatusError, bool) {
	var e *InvalidStatusError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

package models

import "time"

// Order status values. Statuses are a closed set but carry no transition
// rules: any status may replace any other on update.
const (
	OrderStatusPending    = "pendente"
	OrderStatusProcessing = "processando"
	OrderStatusCompleted  = "finalizado"
	OrderStatusCancelled  = "cancelado"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a single product line within an order. UnitPrice is the
// product's price captured when the line was reserved; it never tracks later
// price changes.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"order_id" gorm:"index;type:varchar(36);not null"`
	ProductID string  `json:"product_id" gorm:"index;type:varchar(36);not null" validate:"required"`
	Quantity  int     `json:"quantity" gorm:"not null" validate:"required,gte=1"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
}

// Order represents a customer order. TotalAmount and TotalPrice are derived
// from Items and are rewritten whenever the item set changes.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClientID    string      `json:"client_id" gorm:"index;type:varchar(36);not null" validate:"required"`
	Status      string      `json:"status" gorm:"type:varchar(20);not null"`
	TotalAmount int         `json:"total_amount" gorm:"not null"`
	TotalPrice  float64     `json:"total_price" gorm:"not null"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

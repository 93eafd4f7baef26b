package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a product in the catalog. Stock is only mutated by the
// order service through the repository's Reserve/Release operations.
type Product struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string     `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	BarCode     string     `json:"bar_code" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,max=50"`
	Description string     `json:"description" validate:"omitempty,max=500"`
	Price       float64    `json:"price" gorm:"not null" validate:"required,gt=0"`
	Stock       int        `json:"stock" gorm:"not null" validate:"gte=0"`
	ValidDate   *time.Time `json:"valid_date,omitempty"`
	Images      string     `json:"images,omitempty"`
	Category    string     `json:"category" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Section     string     `json:"section" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

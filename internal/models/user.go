package models

import "gorm.io/gorm"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an API user of the back office.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string `json:"role" gorm:"type:varchar(20);not null" validate:"omitempty,oneof=admin user"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

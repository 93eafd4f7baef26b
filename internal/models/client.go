package models

import "gorm.io/gorm"

// Client represents a customer of the store.
type Client struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	CPF        string `json:"cpf" gorm:"uniqueIndex;type:varchar(14);not null" validate:"required"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email"`
	Phone      string `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin         = "admin"
	RoleStaff         = "staff"
	RoleGrampanchayat = "grampanchayat"
)

type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

type Staff struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

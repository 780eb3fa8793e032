package models

import "gorm.io/gorm"

const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPERADMIN"
)

type User struct {
	gorm.Model
	Name     string       `gorm:"not null" json:"name"`
	Email    string       `gorm:"unique;not null" json:"email"`
	Password string       `gorm:"not null" json:"-"`
	Role     string       `gorm:"size:20;default:'USER'" json:"role"`
	Profile  *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

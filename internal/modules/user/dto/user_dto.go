package dto

import (
	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
)

type CreateUserInput struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	PemilikMobil   string `json:"pemilik_mobil" binding:"required"`
	PersonalNumber string `json:"personal_number" binding:"required"`
	PlatNomor      string `json:"plat_nomor" binding:"required"`
	RoleID         *uint  `json:"role_id"`
	IsAdmin        *bool  `json:"is_admin"`
}

// UpdateUserInput has partial-update semantics: nil fields are left
// untouched.
type UpdateUserInput struct {
	Email          *string `json:"email" binding:"omitempty,email"`
	PemilikMobil   *string `json:"pemilik_mobil"`
	PersonalNumber *string `json:"personal_number"`
	PlatNomor      *string `json:"plat_nomor"`
	RoleID         *uint   `json:"role_id"`
	IsAdmin        *bool   `json:"is_admin"`
}

// UserResponse is a profile plus the email held by the identity
// provider; email is null when the per-user lookup failed.
type UserResponse struct {
	*entity.Profile
	Email *string `json:"email"`
}

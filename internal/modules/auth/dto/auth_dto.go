package dto

import (
	"github.com/google/uuid"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput mirrors the admin create payload minus is_admin;
// self-service accounts are never admins.
type RegisterInput struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	PemilikMobil   string `json:"pemilik_mobil" binding:"required"`
	PersonalNumber string `json:"personal_number" binding:"required"`
	PlatNomor      string `json:"plat_nomor" binding:"required"`
	RoleID         *uint  `json:"role_id"`
}

type SessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginUser flattens account identity and profile into the single user
// object the clients expect.
type LoginUser struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	PemilikMobil   string       `json:"pemilik_mobil"`
	PersonalNumber string       `json:"personal_number"`
	PlatNomor      string       `json:"plat_nomor"`
	RoleID         *uint        `json:"role_id"`
	IsAdmin        bool         `json:"is_admin"`
	Role           *entity.Role `json:"role"`
}

type LoginResponse struct {
	User    LoginUser      `json:"user"`
	Session SessionPayload `json:"session"`
}

type RegisteredUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type RegisterResponse struct {
	User RegisteredUser `json:"user"`
}

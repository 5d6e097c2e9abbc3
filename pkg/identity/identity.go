// Package identity wraps the authentication backend behind a narrow
// interface. Application code never touches accounts or tokens directly;
// it only calls Provider.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// Account is an identity-provider account. The id doubles as the
// user_profile primary key.
type Account struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"size:255;not null" json:"-"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string { return "auth_accounts" }

// RefreshToken is an opaque long-lived credential issued alongside the
// access token. Revoked rows are kept until cleanup.
type RefreshToken struct {
	Token     string    `gorm:"size:64;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RefreshToken) TableName() string { return "auth_refresh_tokens" }

// Session is the payload returned on a successful sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`

	Account *Account `json:"-"`
}

// Provider is the identity-provider surface the rest of the system is
// allowed to see: credential checks, token lifecycle and admin-level
// account management.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	VerifyToken(ctx context.Context, accessToken string) (*Account, error)

	CreateUser(ctx context.Context, email, password string, confirmEmail bool) (*Account, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*Account, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

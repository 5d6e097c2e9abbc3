package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const denylistPrefix = "denylist:"

// Options configures the gorm-backed provider.
type Options struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type gormProvider struct {
	db         *gorm.DB
	rdb        *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewGormProvider builds the default Provider: accounts and refresh
// tokens in the relational store, HS256 access tokens, revoked access
// tokens tracked in redis. rdb may be nil, in which case sign-out only
// revokes refresh tokens.
func NewGormProvider(db *gorm.DB, rdb *redis.Client, opts Options) Provider {
	accessTTL := opts.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := opts.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}

	return &gormProvider{
		db:         db,
		rdb:        rdb,
		secret:     []byte(opts.Secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (p *gormProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	// Accounts made through self-service registration are confirmed
	// immediately; there is no mail loop in this deployment.
	return p.CreateUser(ctx, email, password, true)
}

func (p *gormProvider) CreateUser(ctx context.Context, email, password string, confirmEmail bool) (*Account, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
	}
	if confirmEmail {
		now := time.Now()
		account.EmailConfirmedAt = &now
	}

	if err := p.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}

	return account, nil
}

func (p *gormProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var account Account
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := p.generateAccessToken(&account)
	if err != nil {
		return nil, err
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, err
	}
	row := &RefreshToken{
		Token:     refreshToken,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(p.refreshTTL),
	}
	if err := p.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Unix(),
		ExpiresIn:    int64(p.accessTTL.Seconds()),
		Account:      &account,
	}, nil
}

func (p *gormProvider) SignOut(ctx context.Context, accessToken string) error {
	claims, err := p.parseToken(accessToken)
	if err != nil {
		return ErrInvalidToken
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}

	// Deny the access token until it would have expired anyway.
	if p.rdb != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := p.rdb.Set(ctx, denylistPrefix+accessToken, 1, ttl).Err(); err != nil {
				return fmt.Errorf("failed to denylist token: %w", err)
			}
		}
	}

	return p.db.WithContext(ctx).
		Model(&RefreshToken{}).
		Where("account_id = ? AND revoked = ?", accountID, false).
		Update("revoked", true).Error
}

func (p *gormProvider) VerifyToken(ctx context.Context, accessToken string) (*Account, error) {
	claims, err := p.parseToken(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if p.rdb != nil {
		_, err := p.rdb.Get(ctx, denylistPrefix+accessToken).Result()
		if err == nil {
			return nil, ErrInvalidToken
		}
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to check token denylist: %w", err)
		}
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return p.GetUserByID(ctx, accountID)
}

func (p *gormProvider) GetUserByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	if err := p.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (p *gormProvider) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	var count int64
	if err := p.db.WithContext(ctx).Model(&Account{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	res := p.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Update("email", email)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (p *gormProvider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := p.db.WithContext(ctx).Where("account_id = ?", id).Delete(&RefreshToken{}).Error; err != nil {
		return err
	}

	res := p.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (p *gormProvider) generateAccessToken(account *Account) (string, time.Time, error) {
	expiresAt := time.Now().Add(p.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   account.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (p *gormProvider) parseToken(accessToken string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

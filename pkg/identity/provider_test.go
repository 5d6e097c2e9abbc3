package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestProvider(t *testing.T) (Provider, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Account{}, &RefreshToken{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewGormProvider(db, rdb, Options{Secret: "test-secret"}), db
}

func TestSignUpAndSignIn(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	account, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.NotNil(t, account.EmailConfirmedAt)

	session, err := p.SignIn(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Greater(t, session.ExpiresAt, time.Now().Unix())
	assert.Equal(t, int64(3600), session.ExpiresIn)
	require.NotNil(t, session.Account)
	assert.Equal(t, account.ID, session.Account.ID)
}

func TestSignInWrongPassword(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "budi@example.com", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "tidakada@example.com", "rahasia123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "budi@example.com", "lainlagi456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyToken(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	account, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)

	got, err := p.VerifyToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = p.VerifyToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOutDenylistsAccessToken(t *testing.T) {
	p, db := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)

	_, err = p.VerifyToken(ctx, session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, session.AccessToken))

	// The otherwise-valid token is now refused.
	_, err = p.VerifyToken(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The refresh token is marked revoked too.
	var row RefreshToken
	require.NoError(t, db.First(&row, "token = ?", session.RefreshToken).Error)
	assert.True(t, row.Revoked)
}

func TestUpdateEmail(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	a, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	b, err := p.SignUp(ctx, "siti@example.com", "rahasia123")
	require.NoError(t, err)

	assert.ErrorIs(t, p.UpdateEmail(ctx, b.ID, "budi@example.com"), ErrEmailTaken)
	require.NoError(t, p.UpdateEmail(ctx, a.ID, "budi.baru@example.com"))

	got, err := p.GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "budi.baru@example.com", got.Email)
}

func TestDeleteUser(t *testing.T) {
	p, db := newTestProvider(t)
	ctx := context.Background()

	account, err := p.SignUp(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	_, err = p.SignIn(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)

	require.NoError(t, p.DeleteUser(ctx, account.ID))

	_, err = p.GetUserByID(ctx, account.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	var count int64
	require.NoError(t, db.Model(&RefreshToken{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.ErrorIs(t, p.DeleteUser(ctx, account.ID), ErrAccountNotFound)
}

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/dto"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

func newTestService(t *testing.T) (AuthService, identity.Provider, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.Account{},
		&identity.RefreshToken{},
		&entity.Role{},
		&entity.Profile{},
	))

	provider := identity.NewGormProvider(db, nil, identity.Options{Secret: "test-secret"})
	return NewAuthService(provider, userRepo.NewProfileRepository(db)), provider, db
}

func registerInput(email string) dto.RegisterInput {
	return dto.RegisterInput{
		Email:          email,
		Password:       "rahasia123",
		PemilikMobil:   "Budi Santoso",
		PersonalNumber: "EMP-001",
		PlatNomor:      "B 1234 XY",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	role := entity.Role{NamaRole: "Staff", LimitRole: 300000}
	require.NoError(t, db.Create(&role).Error)

	input := registerInput("budi@example.com")
	input.RoleID = &role.ID

	reg, err := svc.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", reg.User.Email)

	res, err := svc.Login(ctx, dto.LoginInput{Email: "budi@example.com", Password: "rahasia123"})
	require.NoError(t, err)

	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Equal(t, "Budi Santoso", res.User.PemilikMobil)
	assert.False(t, res.User.IsAdmin)
	require.NotNil(t, res.User.Role)
	assert.Equal(t, "Staff", res.User.Role.NamaRole)
	assert.NotEmpty(t, res.Session.AccessToken)
	assert.NotEmpty(t, res.Session.RefreshToken)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("budi@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "budi@example.com", Password: "salah"})
	require.Error(t, err)
	assert.Equal(t, 401, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Email atau password salah.", err.Error())
}

func TestLoginAccountWithoutProfile(t *testing.T) {
	svc, provider, _ := newTestService(t)
	ctx := context.Background()

	// An account created outside the registration flow has no profile.
	_, err := provider.CreateUser(ctx, "ghost@example.com", "rahasia123", true)
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ghost@example.com", Password: "rahasia123"})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Profile user tidak ditemukan.", err.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("budi@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("budi@example.com"))
	require.Error(t, err)
	assert.Equal(t, 400, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "email sudah terdaftar")
}

func TestRegisterCompensatesOnProfileFailure(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&entity.Profile{}))

	_, err := svc.Register(ctx, registerInput("budi@example.com"))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&identity.Account{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLogout(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("budi@example.com"))
	require.NoError(t, err)
	res, err := svc.Login(ctx, dto.LoginInput{Email: "budi@example.com", Password: "rahasia123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Session.AccessToken))

	var row identity.RefreshToken
	require.NoError(t, db.First(&row, "token = ?", res.Session.RefreshToken).Error)
	assert.True(t, row.Revoked)

	err = svc.Logout(ctx, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.MapErrorToStatus(err))
}

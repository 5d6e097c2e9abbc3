package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/role/dto"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/role/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
)

func newTestService(t *testing.T) (RoleService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Role{}, &entity.Profile{}))

	return NewRoleService(repository.NewRoleRepository(db)), db
}

func intPtr(n int) *int { return &n }

func TestCreateAndListOrdersByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Supervisor", "Manager", "Staff"} {
		_, err := svc.Create(ctx, dto.SaveRoleInput{NamaRole: name, LimitRole: intPtr(500000)})
		require.NoError(t, err)
	}

	roles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "Manager", roles[0].NamaRole)
	assert.Equal(t, "Staff", roles[1].NamaRole)
	assert.Equal(t, "Supervisor", roles[2].NamaRole)
}

func TestUpdateRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role, err := svc.Create(ctx, dto.SaveRoleInput{NamaRole: "Staff", LimitRole: intPtr(300000)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, role.ID, dto.SaveRoleInput{NamaRole: "Staff Senior", LimitRole: intPtr(450000)})
	require.NoError(t, err)
	assert.Equal(t, "Staff Senior", updated.NamaRole)
	assert.Equal(t, 450000, updated.LimitRole)
}

func TestUpdateMissingRoleReturns404(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 999, dto.SaveRoleInput{NamaRole: "X", LimitRole: intPtr(1)})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Role tidak ditemukan.", err.Error())
}

func TestDeleteRoleInUseIsRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	role, err := svc.Create(ctx, dto.SaveRoleInput{NamaRole: "Staff", LimitRole: intPtr(300000)})
	require.NoError(t, err)

	profile := entity.Profile{
		ID:             uuid.New(),
		PemilikMobil:   "Budi",
		PersonalNumber: "EMP-001",
		PlatNomor:      "B 1 A",
		RoleID:         &role.ID,
	}
	require.NoError(t, db.Create(&profile).Error)

	err = svc.Delete(ctx, role.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Role tidak dapat dihapus karena masih digunakan oleh user.", err.Error())

	// Detach the profile and the delete goes through.
	require.NoError(t, db.Model(&profile).Update("role_id", nil).Error)
	require.NoError(t, svc.Delete(ctx, role.ID))

	roles, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

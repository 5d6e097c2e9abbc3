package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

// SeedRoles inserts a starter set of roles so a fresh database is
// usable before an admin customizes them. Existing roles are left alone.
func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{NamaRole: "Staff", LimitRole: 300000},
		{NamaRole: "Supervisor", LimitRole: 500000},
		{NamaRole: "Manager", LimitRole: 1000000},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("nama_role = ?", role.NamaRole).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates a development-only admin login. Intended for
// APP_ENV=development; never call it in production.
func SeedAdminUser(ctx context.Context, db *gorm.DB, provider identity.Provider) error {
	const (
		email    = "admin@reimburse.local"
		password = "admin123"
	)

	account, err := provider.CreateUser(ctx, email, password, true)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil
		}
		return err
	}

	profile := entity.Profile{
		ID:             account.ID,
		PemilikMobil:   "Administrator",
		PersonalNumber: "ADM-000",
		PlatNomor:      "B 0000 ADM",
		IsAdmin:        true,
	}
	if err := db.WithContext(ctx).Create(&profile).Error; err != nil {
		return err
	}

	zap.L().Info("seeded development admin user", zap.String("email", email))
	return nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/user/dto"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

// emailLookupWorkers caps the concurrent identity-provider lookups done
// while building the user list.
const emailLookupWorkers = 8

type UserService interface {
	List(ctx context.Context) ([]*dto.UserResponse, error)
	Create(ctx context.Context, input dto.CreateUserInput) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	profiles repository.ProfileRepository
	provider identity.Provider
}

func NewUserService(profiles repository.ProfileRepository, provider identity.Provider) UserService {
	return &userService{
		profiles: profiles,
		provider: provider,
	}
}

// List returns every profile with its role, enriched with the account
// email. Lookups run concurrently; a failing lookup leaves that row's
// email null instead of failing the whole list.
func (s *userService) List(ctx context.Context) ([]*dto.UserResponse, error) {
	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.UserResponse, len(profiles))

	var g errgroup.Group
	g.SetLimit(emailLookupWorkers)
	for i, profile := range profiles {
		g.Go(func() error {
			res := &dto.UserResponse{Profile: profile}
			if account, err := s.provider.GetUserByID(ctx, profile.ID); err == nil {
				res.Email = &account.Email
			} else {
				zap.L().Warn("failed to fetch email for user",
					zap.String("user_id", profile.ID.String()),
					zap.Error(err),
				)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// Create makes the identity account first and the profile second. When
// the profile insert fails the account is deleted again; this is a
// compensation, not a transaction.
func (s *userService) Create(ctx context.Context, input dto.CreateUserInput) (*dto.UserResponse, error) {
	account, err := s.provider.CreateUser(ctx, input.Email, input.Password, true)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, apperror.Validation("Gagal membuat user: email sudah terdaftar.")
		}
		return nil, err
	}

	isAdmin := false
	if input.IsAdmin != nil {
		isAdmin = *input.IsAdmin
	}

	profile := &entity.Profile{
		ID:             account.ID,
		PemilikMobil:   input.PemilikMobil,
		PersonalNumber: input.PersonalNumber,
		PlatNomor:      input.PlatNomor,
		RoleID:         input.RoleID,
		IsAdmin:        isAdmin,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if delErr := s.provider.DeleteUser(ctx, account.ID); delErr != nil {
			zap.L().Error("compensation failed: orphaned identity account",
				zap.String("account_id", account.ID.String()),
				zap.Error(delErr),
			)
		}
		return nil, apperror.Validation("Gagal membuat profile user: " + err.Error())
	}

	created, err := s.profiles.FindByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{Profile: created, Email: &account.Email}, nil
}

// Update changes the email at the identity provider first (fail fast),
// then patches only the supplied profile fields.
func (s *userService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*dto.UserResponse, error) {
	if input.Email != nil {
		if err := s.provider.UpdateEmail(ctx, id, *input.Email); err != nil {
			switch {
			case errors.Is(err, identity.ErrEmailTaken):
				return nil, apperror.Validation("Gagal update email: email sudah terdaftar.")
			case errors.Is(err, identity.ErrAccountNotFound):
				return nil, apperror.NotFound("User tidak ditemukan.")
			default:
				return nil, err
			}
		}
	}

	fields := map[string]interface{}{}
	if input.PemilikMobil != nil {
		fields["pemilik_mobil"] = *input.PemilikMobil
	}
	if input.PersonalNumber != nil {
		fields["personal_number"] = *input.PersonalNumber
	}
	if input.PlatNomor != nil {
		fields["plat_nomor"] = *input.PlatNomor
	}
	if input.RoleID != nil {
		fields["role_id"] = *input.RoleID
	}
	if input.IsAdmin != nil {
		fields["is_admin"] = *input.IsAdmin
	}

	if len(fields) > 0 {
		rows, err := s.profiles.Update(ctx, id, fields)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, apperror.NotFound("User tidak ditemukan.")
		}
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User tidak ditemukan.")
		}
		return nil, err
	}

	res := &dto.UserResponse{Profile: profile}
	if account, err := s.provider.GetUserByID(ctx, id); err == nil {
		res.Email = &account.Email
	}
	return res, nil
}

// Delete refuses while reimbursements reference the user; otherwise the
// identity account is removed and the profile row goes with it through
// the store's cascade.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	has, err := s.profiles.HasReimbursements(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperror.Validation("User tidak dapat dihapus karena memiliki data reimburse.")
	}

	if err := s.provider.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, identity.ErrAccountNotFound) {
			return apperror.NotFound("User tidak ditemukan.")
		}
		return err
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/dto"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
}

type authService struct {
	provider identity.Provider
	profiles userRepo.ProfileRepository
}

func NewAuthService(provider identity.Provider, profiles userRepo.ProfileRepository) AuthService {
	return &authService{
		provider: provider,
		profiles: profiles,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	session, err := s.provider.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, apperror.Unauthorized("Email atau password salah.")
		}
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, session.Account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Profile user tidak ditemukan.")
		}
		return nil, err
	}

	return &dto.LoginResponse{
		User: dto.LoginUser{
			ID:             session.Account.ID,
			Email:          session.Account.Email,
			PemilikMobil:   profile.PemilikMobil,
			PersonalNumber: profile.PersonalNumber,
			PlatNomor:      profile.PlatNomor,
			RoleID:         profile.RoleID,
			IsAdmin:        profile.IsAdmin,
			Role:           profile.Role,
		},
		Session: dto.SessionPayload{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt,
			ExpiresIn:    session.ExpiresIn,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return apperror.Validation("Gagal logout.")
	}
	return nil
}

// Register is the self-service counterpart of the admin user create:
// account first, profile second, account deleted again when the profile
// insert fails.
func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	account, err := s.provider.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, apperror.Validation("Gagal mendaftar: email sudah terdaftar.")
		}
		return nil, err
	}

	profile := &entity.Profile{
		ID:             account.ID,
		PemilikMobil:   input.PemilikMobil,
		PersonalNumber: input.PersonalNumber,
		PlatNomor:      input.PlatNomor,
		RoleID:         input.RoleID,
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

	return &dto.RegisterResponse{
		User: dto.RegisteredUser{
			ID:    account.ID,
			Email: account.Email,
		},
	}, nil
}

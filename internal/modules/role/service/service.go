package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/role/dto"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/role/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
)

type RoleService interface {
	List(ctx context.Context) ([]*entity.Role, error)
	Create(ctx context.Context, input dto.SaveRoleInput) (*entity.Role, error)
	Update(ctx context.Context, id uint, input dto.SaveRoleInput) (*entity.Role, error)
	Delete(ctx context.Context, id uint) error
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) List(ctx context.Context) ([]*entity.Role, error) {
	return s.repo.FindAll(ctx)
}

func (s *roleService) Create(ctx context.Context, input dto.SaveRoleInput) (*entity.Role, error) {
	role := &entity.Role{
		NamaRole:  input.NamaRole,
		LimitRole: *input.LimitRole,
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id uint, input dto.SaveRoleInput) (*entity.Role, error) {
	rows, err := s.repo.Update(ctx, id, map[string]interface{}{
		"nama_role":  input.NamaRole,
		"limit_role": *input.LimitRole,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperror.NotFound("Role tidak ditemukan.")
	}

	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Role tidak ditemukan.")
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) Delete(ctx context.Context, id uint) error {
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.Validation("Role tidak dapat dihapus karena masih digunakan oleh user.")
	}

	return s.repo.Delete(ctx, id)
}

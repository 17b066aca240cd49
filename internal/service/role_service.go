package service

import (
	"fmt"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"
	"go-cms-admin/pkg/validator"

	"github.com/google/uuid"
)

type RoleService interface {
	Create(actor audit.Actor, req *RoleRequest) (*model.Role, error)
	Update(actor audit.Actor, id uuid.UUID, req *RoleRequest) (*model.Role, error)
	UpdateStatus(actor audit.Actor, id uuid.UUID, status model.RoleStatus) error
	ReplacePermissions(actor audit.Actor, id uuid.UUID, codes []string) (*model.Role, error)
	Delete(actor audit.Actor, ids []uuid.UUID) error
	GetAll() ([]model.Role, error)
}

type RoleRequest struct {
	Code        string   `json:"code" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type roleService struct {
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
	auditor  *audit.Auditor
}

func NewRoleService(roleRepo repository.RoleRepository, permRepo repository.PermissionRepository, auditor *audit.Auditor) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		permRepo: permRepo,
		auditor:  auditor,
	}
}

func (s *roleService) Create(actor audit.Actor, req *RoleRequest) (*model.Role, error) {
	var created *model.Role

	err := s.auditor.Run(actor, "role", "CREATE", "create role", req, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		if existing, _ := s.roleRepo.FindByCode(req.Code); existing != nil {
			return apperr.Conflict("role code already exists")
		}

		permissions, err := s.permRepo.FindByCodes(req.Permissions)
		if err != nil {
			return err
		}

		role := &model.Role{
			Code:        req.Code,
			Name:        req.Name,
			Description: req.Description,
			Status:      model.RoleActive,
			Permissions: permissions,
		}
		role.CreatedBy = actor.Username
		role.UpdatedBy = actor.Username

		if err := s.roleRepo.Create(role); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("role code already exists")
			}
			return err
		}

		created = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *roleService) Update(actor audit.Actor, id uuid.UUID, req *RoleRequest) (*model.Role, error) {
	var updated *model.Role

	err := s.auditor.Run(actor, "role", "UPDATE", "update role", req, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		role, err := s.roleRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("role not found")
		}

		if existing, _ := s.roleRepo.FindByCode(req.Code); existing != nil && existing.ID != id {
			return apperr.Conflict("role code already exists")
		}

		role.Code = req.Code
		role.Name = req.Name
		role.Description = req.Description
		role.UpdatedBy = actor.Username

		if err := s.roleRepo.Update(role); err != nil {
			return err
		}

		// Existing users keep their snapshot until the role is re-assigned;
		// this only changes what future assignments copy.
		if req.Permissions != nil {
			permissions, err := s.permRepo.FindByCodes(req.Permissions)
			if err != nil {
				return err
			}
			if err := s.roleRepo.ReplacePermissions(role, permissions); err != nil {
				return err
			}
		}

		updated, err = s.roleRepo.FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roleService) UpdateStatus(actor audit.Actor, id uuid.UUID, status model.RoleStatus) error {
	return s.auditor.Run(actor, "role", "UPDATE", "update role status", map[string]interface{}{"id": id, "status": status}, func() error {
		if status != model.RoleActive && status != model.RoleDisabled {
			return apperr.Validation("status must be active or disabled")
		}
		if _, err := s.roleRepo.FindByID(id); err != nil {
			return apperr.NotFound("role not found")
		}
		// Disabling refuses future logins only; outstanding credentials stay
		// valid until they expire.
		return s.roleRepo.UpdateStatus(id, status)
	})
}

func (s *roleService) ReplacePermissions(actor audit.Actor, id uuid.UUID, codes []string) (*model.Role, error) {
	var updated *model.Role

	err := s.auditor.Run(actor, "role", "UPDATE", "replace role permissions", codes, func() error {
		role, err := s.roleRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("role not found")
		}

		permissions, err := s.permRepo.FindByCodes(codes)
		if err != nil {
			return err
		}
		if err := s.roleRepo.ReplacePermissions(role, permissions); err != nil {
			return err
		}

		updated, err = s.roleRepo.FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roleService) Delete(actor audit.Actor, ids []uuid.UUID) error {
	return s.auditor.Run(actor, "role", "DELETE", "delete roles", ids, func() error {
		if len(ids) == 0 {
			return apperr.Validation("role ids are required")
		}
		return s.roleRepo.Delete(ids, actor.Username)
	})
}

func (s *roleService) GetAll() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

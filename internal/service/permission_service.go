package service

import (
	"fmt"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/catalog"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"
	"go-cms-admin/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PermissionService interface {
	Create(actor audit.Actor, req *PermissionRequest) (*model.Permission, error)
	Update(actor audit.Actor, id uuid.UUID, req *PermissionRequest) (*model.Permission, error)
	Delete(actor audit.Actor, ids []uuid.UUID) error
	Tree(menuOnly bool) ([]*catalog.Node, error)
	Rebuild() error
}

type PermissionRequest struct {
	Name     string     `json:"name" validate:"required"`
	Code     string     `json:"code" validate:"required"`
	Type     string     `json:"type" validate:"required,oneof=menu button"`
	ParentID *uuid.UUID `json:"parent_id"`
	Path     string     `json:"path"`
	Icon     string     `json:"icon"`
	Sort     int        `json:"sort"`
}

type permissionService struct {
	permRepo repository.PermissionRepository
	cache    *catalog.Cache
	auditor  *audit.Auditor
	logger   *zap.Logger
}

func NewPermissionService(permRepo repository.PermissionRepository, cache *catalog.Cache, auditor *audit.Auditor, logger *zap.Logger) PermissionService {
	return &permissionService{
		permRepo: permRepo,
		cache:    cache,
		auditor:  auditor,
		logger:   logger,
	}
}

func (s *permissionService) Create(actor audit.Actor, req *PermissionRequest) (*model.Permission, error) {
	var created *model.Permission

	err := s.auditor.Run(actor, "permission", "CREATE", "create permission node", req, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		// code must be unique among live nodes
		if existing, _ := s.permRepo.FindByCode(req.Code); existing != nil {
			return apperr.Conflict("permission code already exists")
		}

		if req.ParentID != nil {
			if _, err := s.permRepo.FindByID(*req.ParentID); err != nil {
				return apperr.Validation("parent node does not exist")
			}
		}

		permission := &model.Permission{
			Name:     req.Name,
			Code:     req.Code,
			Type:     model.PermissionType(req.Type),
			ParentID: req.ParentID,
			Path:     req.Path,
			Icon:     req.Icon,
			Sort:     req.Sort,
		}
		permission.CreatedBy = actor.Username
		permission.UpdatedBy = actor.Username

		if err := s.permRepo.Create(permission); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("permission code already exists")
			}
			return err
		}

		created = permission
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Rebuild(); err != nil {
		s.logger.Error("catalog rebuild failed", zap.Error(err))
	}
	return created, nil
}

func (s *permissionService) Update(actor audit.Actor, id uuid.UUID, req *PermissionRequest) (*model.Permission, error) {
	var updated *model.Permission

	err := s.auditor.Run(actor, "permission", "UPDATE", "update permission node", req, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		permission, err := s.permRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("permission node not found")
		}

		if existing, _ := s.permRepo.FindByCode(req.Code); existing != nil && existing.ID != id {
			return apperr.Conflict("permission code already exists")
		}

		if req.ParentID != nil {
			if *req.ParentID == id {
				return apperr.Validation("node cannot be its own parent")
			}
			if _, err := s.permRepo.FindByID(*req.ParentID); err != nil {
				return apperr.Validation("parent node does not exist")
			}
		}

		permission.Name = req.Name
		permission.Code = req.Code
		permission.Type = model.PermissionType(req.Type)
		permission.ParentID = req.ParentID
		permission.Path = req.Path
		permission.Icon = req.Icon
		permission.Sort = req.Sort
		permission.UpdatedBy = actor.Username

		if err := s.permRepo.Update(permission); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("permission code already exists")
			}
			return err
		}

		updated = permission
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Rebuild(); err != nil {
		s.logger.Error("catalog rebuild failed", zap.Error(err))
	}
	return updated, nil
}

// Delete soft-deletes nodes. Children are not cascade-deleted; the compiler
// drops them as orphans on the next rebuild.
func (s *permissionService) Delete(actor audit.Actor, ids []uuid.UUID) error {
	err := s.auditor.Run(actor, "permission", "DELETE", "delete permission nodes", ids, func() error {
		if len(ids) == 0 {
			return apperr.Validation("permission ids are required")
		}
		return s.permRepo.Delete(ids, actor.Username)
	})
	if err != nil {
		return err
	}

	if err := s.Rebuild(); err != nil {
		s.logger.Error("catalog rebuild failed", zap.Error(err))
	}
	return nil
}

// Tree returns the compiled forest, optionally restricted to menu nodes
// (used to build navigation).
func (s *permissionService) Tree(menuOnly bool) ([]*catalog.Node, error) {
	if !menuOnly {
		return s.cache.Forest(), nil
	}
	menus, err := s.permRepo.FindByType(model.PermissionMenu)
	if err != nil {
		return nil, err
	}
	return catalog.Compile(menus), nil
}

// Rebuild recompiles the catalog snapshot from the live rows.
func (s *permissionService) Rebuild() error {
	permissions, err := s.permRepo.FindAll()
	if err != nil {
		return err
	}
	s.cache.Swap(catalog.Compile(permissions))
	return nil
}

package repository

import (
	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uuid.UUID) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	Create(role *model.Role) error
	Update(role *model.Role) error
	UpdateStatus(id uuid.UUID, status model.RoleStatus) error
	ReplacePermissions(role *model.Role, permissions []model.Permission) error
	Delete(ids []uuid.UUID, deletedBy string) error
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Permissions").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(id uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Permissions").First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Permissions").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

func (r *roleRepo) Update(role *model.Role) error {
	return r.db.Save(role).Error
}

func (r *roleRepo) UpdateStatus(id uuid.UUID, status model.RoleStatus) error {
	return r.db.Model(&model.Role{}).Where("id = ?", id).Update("status", status).Error
}

func (r *roleRepo) ReplacePermissions(role *model.Role, permissions []model.Permission) error {
	return r.db.Model(role).Association("Permissions").Replace(permissions)
}

func (r *roleRepo) Delete(ids []uuid.UUID, deletedBy string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Role{}).Where("id IN ?", ids).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Role{}, "id IN ?", ids).Error
	})
}

func (r *roleRepo) SeedDefaults() error {
	for _, defaultRole := range model.DefaultRoles {
		var existingRole model.Role
		err := r.db.Where("code = ?", defaultRole.Code).First(&existingRole).Error
		if err == nil {
			continue
		}
		if !IsNotFound(err) {
			return err
		}
		if err := r.db.Create(&defaultRole).Error; err != nil {
			return err
		}
	}
	return nil
}

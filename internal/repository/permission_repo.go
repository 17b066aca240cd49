package repository

import (
	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	FindAll() ([]model.Permission, error)
	FindByID(id uuid.UUID) (*model.Permission, error)
	FindByCode(code string) (*model.Permission, error)
	FindByCodes(codes []string) ([]model.Permission, error)
	FindByType(t model.PermissionType) ([]model.Permission, error)
	Create(permission *model.Permission) error
	Update(permission *model.Permission) error
	Delete(ids []uuid.UUID, deletedBy string) error
	SeedDefaults() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Order("sort asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) FindByID(id uuid.UUID) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.First(&permission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepo) FindByCode(code string) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.Where("code = ?", code).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepo) FindByCodes(codes []string) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Where("code IN ?", codes).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) FindByType(t model.PermissionType) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Where("type = ?", t).Order("sort asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) Create(permission *model.Permission) error {
	return r.db.Create(permission).Error
}

func (r *permissionRepo) Update(permission *model.Permission) error {
	return r.db.Save(permission).Error
}

// Delete soft-deletes the given nodes. Children of a deleted node are left in
// place; the compiler excludes them as orphans.
func (r *permissionRepo) Delete(ids []uuid.UUID, deletedBy string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Permission{}).Where("id IN ?", ids).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Permission{}, "id IN ?", ids).Error
	})
}

// SeedDefaults creates default catalog nodes if they don't exist. Content
// buttons are attached under the content-list menu so the seeded catalog is
// a real tree, not a flat list.
func (r *permissionRepo) SeedDefaults() error {
	for _, p := range model.DefaultPermissions {
		var existing model.Permission
		err := r.db.Where("code = ?", p.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !IsNotFound(err) {
			return err
		}
		if err := r.db.Create(&p).Error; err != nil {
			return err
		}
	}

	parent, err := r.FindByCode("menu:contents")
	if err != nil {
		return err
	}
	return r.db.Model(&model.Permission{}).
		Where("type = ? AND parent_id IS NULL AND code LIKE ?", model.PermissionButton, "content:%").
		Update("parent_id", parent.ID).Error
}

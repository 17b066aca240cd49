package repository

import (
	"strings"

	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uuid.UUID) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByIdentifier(identifier string) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	ReplacePermissions(user *model.User, permissions []model.Permission) error
	Delete(ids []uuid.UUID, deletedBy string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Permissions").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Permissions").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier accepts either a username or an email, the login form does
// not distinguish them.
func (r *userRepo) FindByIdentifier(identifier string) (*model.User, error) {
	column := "username"
	if strings.Contains(identifier, "@") {
		column = "email"
	}
	var user model.User
	if err := r.db.Preload("Permissions").Where(column+" = ?", identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("Permissions").Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) ReplacePermissions(user *model.User, permissions []model.Permission) error {
	return r.db.Model(user).Association("Permissions").Replace(permissions)
}

func (r *userRepo) Delete(ids []uuid.UUID, deletedBy string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id IN ?", ids).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id IN ?", ids).Error
	})
}

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

type UserService interface {
	Create(actor audit.Actor, req *CreateUserRequest) (*model.User, error)
	Update(actor audit.Actor, id uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	UpdatePassword(actor audit.Actor, id uuid.UUID, password string) error
	Delete(actor audit.Actor, ids []uuid.UUID) error
	GetAll() ([]model.UserResponse, error)
	GetByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	RoleCode string `json:"role" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type UpdateUserRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	RoleCode string `json:"role" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	auditor  *audit.Auditor
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, auditor *audit.Auditor) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		auditor:  auditor,
	}
}

func (s *userService) Create(actor audit.Actor, req *CreateUserRequest) (*model.User, error) {
	var created *model.User

	err := s.auditor.Run(actor, "user", "CREATE", "create user", req.Username, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil {
			return apperr.Conflict("username already exists")
		}
		if existing, _ := s.userRepo.FindByIdentifier(req.Email); existing != nil {
			return apperr.Conflict("email already exists")
		}

		role, err := s.roleRepo.FindByCode(req.RoleCode)
		if err != nil {
			return apperr.Validation("role not found")
		}

		status := model.UserStatus(req.Status)
		if status == "" {
			status = model.UserActive
		}

		user := &model.User{
			Username: req.Username,
			Nickname: req.Nickname,
			Email:    req.Email,
			Phone:    req.Phone,
			RoleCode: role.Code,
			Status:   status,
			// snapshot taken at assignment time, not a live reference
			Permissions: role.Permissions,
		}
		user.CreatedBy = actor.Username
		user.UpdatedBy = actor.Username

		if err := user.SetPassword(req.Password); err != nil {
			return apperr.Transaction("failed to hash password")
		}

		if err := s.userRepo.Create(user); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("username or email already exists")
			}
			return err
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *userService) Update(actor audit.Actor, id uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	var updated *model.User

	err := s.auditor.Run(actor, "user", "UPDATE", "update user", id, func() error {
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		user, err := s.userRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("user not found")
		}

		if req.Email != user.Email {
			if existing, _ := s.userRepo.FindByIdentifier(req.Email); existing != nil {
				return apperr.Conflict("email already exists")
			}
		}

		roleChanged := req.RoleCode != user.RoleCode

		role, err := s.roleRepo.FindByCode(req.RoleCode)
		if err != nil {
			return apperr.Validation("role not found")
		}

		user.Nickname = req.Nickname
		user.Email = req.Email
		user.Phone = req.Phone
		user.Avatar = req.Avatar
		user.RoleCode = role.Code
		if req.Status != "" {
			user.Status = model.UserStatus(req.Status)
		}
		user.UpdatedBy = actor.Username

		if err := s.userRepo.Update(user); err != nil {
			return err
		}

		// Re-assigning a role refreshes the snapshot; editing the role alone
		// never does.
		if roleChanged {
			if err := s.userRepo.ReplacePermissions(user, role.Permissions); err != nil {
				return err
			}
		}

		updated, err = s.userRepo.FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *userService) UpdatePassword(actor audit.Actor, id uuid.UUID, password string) error {
	return s.auditor.Run(actor, "user", "UPDATE", "update user password", id, func() error {
		if len(password) < 6 {
			return apperr.Validation("password must be at least 6 characters")
		}
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("user not found")
		}
		if err := user.SetPassword(password); err != nil {
			return apperr.Transaction("failed to hash password")
		}
		return s.userRepo.UpdatePassword(id, user.Password)
	})
}

func (s *userService) Delete(actor audit.Actor, ids []uuid.UUID) error {
	return s.auditor.Run(actor, "user", "DELETE", "delete users", ids, func() error {
		if len(ids) == 0 {
			return apperr.Validation("user ids are required")
		}
		for _, id := range ids {
			if id == actor.UserID {
				return apperr.Validation("cannot delete the current user")
			}
		}
		return s.userRepo.Delete(ids, actor.Username)
	})
}

func (s *userService) GetAll() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	response := user.ToResponse()
	return &response, nil
}

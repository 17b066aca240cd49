package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

// User represents an authenticated user in the system.
//
// Permissions is a point-in-time snapshot copied from the role when the role
// is assigned, not a live reference. Role edits do not retroactively change
// already-issued credentials or stored snapshots; expiry forces a re-login,
// which is the only revocation mechanism.
type User struct {
	BaseModel
	Username    string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Nickname    string       `gorm:"type:varchar(100)" json:"nickname"`
	Email       string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string       `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Phone       string       `gorm:"type:varchar(20)" json:"phone"`
	Avatar      string       `gorm:"type:varchar(255)" json:"avatar"`
	RoleCode    string       `gorm:"type:varchar(50);index" json:"role"`
	Status      UserStatus   `gorm:"type:varchar(10);default:'active'" json:"status"`
	Permissions []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPermission checks the snapshot for a specific permission code
func (u *User) HasPermission(code string) bool {
	for _, p := range u.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// PermissionCodes returns the snapshot as a flat code list
func (u *User) PermissionCodes() []string {
	codes := make([]string, len(u.Permissions))
	for i, p := range u.Permissions {
		codes[i] = p.Code
	}
	return codes
}

// DisplayName prefers the nickname, falling back to the username.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Nickname    string     `json:"nickname"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Avatar      string     `json:"avatar,omitempty"`
	RoleCode    string     `json:"role"`
	Status      UserStatus `json:"status"`
	Permissions []string   `json:"permissions"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		RoleCode:    u.RoleCode,
		Status:      u.Status,
		Permissions: u.PermissionCodes(),
	}
}

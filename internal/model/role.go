package model

type RoleStatus string

const (
	RoleActive   RoleStatus = "active"
	RoleDisabled RoleStatus = "disabled"
)

// Role owns a permission set. Users receive a snapshot of that set at
// assignment time, they never dereference the role at request time.
type Role struct {
	BaseModel
	Code        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name        string       `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Description string       `gorm:"type:text" json:"description"`
	Status      RoleStatus   `gorm:"type:varchar(10);default:'active'" json:"status"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// PermissionCodes returns the flat code set owned by this role.
func (r *Role) PermissionCodes() []string {
	codes := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		codes[i] = p.Code
	}
	return codes
}

// Role codes as constants
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all permissions",
		Status:      RoleActive,
	},
	{
		Code:        RoleEditor,
		Name:        "Editor",
		Description: "Creates and submits content for review",
		Status:      RoleActive,
	},
	{
		Code:        RoleViewer,
		Name:        "Viewer",
		Description: "Read-only access to published content",
		Status:      RoleActive,
	},
}

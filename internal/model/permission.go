package model

import "github.com/google/uuid"

type PermissionType string

const (
	PermissionMenu   PermissionType = "menu"
	PermissionButton PermissionType = "button"
)

// Permission is a node of the permission catalog. Menu nodes carry a route
// path and gate navigation; button nodes gate individual actions and are
// checked by code membership, never by path.
type Permission struct {
	BaseModel
	Name     string         `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Code     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"code" validate:"required"` // business key, e.g. "content:review"
	Type     PermissionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=menu button"`
	ParentID *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Path     string         `gorm:"type:varchar(255)" json:"path,omitempty"` // menu only
	Icon     string         `gorm:"type:varchar(100)" json:"icon,omitempty"`
	Sort     int            `gorm:"default:0" json:"sort"`
}

// Default catalog seeded at first boot. Menu nodes mirror the admin
// navigation; button nodes gate the actions underneath them.
var DefaultPermissions = []Permission{
	// Menus
	{Name: "Dashboard", Code: "menu:dashboard", Type: PermissionMenu, Path: "/admin/dashboard", Sort: 1},
	{Name: "Content List", Code: "menu:contents", Type: PermissionMenu, Path: "/admin/contents/list", Sort: 2},
	{Name: "Content Preview", Code: "menu:contents:preview", Type: PermissionMenu, Path: "/admin/contents/preview", Sort: 3},
	{Name: "User List", Code: "menu:users", Type: PermissionMenu, Path: "/admin/users/list", Sort: 4},
	{Name: "Role List", Code: "menu:roles", Type: PermissionMenu, Path: "/admin/users/roles", Sort: 5},
	{Name: "Permission Admin", Code: "menu:permissions", Type: PermissionMenu, Path: "/admin/system/permission", Sort: 6},
	{Name: "Operation Logs", Code: "menu:logs", Type: PermissionMenu, Path: "/admin/system/logs", Sort: 7},
	// Buttons
	{Name: "Create Content", Code: "content:create", Type: PermissionButton},
	{Name: "Update Content", Code: "content:update", Type: PermissionButton},
	{Name: "Delete Content", Code: "content:delete", Type: PermissionButton},
	{Name: "Publish Content", Code: "content:publish", Type: PermissionButton},
	{Name: "Review Content", Code: "content:review", Type: PermissionButton},
	{Name: "Archive Content", Code: "content:archive", Type: PermissionButton},
	{Name: "Submit Any Content", Code: "content:submitAll", Type: PermissionButton},
	{Name: "View All Content", Code: "content:viewAll", Type: PermissionButton},
	{Name: "View Published Content", Code: "content:viewPublished", Type: PermissionButton},
	{Name: "Manage Users", Code: "user:manage", Type: PermissionButton},
	{Name: "Manage Roles", Code: "role:manage", Type: PermissionButton},
	{Name: "Manage Permissions", Code: "permission:manage", Type: PermissionButton},
	{Name: "View Logs", Code: "log:view", Type: PermissionButton},
}

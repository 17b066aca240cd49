// Package catalog compiles the flat permission rows into the navigation
// forest and resolves permission codes to allowed route prefixes.
package catalog

import (
	"sort"

	"go-cms-admin/internal/model"

	"github.com/google/uuid"
)

// Node is one compiled permission entry. Children is omitted from JSON when
// empty, so leaf nodes carry no dangling empty-array artifact.
type Node struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Code     string               `json:"code"`
	Type     model.PermissionType `json:"type"`
	ParentID *uuid.UUID           `json:"parent_id,omitempty"`
	Path     string               `json:"path,omitempty"`
	Icon     string               `json:"icon,omitempty"`
	Sort     int                  `json:"sort"`
	Children []*Node              `json:"children,omitempty"`
}

// Compile builds the permission forest from the live (non-soft-deleted) rows.
//
// Nodes are ordered menu-before-button, then by Sort ascending within type,
// and children are appended in that order, so sibling order in the output
// reflects declared priority. A node whose parent is absent from the input
// (soft-deleted) is silently dropped along with its subtree.
func Compile(perms []model.Permission) []*Node {
	ordered := make([]model.Permission, len(perms))
	copy(ordered, perms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Type != ordered[j].Type {
			return ordered[i].Type == model.PermissionMenu
		}
		return ordered[i].Sort < ordered[j].Sort
	})

	byID := make(map[uuid.UUID]*Node, len(ordered))
	nodes := make([]*Node, len(ordered))
	for i, p := range ordered {
		n := &Node{
			ID:       p.ID,
			Name:     p.Name,
			Code:     p.Code,
			Type:     p.Type,
			ParentID: p.ParentID,
			Icon:     p.Icon,
		}
		if p.Type == model.PermissionMenu {
			n.Path = p.Path
			n.Sort = p.Sort
		}
		nodes[i] = n
		byID[p.ID] = n
	}

	var forest []*Node
	for _, n := range nodes {
		if n.ParentID == nil {
			forest = append(forest, n)
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
		// parent soft-deleted: orphan vanishes rather than erroring
	}
	return forest
}

// ResolveAllowedPaths walks the compiled forest and returns the paths of
// menu nodes whose code is in the caller's permission set. Button codes never
// become paths; they gate actions, not routes.
func ResolveAllowedPaths(forest []*Node, codes []string) []string {
	allowed := make(map[string]bool, len(codes))
	for _, c := range codes {
		allowed[c] = true
	}

	var paths []string
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Type == model.PermissionMenu && n.Path != "" && allowed[n.Code] {
				paths = append(paths, n.Path)
			}
			walk(n.Children)
		}
	}
	walk(forest)
	return paths
}

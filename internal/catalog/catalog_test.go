package catalog

import (
	"testing"

	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menu(name, code, path string, sort int, parent *uuid.UUID) model.Permission {
	p := model.Permission{
		Name:     name,
		Code:     code,
		Type:     model.PermissionMenu,
		Path:     path,
		Sort:     sort,
		ParentID: parent,
	}
	p.ID = uuid.New()
	return p
}

func button(name, code string, parent *uuid.UUID) model.Permission {
	p := model.Permission{
		Name:     name,
		Code:     code,
		Type:     model.PermissionButton,
		ParentID: parent,
	}
	p.ID = uuid.New()
	return p
}

func TestCompileOrdering(t *testing.T) {
	users := menu("Users", "menu:users", "/admin/users/list", 2, nil)
	contents := menu("Contents", "menu:contents", "/admin/contents/list", 1, nil)
	review := button("Review", "content:review", &contents.ID)
	create := button("Create", "content:create", &contents.ID)

	// deliberately shuffled input
	forest := Compile([]model.Permission{review, users, create, contents})

	require.Len(t, forest, 2)
	assert.Equal(t, "menu:contents", forest[0].Code)
	assert.Equal(t, "menu:users", forest[1].Code)

	require.Len(t, forest[0].Children, 2)
	// buttons keep their input order relative to each other
	assert.Equal(t, "content:review", forest[0].Children[0].Code)
	assert.Equal(t, "content:create", forest[0].Children[1].Code)
}

func TestCompileDropsOrphans(t *testing.T) {
	contents := menu("Contents", "menu:contents", "/admin/contents/list", 1, nil)
	missingParent := uuid.New()
	orphan := button("Review", "content:review", &missingParent)

	forest := Compile([]model.Permission{contents, orphan})

	require.Len(t, forest, 1)
	assert.Equal(t, "menu:contents", forest[0].Code)
	assert.Empty(t, forest[0].Children)
}

func TestCompileLeafHasNilChildren(t *testing.T) {
	contents := menu("Contents", "menu:contents", "/admin/contents/list", 1, nil)

	forest := Compile([]model.Permission{contents})

	require.Len(t, forest, 1)
	assert.Nil(t, forest[0].Children)
}

func TestResolveAllowedPathsMenuOnly(t *testing.T) {
	contents := menu("Contents", "menu:contents", "/admin/contents/list", 1, nil)
	preview := menu("Preview", "menu:contents:preview", "/admin/contents/preview", 2, &contents.ID)
	logs := menu("Logs", "menu:logs", "/admin/system/logs", 3, nil)
	review := button("Review", "content:review", &contents.ID)

	forest := Compile([]model.Permission{contents, preview, logs, review})

	paths := ResolveAllowedPaths(forest, []string{"menu:contents", "menu:contents:preview", "content:review"})

	assert.ElementsMatch(t, []string{"/admin/contents/list", "/admin/contents/preview"}, paths)
	// button codes never surface as navigable paths
	assert.NotContains(t, paths, "/admin/system/logs")
}

func TestResolveAllowedPathsEmptyGrant(t *testing.T) {
	contents := menu("Contents", "menu:contents", "/admin/contents/list", 1, nil)

	forest := Compile([]model.Permission{contents})

	assert.Empty(t, ResolveAllowedPaths(forest, nil))
}

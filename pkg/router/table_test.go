package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pathway/pkg/router"
)

func noop(*router.RouteState) {}

func TestTableFindByPath(t *testing.T) {
	table := router.MustTable([]router.Route{
		{Name: "post", Path: "/users/:user/posts/:post", Handler: router.HandleFunc(noop)},
		{Name: "user", Path: "/users/:id", Handler: router.HandleFunc(noop)},
	})

	tests := []struct {
		path   string
		name   string
		params map[string]string
		ok     bool
	}{
		{"/users/42", "user", map[string]string{"id": "42"}, true},
		{"users/42/", "user", map[string]string{"id": "42"}, true},
		{"/users/7/posts/9", "post", map[string]string{"user": "7", "post": "9"}, true},
		{"/users", "", nil, false},
		{"/users/7/posts", "", nil, false},
		{"/", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, params, ok := table.FindByPath(tt.path)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.name, route.Name)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestTableRegistrationOrderWins(t *testing.T) {
	table := router.MustTable([]router.Route{
		{Name: "wildcard", Path: "/users/:id", Handler: router.HandleFunc(noop)},
		{Name: "me", Path: "/users/me", Handler: router.HandleFunc(noop)},
	})

	route, params, ok := table.FindByPath("/users/me")
	require.True(t, ok)
	assert.Equal(t, "wildcard", route.Name)
	assert.Equal(t, map[string]string{"id": "me"}, params)
}

func TestTableTypedAndCatchAll(t *testing.T) {
	table := router.MustTable([]router.Route{
		{Name: "byID", Path: "/items/:id:int", Handler: router.HandleFunc(noop)},
		{Name: "bySlug", Path: "/items/:slug", Handler: router.HandleFunc(noop)},
		{Name: "docs", Path: "/docs/*page", Handler: router.HandleFunc(noop)},
	})

	route, _, ok := table.FindByPath("/items/12")
	require.True(t, ok)
	assert.Equal(t, "byID", route.Name)

	route, params, ok := table.FindByPath("/items/widget")
	require.True(t, ok)
	assert.Equal(t, "bySlug", route.Name)
	assert.Equal(t, "widget", params["slug"])

	route, params, ok = table.FindByPath("/docs/guide/install")
	require.True(t, ok)
	assert.Equal(t, "docs", route.Name)
	assert.Equal(t, "guide/install", params["page"])
}

func TestTableFindByName(t *testing.T) {
	table := router.MustTable([]router.Route{
		{Name: "home", Path: "/", Handler: router.HandleFunc(noop)},
		{Path: "/anonymous", Handler: router.HandleFunc(noop)},
	})

	route, ok := table.FindByName("home")
	require.True(t, ok)
	assert.Equal(t, "/", route.Path)

	_, ok = table.FindByName("missing")
	assert.False(t, ok)
	_, ok = table.FindByName("")
	assert.False(t, ok)

	empty := router.MustTable(nil)
	_, ok = empty.FindByName("home")
	assert.False(t, ok)
	assert.Zero(t, empty.Len())
}

func TestTableErrors(t *testing.T) {
	_, err := router.NewTable([]router.Route{
		{Name: "a", Path: "/a"},
		{Name: "a", Path: "/b"},
	})
	assert.ErrorIs(t, err, router.ErrDuplicateRoute)

	_, err = router.NewTable([]router.Route{{Name: "bad", Path: "/users/:"}})
	assert.ErrorIs(t, err, router.ErrInvalidRoute)

	_, err = router.NewTable([]router.Route{{Name: "bad", Path: "/*rest/tail"}})
	assert.ErrorIs(t, err, router.ErrInvalidRoute)

	assert.Panics(t, func() {
		router.MustTable([]router.Route{{Path: "/x/:id/:id"}})
	})
}

func TestTableBuild(t *testing.T) {
	table := router.MustTable([]router.Route{
		{Name: "user", Path: "/users/:id:int", Handler: router.HandleFunc(noop)},
	})

	path, err := table.Build("user", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", path)

	_, err = table.Build("user", nil)
	assert.ErrorIs(t, err, router.ErrRouteNotFound)

	_, err = table.Build("nope", nil)
	assert.ErrorIs(t, err, router.ErrRouteNotFound)
}

func TestTableRoutesKeepsOrder(t *testing.T) {
	routes := []router.Route{
		{Name: "b", Path: "/b"},
		{Name: "a", Path: "/a"},
	}
	table := router.MustTable(routes)
	assert.Equal(t, routes, table.Routes())
	assert.Contains(t, table.String(), "/b")
}

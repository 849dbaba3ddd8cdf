package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pathway/pkg/routepath"
	"github.com/vango-dev/pathway/pkg/router"
	"github.com/vango-dev/pathway/pkg/routertest"
)

func newResolver(t *testing.T, cleaner routepath.Cleaner) *router.Resolver {
	t.Helper()
	comps := &routertest.Components{}
	table, err := router.NewTable([]router.Route{
		{Name: "home", Path: "/", Handler: router.MountComponent("home")},
		{Name: "about", Path: "/about", Handler: router.HandleFunc(noop)},
		{Name: "user", Path: "/users/:id", Handler: router.Both(noop, "user")},
		{Name: "bare", Path: "/bare"},
		{Name: "ghost", Path: "/ghost", Handler: router.MountComponent("ghost")},
	})
	require.NoError(t, err)
	return router.NewResolver(table, cleaner, comps.Map("home", "user"))
}

func TestResolveCleansBaseAndLocale(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{BasePath: "/app", Locale: "en"})

	res, err := r.Resolve(router.To("/app/en/about/"))
	require.NoError(t, err)
	assert.Equal(t, "about", res.State.Path)
	assert.Equal(t, "about", res.State.Name)
	assert.Equal(t, router.HandlerCallback, res.Handler.Kind())

	res, err = r.Resolve(router.To("/app/en/"))
	require.NoError(t, err)
	assert.Equal(t, "/", res.State.Path)
	assert.Equal(t, "home", res.State.Name)
}

func TestResolveByName(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{})

	res, err := r.Resolve(router.Named("user", map[string]string{"id": "7"}).WithQuery("?tab=posts").WithHash("#bio"))
	require.NoError(t, err)
	assert.Equal(t, "user", res.State.Name)
	assert.Equal(t, "users/7", res.State.Path)
	assert.Equal(t, map[string]string{"id": "7"}, res.State.Params)
	assert.Equal(t, "tab=posts", res.State.Query)
	assert.Equal(t, "bio", res.State.Hash)
	assert.Equal(t, router.HandlerBoth, res.Handler.Kind())
	assert.Equal(t, "user", res.Handler.ComponentKey())
}

func TestResolveMergesParams(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{})

	req := router.To("/users/7").WithParams(map[string]string{"id": "8", "ref": "mail"})
	res, err := r.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "8", "ref": "mail"}, res.State.Params)
	assert.Equal(t, "users/7", res.State.Path)
}

func TestResolveQueryAndHashFromHref(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{})

	res, err := r.Resolve(router.To("/about?x=1#top"))
	require.NoError(t, err)
	assert.Equal(t, "x=1", res.State.Query)
	assert.Equal(t, "top", res.State.Hash)
	assert.Equal(t, "1", res.State.Values().Get("x"))

	res, err = r.Resolve(router.To("/about"))
	require.NoError(t, err)
	assert.Empty(t, res.State.Query)
	assert.Empty(t, res.State.Hash)
}

func TestResolveFailures(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{})

	tests := []struct {
		name string
		req  router.Request
		want error
	}{
		{"unknown name", router.Named("nope", nil), router.ErrRouteNotFound},
		{"missing param", router.Named("user", nil), router.ErrRouteNotFound},
		{"unknown path", router.To("/nowhere"), router.ErrRouteNotFound},
		{"escaping path", router.To("/../etc"), router.ErrRouteNotFound},
		{"no handler", router.To("/bare"), router.ErrMissingHandler},
		{"unregistered component", router.Named("ghost", nil), router.ErrMissingHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveNameWinsOverPath(t *testing.T) {
	r := newResolver(t, routepath.Cleaner{})

	req := router.Named("about", nil)
	req.Path = "/users/1"
	res, err := r.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "about", res.State.Name)
}

func TestRouteStateEqual(t *testing.T) {
	a := &router.RouteState{Name: "user", Params: map[string]string{"id": "7"}, Query: "a=1"}
	b := &router.RouteState{Name: "user", Params: map[string]string{"id": "7"}, Hash: "x"}
	c := &router.RouteState{Name: "user", Params: map[string]string{"id": "8"}}
	d := &router.RouteState{Name: "post", Params: map[string]string{"id": "7"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))

	var none *router.RouteState
	assert.True(t, none.Equal(nil))
	assert.Equal(t, "", none.Param("id"))
	assert.Equal(t, "7", a.Param("id"))
}

func TestHandlerVariants(t *testing.T) {
	assert.Equal(t, router.HandlerNone, router.Handler{}.Kind())
	assert.Equal(t, router.HandlerNone, router.HandleFunc(nil).Kind())
	assert.Equal(t, router.HandlerNone, router.MountComponent("").Kind())
	assert.Equal(t, router.HandlerCallback, router.Both(noop, "").Kind())
	assert.Equal(t, router.HandlerComponent, router.Both(nil, "x").Kind())
	assert.Equal(t, "both", router.Both(noop, "x").Kind().String())
}

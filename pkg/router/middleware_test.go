package router_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pathway/pkg/router"
)

func recorder(name string, order *[]string) router.Middleware {
	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		*order = append(*order, name+":before")
		err := next()
		*order = append(*order, name+":after")
		return err
	})
}

func TestComposeMiddleware(t *testing.T) {
	var order []string
	nav := &router.Navigation{}

	err := router.ComposeMiddleware(nav, []router.Middleware{
		recorder("a", &order),
		recorder("b", &order),
	}, func() error {
		order = append(order, "handler")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a:before", "b:before", "handler", "b:after", "a:after"}, order)
}

func TestChainSkipOnly(t *testing.T) {
	var order []string
	nav := &router.Navigation{Request: router.To("/admin")}
	isAdmin := func(nav *router.Navigation) bool { return nav.Request.Path == "/admin" }

	mw := router.Chain(
		router.Skip(isAdmin, recorder("skipped", &order)),
		router.Only(isAdmin, recorder("only", &order)),
	)
	err := mw.Handle(nav, func() error {
		order = append(order, "handler")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"only:before", "handler", "only:after"}, order)
}

func TestMiddlewareSeesOutcome(t *testing.T) {
	f := newFixture(t, router.Options{})

	var navs []*router.Navigation
	f.r.Use(router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		err := next()
		navs = append(navs, nav)
		return err
	}))

	ctx := context.Background()
	f.r.Navigate(ctx, router.To("/about"))
	f.r.Navigate(ctx, router.To("/about"))
	f.r.Navigate(ctx, router.To("/nowhere"))
	f.r.Back()

	require.Len(t, navs, 4)
	assert.Equal(t, router.OutcomeSettled, navs[0].Outcome)
	assert.Equal(t, "about", navs[0].To.Name)
	assert.NotEqual(t, navs[0].ID, navs[1].ID)
	assert.Equal(t, router.OutcomeNoOp, navs[1].Outcome)
	assert.Equal(t, router.OutcomeNotFound, navs[2].Outcome)
	assert.ErrorIs(t, navs[2].Err, router.ErrRouteNotFound)
	assert.True(t, router.IsPop(navs[3]))
	assert.True(t, navs[3].Request.Silent)
}

func TestMiddlewareShortCircuit(t *testing.T) {
	f := newFixture(t, router.Options{})
	ctx := context.Background()

	f.r.Use(router.Only(
		func(nav *router.Navigation) bool { return nav.Request.Path == "/users" },
		router.MiddlewareFunc(func(*router.Navigation, func() error) error { return nil }),
	))
	assert.Equal(t, router.OutcomeCancelled, f.r.Navigate(ctx, router.To("/users")))
	assert.Nil(t, f.r.CurrentRoute())

	boom := errors.New("boom")
	f.r.Use(router.Only(
		func(nav *router.Navigation) bool { return nav.Request.Path == "/about" },
		router.MiddlewareFunc(func(*router.Navigation, func() error) error { return boom }),
	))
	assert.Equal(t, router.OutcomeFailed, f.r.Navigate(ctx, router.To("/about")))
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/router"
)

const jsonConfig = `{
  "basePath": "/app",
  "mode": "hash",
  "locale": "pt-br",
  "restoreScroll": true,
  "concurrency": "supersede",
  "routes": [
    {"name": "home", "path": "/", "component": "home"},
    {"name": "user", "path": "/users/:id"}
  ],
  "serve": {"addr": ":9000"}
}
`

const yamlConfig = `basePath: /app
mode: hash
locale: pt-br
restoreScroll: true
concurrency: supersede
routes:
  - name: home
    path: /
    component: home
  - name: user
    path: /users/:id
serve:
  addr: ":9000"
`

const tomlConfig = `basePath = "/app"
mode = "hash"
locale = "pt-br"
restoreScroll = true
concurrency = "supersede"

[serve]
addr = ":9000"

[[routes]]
name = "home"
path = "/"
component = "home"

[[routes]]
name = "user"
path = "/users/:id"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Equal(t, DefaultWSPath, cfg.Serve.WSPath)
	assert.Equal(t, DefaultMetricsPath, cfg.Serve.MetricsPath)
	assert.Equal(t, float64(DefaultEventsPerSecond), cfg.Serve.EventsPerSecond)
	assert.Equal(t, "last-write-wins", cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"pathway.json", jsonConfig},
		{"pathway.yaml", yamlConfig},
		{"pathway.yml", yamlConfig},
		{"pathway.toml", tomlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(dir)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, path, cfg.Path())
			assert.Equal(t, dir, cfg.Dir())
			assert.Equal(t, "/app", cfg.BasePath)
			assert.Equal(t, "hash", cfg.Mode)
			assert.Equal(t, "pt-BR", cfg.Locale)
			assert.True(t, cfg.RestoreScroll)
			assert.Equal(t, ":9000", cfg.Serve.Addr)
			assert.Equal(t, DefaultWSPath, cfg.Serve.WSPath)
			assert.Equal(t, []RouteConfig{
				{Name: "home", Path: "/", Component: "home"},
				{Name: "user", Path: "/users/:id"},
			}, cfg.Routes)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "C121", errors.CodeOf(err))

	_, err = LoadFile(filepath.Join(t.TempDir(), "pathway.json"))
	assert.Equal(t, "C121", errors.CodeOf(err))
}

func TestLoadFilePrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pathway.json", `{"basePath": "/json"}`)
	writeFile(t, dir, "pathway.toml", `basePath = "/toml"`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/json", cfg.BasePath)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		wantErr string
	}{
		{"bad json", `{"basePath": `, ".json", "C120"},
		{"unknown json field", `{"port": 3000}`, ".json", "C120"},
		{"unknown yaml field", "port: 3000\n", ".yaml", "C120"},
		{"unknown toml key", "port = 3000\n", ".toml", "C120"},
		{"unsupported extension", `basePath: /`, ".ini", "C123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.ext)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, errors.CodeOf(err))
		})
	}
}

func TestParseEmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory mode", func(c *Config) { c.Mode = "memory" }, true},
		{"bad mode", func(c *Config) { c.Mode = "cookie" }, false},
		{"relative base", func(c *Config) { c.BasePath = "app" }, false},
		{"bad concurrency", func(c *Config) { c.Concurrency = "queue" }, false},
		{"bad locale", func(c *Config) { c.Locale = "not a tag!" }, false},
		{"negative rate", func(c *Config) { c.Serve.EventsPerSecond = -1 }, false},
		{"relative ws path", func(c *Config) { c.Serve.WSPath = "ws" }, false},
		{"route without path", func(c *Config) { c.Routes = []RouteConfig{{Name: "x"}} }, false},
		{"bad pattern", func(c *Config) { c.Routes = []RouteConfig{{Path: "/*rest/more"}} }, false},
		{"duplicate names", func(c *Config) {
			c.Routes = []RouteConfig{{Name: "a", Path: "/a"}, {Name: "a", Path: "/b"}}
		}, false},
		{"unnamed routes", func(c *Config) {
			c.Routes = []RouteConfig{{Path: "/a"}, {Path: "/b"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "C122", errors.CodeOf(err))
		})
	}
}

func TestRouterOptions(t *testing.T) {
	cfg, err := Parse([]byte(jsonConfig), ".json")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	opts, err := cfg.RouterOptions(func(*router.RouteState) {})
	require.NoError(t, err)

	assert.Equal(t, "/app", opts.BasePath)
	assert.Equal(t, history.ModeHash, opts.Mode)
	assert.Equal(t, "pt-BR", opts.Locale)
	assert.True(t, opts.RestoreScroll)
	assert.Equal(t, router.SupersedePrevious, opts.Concurrency)
	require.Len(t, opts.Routes, 2)
	assert.Equal(t, router.HandlerBoth, opts.Routes[0].Handler.Kind())
	assert.Equal(t, "home", opts.Routes[0].Handler.ComponentKey())
	assert.Equal(t, router.HandlerCallback, opts.Routes[1].Handler.Kind())
}

func TestRouteTableWithoutCallback(t *testing.T) {
	cfg := New()
	cfg.Routes = []RouteConfig{
		{Name: "home", Path: "/", Component: "home"},
		{Name: "about", Path: "/about"},
	}

	routes := cfg.RouteTable(nil)
	assert.Equal(t, router.HandlerComponent, routes[0].Handler.Kind())
	assert.Equal(t, router.HandlerNone, routes[1].Handler.Kind())
}

func TestComponentKeys(t *testing.T) {
	cfg := New()
	cfg.Routes = []RouteConfig{
		{Path: "/", Component: "home"},
		{Path: "/a"},
		{Path: "/b", Component: "page"},
		{Path: "/c", Component: "home"},
	}
	assert.Equal(t, []string{"home", "page"}, cfg.ComponentKeys())
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pathway.yaml", "basePath: /\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	want, _ := filepath.Abs(root)
	assert.Equal(t, want, found)

	assert.True(t, Exists(root))
	assert.False(t, Exists(nested))
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pathway.json", `{"basePath": "/v1"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { changes <- c }, nil)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "pathway.json", `{"basePath": "/v2"}`)

	select {
	case cfg := <-changes:
		assert.Equal(t, "/v2", cfg.BasePath)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

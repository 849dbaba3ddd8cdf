package router

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/pathway/pkg/history"
)

// ConcurrencyPolicy decides what happens when a navigation starts while
// another is still in flight.
type ConcurrencyPolicy int

const (
	// LastWriteWins lets overlapping navigations run to completion; the last
	// one to write current route and history wins.
	LastWriteWins ConcurrencyPolicy = iota

	// SupersedePrevious cancels the in-flight navigation's context. It stops
	// at its next phase boundary with OutcomeSuperseded.
	SupersedePrevious
)

// String returns the policy name used in configuration.
func (p ConcurrencyPolicy) String() string {
	switch p {
	case LastWriteWins:
		return "last-write-wins"
	case SupersedePrevious:
		return "supersede"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseConcurrency parses a policy name. The empty string is LastWriteWins.
func ParseConcurrency(s string) (ConcurrencyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-write-wins":
		return LastWriteWins, nil
	case "supersede":
		return SupersedePrevious, nil
	default:
		return 0, fmt.Errorf("unknown concurrency policy %q", s)
	}
}

// Options configures a Router. Every field is optional.
type Options struct {
	// Routes in match priority order.
	Routes []Route

	// Components maps component keys used by route handlers to factories.
	Components map[string]ComponentFactory

	// BasePath is the application's mount prefix, e.g. "/app".
	BasePath string

	// Mode selects the history backend. Empty means browser when a Window
	// is given and memory otherwise.
	Mode history.Mode

	// HashFallback uses the hash backend when browser mode is requested
	// but the window has no History API.
	HashFallback bool

	// Locale is a leading path segment added to every URL the router
	// writes and stripped from every URL it reads.
	Locale string

	// PreRendered mounts the first route with PreRenderMount.
	PreRendered bool

	// RestoreScroll saves the scroll position per entry and restores it on
	// pop. Push scrolls to the top. Needs Scroller.
	RestoreScroll bool

	// DebugMode logs every phase and hook rejection at debug level.
	DebugMode bool

	// Concurrency is the overlapping-navigation policy.
	Concurrency ConcurrencyPolicy

	// MountStrategy is passed to Component.Mount. Default MountReplace.
	MountStrategy MountStrategy

	// Window backs the browser and hash modes.
	Window history.Window

	// History, when set, is used instead of building one from Mode and
	// Window. The router does not close it.
	History history.History

	// Scanner rebinds anchor interception after each navigation.
	Scanner AnchorScanner

	// Scroller is used by RestoreScroll.
	Scroller Scroller

	// Middleware wraps every navigation attempt.
	Middleware []Middleware

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) mode() history.Mode {
	switch {
	case o.Mode != "":
		return o.Mode
	case o.Window != nil:
		return history.ModeBrowser
	default:
		return history.ModeMemory
	}
}

func (o Options) historyOptions() []history.Option {
	opts := []history.Option{history.WithBasename(o.BasePath)}
	if o.HashFallback {
		opts = append(opts, history.WithHashFallback())
	}
	return opts
}

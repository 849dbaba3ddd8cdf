package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/pathway/pkg/routepath"
)

// Errors returned by history constructors and operations.
var (
	ErrUnsupportedMode = errors.New("history mode not supported in this environment")
	ErrClosed          = errors.New("history closed")
)

// Action identifies how the current entry was reached.
type Action int

const (
	// Pop is a move through existing entries (back/forward/go or a URL
	// edit). It is the default assumption for any change the router did not
	// initiate itself.
	Pop Action = iota

	// Push adds a new entry.
	Push

	// Replace overwrites the current entry.
	Replace
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Pop:
		return "pop"
	case Push:
		return "push"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Mode selects a history backend.
type Mode string

const (
	ModeBrowser Mode = "browser"
	ModeHash    Mode = "hash"
	ModeMemory  Mode = "memory"
)

// ParseMode parses a mode name. The empty string selects ModeBrowser.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeBrowser, nil
	case ModeBrowser, ModeHash, ModeMemory:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

// Location is a single history entry.
type Location struct {
	// Pathname is the path, always starting with "/".
	Pathname string

	// Search is the query string without the leading "?".
	Search string

	// Hash is the fragment without the leading "#".
	Hash string

	// State is an opaque payload recorded with the entry.
	State any

	// Key uniquely identifies the entry. Assigned by the backend.
	Key string
}

// Href renders the location as path?search#hash.
func (l Location) Href() string {
	var b strings.Builder
	if l.Pathname == "" {
		b.WriteString("/")
	} else {
		b.WriteString(l.Pathname)
	}
	if l.Search != "" {
		b.WriteString("?")
		b.WriteString(l.Search)
	}
	if l.Hash != "" {
		b.WriteString("#")
		b.WriteString(l.Hash)
	}
	return b.String()
}

// ParseHref parses path?search#hash into a Location.
func ParseHref(href string) Location {
	path, search, hash := routepath.Split(href)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Location{Pathname: path, Search: search, Hash: hash}
}

// Listener receives externally triggered location changes.
type Listener func(loc Location, action Action)

// History is the router's view of session history.
type History interface {
	// Location returns the current entry.
	Location() Location

	// Push adds an entry after the current one, discarding forward entries.
	Push(loc Location) error

	// Replace overwrites the current entry.
	Replace(loc Location) error

	// Go moves n entries (negative is back).
	Go(n int)

	// Back is Go(-1).
	Back()

	// Forward is Go(1).
	Forward()

	// Listen registers fn for externally triggered changes and returns a
	// function that removes it.
	Listen(fn Listener) (unlisten func())

	// Close detaches from the underlying platform.
	Close() error
}

// Option configures a history backend.
type Option func(*options)

type options struct {
	basename     string
	initial      []string
	hashFallback bool
}

// WithBasename sets a path prefix the browser backend adds to every URL
// it writes and strips from every URL it reads.
func WithBasename(base string) Option {
	return func(o *options) {
		base = strings.Trim(base, "/")
		if base != "" {
			base = "/" + base
		}
		o.basename = base
	}
}

// WithInitialEntries seeds the memory backend. The last entry is current.
func WithInitialEntries(hrefs ...string) Option {
	return func(o *options) {
		o.initial = hrefs
	}
}

// WithHashFallback makes New fall back to the hash backend when browser
// mode is requested but the window lacks the History API.
func WithHashFallback() Option {
	return func(o *options) {
		o.hashFallback = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates the backend for mode. Browser and hash modes need a window;
// browser mode additionally needs window support for the History API.
func New(mode Mode, w Window, opts ...Option) (History, error) {
	switch mode {
	case ModeMemory:
		return NewMemory(opts...), nil
	case ModeHash:
		h, err := NewHash(w, opts...)
		if err != nil {
			return nil, err
		}
		return h, nil
	case ModeBrowser, "":
		b, err := NewBrowser(w, opts...)
		if err == nil {
			return b, nil
		}
		if w != nil && buildOptions(opts).hashFallback {
			return New(ModeHash, w, opts...)
		}
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Errors returned by Accept and the read loop.
var (
	ErrProtocol = errors.New("remote: protocol error")
	ErrClosed   = errors.New("remote: connection closed")
)

// Config tunes a remote window connection.
type Config struct {
	// EventsPerSecond limits inbound popstate/hashchange events. Default 20.
	EventsPerSecond float64

	// Burst is the limiter bucket size. Default 10.
	Burst int

	// HelloTimeout bounds the wait for the opening hello frame. Default 10s.
	HelloTimeout time.Duration

	// WriteTimeout bounds each frame write. Default 5s.
	WriteTimeout time.Duration

	// MaxMessageSize caps inbound frame size in bytes. Default 4096.
	MaxMessageSize int64

	// Logger receives protocol diagnostics. Default slog.Default().
	Logger *slog.Logger

	// OnError, if set, is told about failed handshakes ("handshake") and
	// connections that end with an error ("serve").
	OnError func(stage string, err error)
}

func (c Config) withDefaults() Config {
	if c.EventsPerSecond <= 0 {
		c.EventsPerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.HelloTimeout <= 0 {
		c.HelloTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Conn is a history.Window whose browser is on the far side of a
// WebSocket. Writes are sent as frames and applied optimistically to the
// tracked href; events arrive through Serve.
type Conn struct {
	ws      *websocket.Conn
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter

	writeMu sync.Mutex

	mu       sync.Mutex
	href     string
	supports bool
	nextID   int
	pop      map[int]func(key, href string)
	hash     map[int]func(oldURL, newURL string)

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Accept reads the hello frame from ws and returns a ready Conn. The
// caller must run Serve to receive events.
func Accept(ws *websocket.Conn, cfg Config) (*Conn, error) {
	cfg = cfg.withDefaults()
	ws.SetReadLimit(cfg.MaxMessageSize)

	_ = ws.SetReadDeadline(time.Now().Add(cfg.HelloTimeout))
	var hello Frame
	if err := ws.ReadJSON(&hello); err != nil {
		return nil, fmt.Errorf("%w: reading hello: %v", ErrProtocol, err)
	}
	_ = ws.SetReadDeadline(time.Time{})
	if hello.Type != FrameHello {
		return nil, fmt.Errorf("%w: expected hello, got %q", ErrProtocol, hello.Type)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		ws:       ws,
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "remote"),
		limiter:  rate.NewLimiter(rate.Limit(cfg.EventsPerSecond), cfg.Burst),
		href:     originRelative(hello.Href),
		supports: hello.History,
		pop:      make(map[int]func(string, string)),
		hash:     make(map[int]func(string, string)),
		ctx:      ctx,
		cancel:   cancel,
	}
	return c, nil
}

// Serve runs the read loop until the peer disconnects, ctx is done or
// Close is called. Events are dispatched on the calling goroutine.
func (c *Conn) Serve(ctx context.Context) error {
	defer c.Close()

	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}

		if err := c.limiter.Wait(c.ctx); err != nil {
			return nil
		}
		c.dispatch(f)
	}
}

func (c *Conn) dispatch(f Frame) {
	switch f.Type {
	case FramePopState:
		href := originRelative(f.Href)
		c.mu.Lock()
		c.href = href
		fns := collect(c.pop)
		c.mu.Unlock()
		for _, fn := range fns {
			fn(f.Key, href)
		}

	case FrameHashChange:
		oldURL, newURL := originRelative(f.OldURL), originRelative(f.NewURL)
		c.mu.Lock()
		c.href = newURL
		fns := collect(c.hash)
		c.mu.Unlock()
		for _, fn := range fns {
			fn(oldURL, newURL)
		}

	default:
		c.logger.Debug("ignoring frame", "type", f.Type)
	}
}

// Done is closed when the connection ends.
func (c *Conn) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the underlying WebSocket. It is safe to call repeatedly.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

// SupportsHistory reports what the client announced in hello.
func (c *Conn) SupportsHistory() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supports
}

// Href returns the last known client URL.
func (c *Conn) Href() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.href
}

// PushState sends a push frame.
func (c *Conn) PushState(key, href string) error {
	if err := c.send(Frame{Type: FramePush, Key: key, Href: href}); err != nil {
		return err
	}
	c.setHref(href)
	return nil
}

// ReplaceState sends a replace frame.
func (c *Conn) ReplaceState(key, href string) error {
	if err := c.send(Frame{Type: FrameReplace, Key: key, Href: href}); err != nil {
		return err
	}
	c.setHref(href)
	return nil
}

// Go sends a go frame. The client answers with popstate.
func (c *Conn) Go(n int) {
	if err := c.send(Frame{Type: FrameGo, Delta: n}); err != nil {
		c.logger.Warn("go frame failed", "delta", n, "error", err)
	}
}

// SetHash sends a hash frame.
func (c *Conn) SetHash(frag string) error {
	frag = strings.TrimPrefix(frag, "#")
	if err := c.send(Frame{Type: FrameHash, Href: frag}); err != nil {
		return err
	}
	c.setFragment(frag)
	return nil
}

// ReplaceHash sends a replaceHash frame.
func (c *Conn) ReplaceHash(frag string) error {
	frag = strings.TrimPrefix(frag, "#")
	if err := c.send(Frame{Type: FrameReplaceHash, Href: frag}); err != nil {
		return err
	}
	c.setFragment(frag)
	return nil
}

// OnPopState implements history.Window.
func (c *Conn) OnPopState(fn func(key, href string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.pop[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.pop, id)
		c.mu.Unlock()
	}
}

// OnHashChange implements history.Window.
func (c *Conn) OnHashChange(fn func(oldURL, newURL string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.hash[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.hash, id)
		c.mu.Unlock()
	}
}

func (c *Conn) send(f Frame) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.ws.WriteJSON(f)
}

func (c *Conn) setHref(href string) {
	c.mu.Lock()
	c.href = originRelative(href)
	c.mu.Unlock()
}

func (c *Conn) setFragment(frag string) {
	c.mu.Lock()
	base, _, _ := strings.Cut(c.href, "#")
	c.href = base + "#" + frag
	c.mu.Unlock()
}

func collect(m map[int]func(string, string)) []func(string, string) {
	fns := make([]func(string, string), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	return fns
}

// originRelative strips scheme and host from an absolute URL.
func originRelative(href string) string {
	if i := strings.Index(href, "://"); i >= 0 {
		rest := href[i+3:]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			href = rest[j:]
		} else {
			href = ""
		}
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return href
}

// Package monitor exposes a live run monitor as the "monitor" session item.
// The value is a socket.io endpoint URL; while a session pins it, every log
// record is also emitted to that endpoint as a "log" event, so a dashboard
// can follow a training run in real time. Deactivation disconnects.
package monitor

import (
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/session"
)

// ItemName is the registry name of this item.
const ItemName = "monitor"

// sinkName is the router slot this module owns.
const sinkName = "monitor"

// conn is the transport seam: tests swap in a recording implementation.
type conn interface {
	emit(event string, payload map[string]any)
	close()
}

// Module implements the session.Module interface for this package.
type Module struct {
	router *logging.Router
	dial   func(rawURL string) (conn, error)

	mu   sync.Mutex
	conn conn
}

// New creates the module bound to the router it attaches stream sinks to.
func New(router *logging.Router) *Module {
	return &Module{router: router, dial: dialSocketIO}
}

// Register registers the item with the registry.
func (m *Module) Register(r *session.Registry) error {
	return r.Register(ItemName, session.Item{
		Default: session.Unset,
		Type:    cty.String,
		Setter:  m.set,
	})
}

// set swaps the monitor connection: the previous stream is detached and
// disconnected before the new endpoint is dialed.
func (m *Module) set(value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.router.Detach(sinkName)
	if m.conn != nil {
		m.conn.close()
		m.conn = nil
	}

	endpoint, ok := value.(string)
	if !ok {
		return nil
	}

	c, err := m.dial(endpoint)
	if err != nil {
		return fmt.Errorf("monitor: connecting to %s: %w", endpoint, err)
	}
	m.conn = c
	m.router.Attach(sinkName, &streamHandler{conn: c})
	return nil
}

// dialSocketIO opens a socket.io client to the endpoint. Connection is
// asynchronous; records logged before the handshake completes are dropped
// rather than buffered.
func dialSocketIO(rawURL string) (conn, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("endpoint URL %q needs a scheme and host", rawURL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	c := &socketConn{io: io}
	io.On(types.EventName("connect"), func(...any) {
		c.connected.Store(true)
	})
	io.On(types.EventName("disconnect"), func(...any) {
		c.connected.Store(false)
	})
	io.Connect()
	return c, nil
}

// socketConn adapts a socket.io client to the conn seam.
type socketConn struct {
	io        *socket.Socket
	connected atomic.Bool
}

func (c *socketConn) emit(event string, payload map[string]any) {
	if !c.connected.Load() {
		return
	}
	c.io.Emit(event, payload)
}

func (c *socketConn) close() {
	c.io.Disconnect()
}

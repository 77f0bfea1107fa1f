package monitor

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/session"
)

// fakeConn records emitted events in place of a live socket.
type fakeConn struct {
	events []map[string]any
	closed bool
}

func (c *fakeConn) emit(_ string, payload map[string]any) {
	c.events = append(c.events, payload)
}

func (c *fakeConn) close() { c.closed = true }

// newTestModule wires a module whose dialer hands out fresh fake
// connections and records the endpoints it was asked for.
func newTestModule(t *testing.T) (*session.Stack, *logging.Router, *[]string, *[]*fakeConn) {
	t.Helper()
	router := logging.NewRouter(io.Discard, "text")
	m := New(router)
	dialed := &[]string{}
	conns := &[]*fakeConn{}
	m.dial = func(rawURL string) (conn, error) {
		*dialed = append(*dialed, rawURL)
		c := &fakeConn{}
		*conns = append(*conns, c)
		return c, nil
	}
	reg := session.NewRegistry()
	require.NoError(t, m.Register(reg))
	return session.NewStack(reg), router, dialed, conns
}

func TestModule_StreamsRecordsWhileActive(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st, router, dialed, conns := newTestModule(t)
	logger := router.Logger()
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: "https://mon.example/socket.io"})
	require.NoError(t, err)

	// --- Act ---
	active, err := st.Enter(s)
	require.NoError(t, err)
	logger.Info("Epoch complete.", "epoch", 3)

	// --- Assert ---
	require.Equal(t, []string{"https://mon.example/socket.io"}, *dialed)
	require.Len(t, *conns, 1)
	c := (*conns)[0]
	require.Len(t, c.events, 1)
	require.Equal(t, "Epoch complete.", c.events[0]["message"])
	require.Equal(t, "INFO", c.events[0]["level"])
	require.Equal(t, "3", c.events[0]["epoch"])
	require.NotEmpty(t, c.events[0]["time"])

	require.NoError(t, active.Exit())
	require.True(t, c.closed, "deactivation must disconnect")
	logger.Info("afterwards")
	require.Len(t, c.events, 1, "a closed stream receives nothing")
}

func TestModule_ReconnectsForTheSurroundingSession(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st, router, dialed, conns := newTestModule(t)
	logger := router.Logger()

	outerSession, err := session.NewSession(st.Registry(), map[string]any{ItemName: "https://a.example"})
	require.NoError(t, err)
	innerSession, err := session.NewSession(st.Registry(), map[string]any{ItemName: "https://b.example"})
	require.NoError(t, err)

	// --- Act / Assert ---
	outer, err := st.Enter(outerSession)
	require.NoError(t, err)
	inner, err := st.Enter(innerSession)
	require.NoError(t, err)
	require.True(t, (*conns)[0].closed, "the outer stream closes while shadowed")

	require.NoError(t, inner.Exit())
	require.True(t, (*conns)[1].closed)
	require.Equal(t, []string{"https://a.example", "https://b.example", "https://a.example"}, *dialed,
		"exiting must dial the surrounding endpoint afresh")

	logger.Info("back on the outer monitor")
	require.Len(t, (*conns)[2].events, 1)

	require.NoError(t, outer.Exit())
	require.True(t, (*conns)[2].closed)
}

func TestModule_DialFailureAbortsActivation(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	router := logging.NewRouter(io.Discard, "text")
	m := New(router)
	m.dial = func(string) (conn, error) {
		return nil, fmt.Errorf("connection refused")
	}
	reg := session.NewRegistry()
	require.NoError(t, m.Register(reg))
	st := session.NewStack(reg)
	s, err := session.NewSession(reg, map[string]any{ItemName: "https://down.example"})
	require.NoError(t, err)

	// --- Act ---
	_, err = st.Enter(s)

	// --- Assert ---
	require.ErrorContains(t, err, "monitor: connecting to https://down.example")
	require.ErrorContains(t, err, "connection refused")
	require.Equal(t, 0, st.Depth())
}

func TestDialSocketIO_RejectsUnusableEndpoints(t *testing.T) {
	t.Parallel()

	// --- Act / Assert ---
	_, err := dialSocketIO("dashboard")
	require.ErrorContains(t, err, "needs a scheme and host")

	_, err = dialSocketIO("http://%zz")
	require.ErrorContains(t, err, "parsing endpoint URL")
}

package loglevel

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/session"
)

func newTestStack(t *testing.T) (*session.Stack, *logging.Router) {
	t.Helper()
	router := logging.NewRouter(io.Discard, "text")
	reg := session.NewRegistry()
	require.NoError(t, New(router).Register(reg))
	return session.NewStack(reg), router
}

func TestModule_DrivesTheSharedLevel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st, router := newTestStack(t)
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: int(slog.LevelDebug)})
	require.NoError(t, err)

	// --- Act / Assert ---
	require.Equal(t, slog.LevelInfo, router.Level(), "an untouched process logs at Info")

	active, err := st.Enter(s)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, router.Level())

	require.NoError(t, active.Exit())
	require.Equal(t, slog.LevelInfo, router.Level(), "deactivation must restore the surrounding level")
}

func TestModule_UnsetMeansInfo(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st, router := newTestStack(t)
	router.SetLevel(slog.LevelWarn)
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: session.Unset})
	require.NoError(t, err)

	// --- Act ---
	active, err := st.Enter(s)
	require.NoError(t, err)
	defer func() { require.NoError(t, active.Exit()) }()

	// --- Assert ---
	require.Equal(t, slog.LevelInfo, router.Level())
}

func TestModule_RejectsNonIntLevels(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st, router := newTestStack(t)
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: "debug"})
	require.NoError(t, err)

	// --- Act ---
	_, err = st.Enter(s)

	// --- Assert ---
	require.ErrorContains(t, err, "expected int")
	require.Equal(t, 0, st.Depth(), "a failed setter must abort the activation")
	require.Equal(t, slog.LevelInfo, router.Level())
}

package savepath

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stweave/stweave/internal/session"
)

func newTestStack(t *testing.T) *session.Stack {
	t.Helper()
	reg := session.NewRegistry()
	require.NoError(t, New().Register(reg))
	return session.NewStack(reg)
}

func TestResolve_UnconfiguredByDefault(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := newTestStack(t)

	// --- Act ---
	_, ok := Resolve(st)

	// --- Assert ---
	require.False(t, ok, "no artifacts may be written before a save path is pinned")
}

func TestResolve_JoinsOntoTheEffectiveBase(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := newTestStack(t)
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: "/data/run-1"})
	require.NoError(t, err)

	// --- Act ---
	err = st.Within(func() error {
		base, ok := Resolve(st)
		require.True(t, ok)
		require.Equal(t, "/data/run-1", base)

		nested, ok := Resolve(st, "checkpoints", "epoch-000001")
		require.True(t, ok)
		require.Equal(t, filepath.Join("/data/run-1", "checkpoints", "epoch-000001"), nested)
		return nil
	}, s)

	// --- Assert ---
	require.NoError(t, err)
}

func TestModule_ReadsComeBackClean(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := newTestStack(t)
	s, err := session.NewSession(st.Registry(), map[string]any{ItemName: "/data//run-1/"})
	require.NoError(t, err)

	// --- Act ---
	err = st.Within(func() error {
		base, ok := Resolve(st)
		require.True(t, ok)
		require.Equal(t, "/data/run-1", base, "paths are cleaned on read")
		return nil
	}, s)
	require.NoError(t, err)

	// --- Assert ---
	snap := st.Snapshot()
	require.Equal(t, 0, snap.Len(), "nothing is pinned once the session exits")
}

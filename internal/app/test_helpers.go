package app

import (
	"os"
	"testing"

	"github.com/stweave/stweave/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing, with its log
// output captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	validated, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	testApp := NewApp(logBuffer, validated)

	t.Cleanup(func() {
		if os.Getenv("STWEAVE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/presente/internal/config"
	"github.com/roach88/presente/internal/testutil"
)

var start = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestOptions returns options bound to a fresh database, a manual clock
// at start and ids rec-0001, rec-0002, ...
func newTestOptions(t *testing.T) *RootOptions {
	t.Helper()
	return newTestOptionsWithClock(t, testutil.NewManualClock(start))
}

func newTestOptionsWithClock(t *testing.T, clock *testutil.ManualClock) *RootOptions {
	t.Helper()
	return &RootOptions{
		Config: &config.Config{
			DBPath:         filepath.Join(t.TempDir(), "presente.db"),
			Timezone:       "UTC",
			RemindSchedule: "0 9 * * *",
			LLM:            config.LLM{Provider: config.ProviderOpenAI, Timeout: time.Second},
		},
		Now: clock.Now,
		IDs: testutil.NewSequenceIDs("rec"),
	}
}

// run executes the CLI with args and returns its output and exit code.
func run(t *testing.T, opts *RootOptions, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(t.Context(), opts, args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), code
}

// mustRun executes the CLI and fails the test on a non-zero exit code.
func mustRun(t *testing.T, opts *RootOptions, args ...string) string {
	t.Helper()
	stdout, stderr, code := run(t, opts, "", args...)
	require.Equal(t, ExitSuccess, code, "stderr: %s", stderr)
	return stdout
}

// decodeData runs a json-format command and decodes its data payload.
func decodeData[T any](t *testing.T, opts *RootOptions, args ...string) T {
	t.Helper()
	stdout := mustRun(t, opts, append([]string{"--format", "json"}, args...)...)
	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func addLog(t *testing.T, opts *RootOptions, situation string, anxiety int) {
	t.Helper()
	mustRun(t, opts, "log", "add",
		"--situation", situation,
		"--thoughts", "Van a juzgarme",
		"--feelings", "Nervios",
		"--actions", "Respiré hondo",
		"--anxiety", strconv.Itoa(anxiety),
	)
}

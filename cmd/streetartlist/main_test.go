package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"streetartlist/internal/config"
	appLog "streetartlist/internal/log"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	appLog.SetOutput(io.Discard)
	t.Cleanup(func() { appLog.SetOutput(os.Stderr) })

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"streetartlist"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestRangeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"same month", []string{"range", "2025-06-01", "2025-06-07"}, "June 1-7 (2025)\n"},
		{"cross month mobile", []string{"range", "--device", "mobile", "2025-06-28", "2025-07-02"}, "June 28 - Jul 2, 2025\n"},
		{"start only", []string{"range", "2025-09-01"}, "By Sept 1 (2025)\n"},
		{"ongoing", []string{"range", "--format", "ongoing", "2025-06-01"}, "Ongoing\n"},
		{"seasons", []string{"range", "Summer 2025", "Fall 2025"}, "Summer - Fall 2025\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRangeCommand_Usage(t *testing.T) {
	_, err := runApp(t, "range")
	assert.Equal(t, ExitUsageError, exitCode(err))

	_, err = runApp(t, "range", "--zone", "Local", "2025-06-01")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestDeadlineCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"full", []string{"deadline", "--tz", "America/New_York", "2025-06-15T23:59:59Z"}, "June 15th, 2025 @ 7:59pm (EDT)\n"},
		{"recap", []string{"deadline", "--tz", "America/New_York", "--recap", "2025-06-15T23:59:59Z"}, "June 15th, 2025 @ 7:59pm\n"},
		{"preview mobile", []string{"deadline", "--preview", "--screen", "mobile", "2025-09-02T16:30:00Z"}, "Sep 2nd\n"},
		{"rolling", []string{"deadline", "--type", "rolling"}, "Rolling Open Call\n"},
		{"missing", []string{"deadline"}, "Unknown Deadline\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLogLevelFlag(t *testing.T) {
	_, err := runApp(t, "--log-level", "loud", "deadline")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func writeFeedConfig(t *testing.T) string {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "internal", "ics", "testdata", "listings.ics"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.Feeds = []config.FeedConfig{{ID: "test", URL: srv.URL + "/listings.ics"}}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func TestExportCommand(t *testing.T) {
	path := writeFeedConfig(t)

	out, err := runApp(t, "--config", path, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "UID:deadline-wall-jam-2025")
	assert.NotContains(t, out, "deadline-mural-fest")
}

func TestRecapCommand(t *testing.T) {
	path := writeFeedConfig(t)

	out, err := runApp(t, "--config", path, "recap", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Open calls closing ")

	_, err = runApp(t, "--config", path, "recap", "--days", "0")
	assert.Equal(t, ExitUsageError, exitCode(err))

	_, err = runApp(t, "--config", path, "recap", "--days", "1000000000")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestExportCommand_NoFeedsReachable(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.Feeds = []config.FeedConfig{{ID: "down", URL: "http://127.0.0.1:1/listings.ics"}}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))

	_, err := runApp(t, "--config", path, "export")
	assert.Equal(t, ExitDataError, exitCode(err))
}

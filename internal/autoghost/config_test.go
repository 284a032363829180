package autoghost

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autoghost.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
enabled = true
blacklist = ["addr1", "addr2"]
min_sleep = "2m"
sleep_jitter = "0s"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.Enabled)
	require.Equal(t, []string{"addr1", "addr2"}, cfg.Blacklist)
	require.Equal(t, Duration(2*time.Minute), cfg.MinSleep)
	require.Zero(t, cfg.SleepJitter)

	// unset keys keep their defaults
	require.Equal(t, DefaultConfig.ImportWait, cfg.ImportWait)
	require.Equal(t, DefaultConfig.LockedWait, cfg.LockedWait)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `min_sleep = "soon"`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `sleep = "1s"`))
	require.ErrorContains(t, err, "unknown keys")

	_, err = LoadConfig(writeConfig(t, `locked_wait = "-1s"`))
	require.ErrorContains(t, err, "locked_wait is negative")
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	require.Equal(t, Duration(90*time.Second), d)

	b, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(b))
}

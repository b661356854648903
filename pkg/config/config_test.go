package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedtest-bridge/pkg/config"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	return cmd
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "config.json", cfg.Upstream.ConfigPath)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigWithCliDefaults(t *testing.T) {
	cfg, err := config.LoadConfigWithCli(newTestCmd())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
}

func TestLoadConfigWithCliYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  addr: \"127.0.0.1:9100\"\nupstream:\n  config_path: \"/etc/bridge/config.json\"\nlog:\n  level: \"debug\"\n",
	), 0644))

	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, err := config.LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Addr)
	assert.Equal(t, "/etc/bridge/config.json", cfg.Upstream.ConfigPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigWithCliMissingFile(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", "/nonexistent/config.yaml"))

	_, err := config.LoadConfigWithCli(cmd)
	assert.Error(t, err)
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9123")

	cfg, err := config.LoadConfigWithCli(newTestCmd())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9123", cfg.Server.Addr)
}

func TestPortEnvOverrideInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	// 端口非法在校验阶段暴露
	_, err := config.LoadConfigWithCli(newTestCmd())
	assert.Error(t, err)
}

func TestOverridePort(t *testing.T) {
	s := &config.ServerConfig{Addr: "0.0.0.0:8000"}
	require.NoError(t, s.OverridePort("9000"))
	assert.Equal(t, "0.0.0.0:9000", s.Addr)

	s = &config.ServerConfig{Addr: ":8000"}
	require.NoError(t, s.OverridePort("9000"))
	assert.Equal(t, ":9000", s.Addr)

	s = &config.ServerConfig{Addr: "garbage"}
	assert.Error(t, s.OverridePort("9000"))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Server.Addr = "no-port-here"
	assert.Error(t, cfg.Validate())

	cfg = config.NewDefaultConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = config.NewDefaultConfig()
	cfg.Upstream.ConfigPath = ""
	assert.Error(t, cfg.Validate())
}

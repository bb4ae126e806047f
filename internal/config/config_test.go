package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SublimeIbanez/Overseer/internal/walker"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Watch:  WatchConfig{Strategy: "concurrent"},
		Server: ServerConfig{Port: "8080"},
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("OVERSEER_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "OVERSEER_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "OVERSEER_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "OVERSEER_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes uppercase", "YES", false, true},
		{"false", "false", true, false},
		{"garbage", "banana", true, false},
		{"empty uses default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "OVERSEER_TEST_MISSING", tt.fallback))
		})
	}
}

func TestSplitNames(t *testing.T) {
	assert.Nil(t, splitNames(""))
	assert.Equal(t, []string{"node_modules", "target"}, splitNames("node_modules,target"))
	assert.Equal(t, []string{"a", "b"}, splitNames(" a , , b ,"))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = expandPath("/a/b/../c", "")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = expandPath("~/x", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)

	got, err = expandPath("rel", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.App.Environment = "testing"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Watch.Strategy = "parallel"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.App.Once = true
	c.Watch.Daemonize = true
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Server.Port = ""
	assert.Error(t, c.Validate())
}

func TestWalkStrategy(t *testing.T) {
	c := validConfig()
	assert.Equal(t, walker.Concurrent, c.WalkStrategy())

	c.Watch.Strategy = "iterative"
	assert.Equal(t, walker.Iterative, c.WalkStrategy())
}

func TestExpandPaths_Defaults(t *testing.T) {
	root := t.TempDir()
	c := validConfig()
	c.Watch.RootPath = root

	require.NoError(t, c.expandPaths())
	assert.Equal(t, filepath.Join(root, "watch.log"), c.Watch.ChangeLogPath)
	assert.Empty(t, c.HistoryPath())
	assert.Empty(t, c.SearchPath())
}

func TestDataPaths(t *testing.T) {
	c := validConfig()
	c.Data.Path = "/var/lib/overseer"
	assert.Equal(t, "/var/lib/overseer/history", c.HistoryPath())
	assert.Equal(t, "/var/lib/overseer/search.bleve", c.SearchPath())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		"# comment\n\nOVERSEER_TEST_ENVFILE=hello\nOVERSEER_TEST_QUOTED=\"world\"\n"), 0o644))

	t.Setenv("OVERSEER_TEST_ENVFILE", "")
	t.Setenv("OVERSEER_TEST_QUOTED", "")
	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("OVERSEER_TEST_ENVFILE"))
	assert.Equal(t, "world", os.Getenv("OVERSEER_TEST_QUOTED"))
}

func TestLoadEnvFile_EnvVarWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OVERSEER_TEST_WINNER=file\n"), 0o644))

	t.Setenv("OVERSEER_TEST_WINNER", "env")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("OVERSEER_TEST_WINNER"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A PAIR\n"), 0o644))

	assert.Error(t, loadEnvFile(envPath))
}

// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SublimeIbanez/Overseer/internal/walker"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Watch  WatchConfig
	Data   DataConfig
	Server ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// Once walks the root, prints the tree, saves the sidecar and exits.
	Once bool
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// WatchConfig holds the watched root and watch loop configuration.
type WatchConfig struct {
	// RootPath is the directory to mirror. Empty means the current
	// working directory.
	RootPath string
	// IgnoreHidden prunes dot-prefixed entries from walks.
	IgnoreHidden bool
	// IgnoreNames are bare names pruned at every depth.
	IgnoreNames []string
	// Strategy selects the walk strategy (sequential, concurrent, iterative).
	Strategy string
	// ChangeLogPath is the event log file (default: {root}/watch.log).
	ChangeLogPath string
	// Daemonize detaches the watch loop from the terminal.
	Daemonize bool
}

// DataConfig holds storage configuration for history and search.
type DataConfig struct {
	// Path is the directory for the history db and search index. Empty
	// keeps both in memory.
	Path string
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Enabled      bool
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	rootPath := flag.String("root", "", "Directory to watch (default: current directory)")
	ignoreHidden := flag.String("ignore-hidden", "", "Prune hidden entries from walks (default: true)")
	ignoreNames := flag.String("ignore", "", "Comma-separated names to prune at every depth")
	strategy := flag.String("strategy", "", "Walk strategy: sequential, concurrent, iterative (default: concurrent)")
	changeLogPath := flag.String("change-log", "", "Event log file (default: {root}/watch.log)")

	once := flag.Bool("once", false, "Walk once, print the tree, save the snapshot and exit")
	daemonize := flag.Bool("daemon", false, "Detach the watch loop from the terminal")

	dataPath := flag.String("data-path", "", "Directory for history db and search index (default: in-memory)")

	serve := flag.String("serve", "", "Expose the HTTP API (default: false)")
	serverPort := flag.String("port", "", "HTTP port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Once:        *once,
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Watch: WatchConfig{
			RootPath:      getConfigValue(*rootPath, "WATCH_ROOT", ""),
			IgnoreHidden:  getBoolConfigValue(*ignoreHidden, "IGNORE_HIDDEN", true),
			IgnoreNames:   splitNames(getConfigValue(*ignoreNames, "IGNORE_NAMES", "")),
			Strategy:      getConfigValue(*strategy, "WALK_STRATEGY", "concurrent"),
			ChangeLogPath: getConfigValue(*changeLogPath, "CHANGE_LOG_PATH", ""),
			Daemonize:     *daemonize || getBoolConfigValue("", "DAEMONIZE", false),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Enabled: getBoolConfigValue(*serve, "SERVE", false),
			Port:    getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
	}

	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if _, err := walker.ParseStrategy(c.Watch.Strategy); err != nil {
		return fmt.Errorf("invalid walk strategy: %s (must be sequential, concurrent, or iterative)", c.Watch.Strategy)
	}

	if c.App.Once && c.Watch.Daemonize {
		return errors.New("once and daemon modes are mutually exclusive")
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}

	return nil
}

// WalkStrategy returns the parsed walk strategy. Call after Validate.
func (c *Config) WalkStrategy() walker.Strategy {
	s, _ := walker.ParseStrategy(c.Watch.Strategy)
	return s
}

// expandPaths makes all configured paths absolute and fills path defaults
// that hang off the root.
func (c *Config) expandPaths() error {
	if c.Watch.RootPath != "" {
		expanded, err := expandPath(c.Watch.RootPath, "")
		if err != nil {
			return fmt.Errorf("invalid root path: %w", err)
		}
		c.Watch.RootPath = expanded
	}

	root := c.Watch.RootPath
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	expanded, err := expandPath(c.Watch.ChangeLogPath, filepath.Join(root, "watch.log"))
	if err != nil {
		return fmt.Errorf("invalid change log path: %w", err)
	}
	c.Watch.ChangeLogPath = expanded

	if c.Data.Path != "" {
		expanded, err := expandPath(c.Data.Path, "")
		if err != nil {
			return fmt.Errorf("invalid data path: %w", err)
		}
		c.Data.Path = expanded
	}

	return nil
}

// HistoryPath returns the history db directory, or "" for in-memory.
func (c *Config) HistoryPath() string {
	if c.Data.Path == "" {
		return ""
	}
	return filepath.Join(c.Data.Path, "history")
}

// SearchPath returns the search index directory, or "" for in-memory.
func (c *Config) SearchPath() string {
	if c.Data.Path == "" {
		return ""
	}
	return filepath.Join(c.Data.Path, "search.bleve")
}

// splitNames splits a comma-separated list, dropping empty segments.
func splitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}

// Package config loads the process configuration from the environment and
// an optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names.
const (
	EnvNeo4jURI        = "NEO4J_URI"
	EnvNeo4jUsername   = "NEO4J_USERNAME"
	EnvNeo4jPassword   = "NEO4J_PASSWORD"
	EnvNeo4jDatabase   = "NEO4J_DATABASE"
	EnvNeo4jPoolSize   = "NEO4J_MAX_POOL_SIZE"
	EnvPort            = "PORT"
	EnvStaticDir       = "STATIC_DIR"
	EnvLookupEndpoints = "LOOKUP_ENDPOINTS"
	EnvAllowRawQueries = "ALLOW_RAW_QUERIES"
	EnvQueryTimeout    = "QUERY_TIMEOUT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// ConnectionSettings are the database coordinates relayed to the browser.
// They are read once at startup and never change afterwards.
type ConnectionSettings struct {
	URI      string `json:"NEO4J_URI"`
	Username string `json:"NEO4J_USERNAME"`
	Password string `json:"NEO4J_PASSWORD"`
}

// Config is the complete process configuration.
type Config struct {
	Connection      ConnectionSettings
	Database        string
	MaxPoolSize     int
	Port            string
	StaticDir       string
	LookupEndpoints bool
	AllowRawQueries bool
	QueryTimeout    time.Duration
	LogLevel        string
	LogFormat       string
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func defaults(v *viper.Viper) {
	v.SetDefault(EnvNeo4jDatabase, "neo4j")
	v.SetDefault(EnvNeo4jPoolSize, 0)
	v.SetDefault(EnvPort, "3000")
	v.SetDefault(EnvStaticDir, "app")
	v.SetDefault(EnvLookupEndpoints, true)
	v.SetDefault(EnvAllowRawQueries, true)
	v.SetDefault(EnvQueryTimeout, 15*time.Second)
	v.SetDefault(EnvLogLevel, "info")
	v.SetDefault(EnvLogFormat, "json")
}

// Load reads envFile when it exists and overlays the process environment.
// An empty envFile skips the file. Connection values are not validated: an
// unset NEO4J_URI is relayed as an empty string and fails at connect time.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	defaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
			}
			slog.Debug("No env file found, using process environment", "path", envFile)
		}
	}

	for _, key := range []string{
		EnvNeo4jURI, EnvNeo4jUsername, EnvNeo4jPassword, EnvNeo4jDatabase, EnvNeo4jPoolSize,
		EnvPort, EnvStaticDir, EnvLookupEndpoints, EnvAllowRawQueries, EnvQueryTimeout,
		EnvLogLevel, EnvLogFormat,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{
		Connection: ConnectionSettings{
			URI:      v.GetString(EnvNeo4jURI),
			Username: v.GetString(EnvNeo4jUsername),
			Password: v.GetString(EnvNeo4jPassword),
		},
		Database:        v.GetString(EnvNeo4jDatabase),
		MaxPoolSize:     v.GetInt(EnvNeo4jPoolSize),
		Port:            strings.TrimPrefix(v.GetString(EnvPort), ":"),
		StaticDir:       v.GetString(EnvStaticDir),
		LookupEndpoints: v.GetBool(EnvLookupEndpoints),
		AllowRawQueries: v.GetBool(EnvAllowRawQueries),
		QueryTimeout:    v.GetDuration(EnvQueryTimeout),
		LogLevel:        strings.ToLower(v.GetString(EnvLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(EnvLogFormat)),
	}
	return cfg, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

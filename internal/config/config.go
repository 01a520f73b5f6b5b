// Package config provides configuration management for the Resumax backend.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"resumax/internal/logger"
	"resumax/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "resumax-config.json"
	// EnvListenAddr is the environment variable overriding the HTTP listen address
	EnvListenAddr = "RESUMAX_ADDR"
	// DefaultListenAddr is the default HTTP listen address
	DefaultListenAddr = "127.0.0.1:54782"
	// DefaultCompiler is the default LaTeX compiler
	DefaultCompiler = "pdflatex"
	// DefaultCompileTimeoutSec is the default per-pass compile timeout in seconds
	DefaultCompileTimeoutSec = 60
	// DefaultLogFileName is the default log file name
	DefaultLogFileName = "resumax.log"
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a Manager with the specified config path. If
// configPath is empty, it uses the default path in the user's home
// directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "resumax", DefaultConfigFileName)
	}

	logger.Info("config manager initialized", logger.String("configPath", configPath))
	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		ListenAddr:        DefaultListenAddr,
		DefaultCompiler:   DefaultCompiler,
		CompileTimeoutSec: DefaultCompileTimeoutSec,
		LogFilePath:       DefaultLogFileName,
		LogLevel:          "info",
	}
}

// Load loads configuration from the config file. If the file doesn't
// exist or is malformed, defaults are used. The listen address can be
// overridden via environment variable.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("listenAddr", config.ListenAddr),
				logger.String("compiler", config.DefaultCompiler))
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.ListenAddr == "" {
		m.config.ListenAddr = DefaultListenAddr
	}
	if m.config.DefaultCompiler == "" {
		m.config.DefaultCompiler = DefaultCompiler
	}
	if m.config.CompileTimeoutSec == 0 {
		m.config.CompileTimeoutSec = DefaultCompileTimeoutSec
	}
	if m.config.LogFilePath == "" {
		m.config.LogFilePath = DefaultLogFileName
	}
	if m.config.LogLevel == "" {
		m.config.LogLevel = "info"
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *Manager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetListenAddr returns the HTTP listen address. The environment
// variable takes precedence over the config file value.
func (m *Manager) GetListenAddr() string {
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		return addr
	}
	if m.config != nil && m.config.ListenAddr != "" {
		return m.config.ListenAddr
	}
	return DefaultListenAddr
}

// GetDefaultCompiler returns the default LaTeX compiler.
func (m *Manager) GetDefaultCompiler() string {
	if m.config != nil && m.config.DefaultCompiler != "" {
		return m.config.DefaultCompiler
	}
	return DefaultCompiler
}

// GetCompileTimeoutSec returns the per-pass compile timeout in seconds.
func (m *Manager) GetCompileTimeoutSec() int {
	if m.config != nil && m.config.CompileTimeoutSec > 0 {
		return m.config.CompileTimeoutSec
	}
	return DefaultCompileTimeoutSec
}

// GetLookbackOverrides returns the per-format item lookback overrides
// keyed by format id.
func (m *Manager) GetLookbackOverrides() map[types.FormatID]int {
	if m.config == nil || len(m.config.LookbackOverrides) == 0 {
		return nil
	}
	overrides := make(map[types.FormatID]int, len(m.config.LookbackOverrides))
	for id, lookback := range m.config.LookbackOverrides {
		if lookback > 0 {
			overrides[types.FormatID(id)] = lookback
		}
	}
	return overrides
}

// GetWorkDirectory returns the compile work directory.
func (m *Manager) GetWorkDirectory() string {
	if m.config != nil {
		return m.config.WorkDirectory
	}
	return ""
}

// GetDebugDirectory returns the brace-mismatch artifact directory.
func (m *Manager) GetDebugDirectory() string {
	if m.config != nil {
		return m.config.DebugDirectory
	}
	return ""
}

/*
Package config manages TOML config for the pinyinserve decoder engine.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kxchu/pinyinserve/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Decoder DecoderConfig `toml:"decoder"`
	History HistoryConfig `toml:"history"`
	Fuzzy   FuzzyConfig   `toml:"fuzzy"`
	Server  ServerConfig  `toml:"server"`
}

// DecoderConfig has lattice-decoder tuning options.
type DecoderConfig struct {
	BeamWidth  int     `toml:"beam_width"`
	Candidates int     `toml:"candidates"`
	LMWeight   float64 `toml:"lm_weight"`
	HistWeight float64 `toml:"hist_weight"`
}

// HistoryConfig configures the persisted history bigram.
type HistoryConfig struct {
	FilePath     string  `toml:"file_path"`
	UnknownFloor float64 `toml:"unknown_floor"`
}

// FuzzyConfig lists the fuzzy-flag names enabled by default; see
// pkg/pinyin for the recognized names.
type FuzzyConfig struct {
	DefaultFlags []string `toml:"default_flags"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	SocketPath string `toml:"socket_path"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "pinyinserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "pinyinserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/pinyinserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	configDir, err := GetConfigDir()
	historyPath := "history.bin"
	if err == nil {
		historyPath = filepath.Join(configDir, "history.bin")
	}
	return &Config{
		Decoder: DecoderConfig{
			BeamWidth:  20,
			Candidates: 5,
			LMWeight:   1,
			HistWeight: 1,
		},
		History: HistoryConfig{
			FilePath:     historyPath,
			UnknownFloor: -5,
		},
		Fuzzy: FuzzyConfig{
			DefaultFlags: nil,
		},
		Server: ServerConfig{
			SocketPath: "",
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file section by section.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if decoderSection, ok := utils.ExtractSection(tempConfig, "decoder"); ok {
		extractDecoderConfig(decoderSection, &config.Decoder)
	}
	if historySection, ok := utils.ExtractSection(tempConfig, "history"); ok {
		extractHistoryConfig(historySection, &config.History)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	return config, nil
}

func extractDecoderConfig(data map[string]any, decoder *DecoderConfig) {
	if val, ok := utils.ExtractInt64(data, "beam_width"); ok {
		decoder.BeamWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "candidates"); ok {
		decoder.Candidates = val
	}
}

func extractHistoryConfig(data map[string]any, history *HistoryConfig) {
	if val, ok := data["file_path"].(string); ok {
		history.FilePath = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := data["socket_path"].(string); ok {
		server.SocketPath = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file.
func (c *Config) Update(configPath string, beamWidth, candidates *int) error {
	if beamWidth != nil {
		c.Decoder.BeamWidth = *beamWidth
	}
	if candidates != nil {
		c.Decoder.Candidates = *candidates
	}
	return SaveConfig(c, configPath)
}

// FuzzyFlagNames returns the configured default flag names joined for
// display/debugging.
func (c *Config) FuzzyFlagNames() string {
	return strings.Join(c.Fuzzy.DefaultFlags, ",")
}

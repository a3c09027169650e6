package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config captures where the analysis service lives and where codelens keeps
// its files.
type Config struct {
	APIURL         string
	ExtractPath    string
	AnalyzePath    string
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
	LogFile        string
	StartDir       string
	ReportDir      string
}

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "CODELENS_API_URL"

const (
	appName = "codelens"

	defaultAPIURL         = "http://localhost:5000"
	defaultUploadPath     = "/upload"
	defaultProbeTimeout   = 3 * time.Second
	defaultRequestTimeout = 60 * time.Second
)

type rawConfig struct {
	APIURL         string `toml:"api_url" yaml:"api_url"`
	ExtractPath    string `toml:"extract_path" yaml:"extract_path"`
	AnalyzePath    string `toml:"analyze_path" yaml:"analyze_path"`
	ProbeTimeout   string `toml:"probe_timeout" yaml:"probe_timeout"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout"`
	LogFile        string `toml:"log_file" yaml:"log_file"`
	StartDir       string `toml:"start_dir" yaml:"start_dir"`
	ReportDir      string `toml:"report_dir" yaml:"report_dir"`
}

// DefaultPath returns $XDG_CONFIG_HOME/codelens/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	cfg := Config{
		APIURL:         defaultAPIURL,
		ExtractPath:    defaultUploadPath,
		AnalyzePath:    defaultUploadPath,
		ProbeTimeout:   defaultProbeTimeout,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        filepath.Join(xdg.StateHome, appName, appName+".log"),
		ReportDir:      filepath.Join(xdg.DataHome, appName, "reports"),
	}
	if wd, err := os.Getwd(); err == nil {
		cfg.StartDir = wd
	}
	return cfg
}

// Load reads the config at path, falling back to defaults when the file is
// missing. Files ending in .yaml or .yml are parsed as YAML, anything else
// as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := unmarshal(resolved, bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := merge(&cfg, raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)

	return cfg, nil
}

func unmarshal(path string, data []byte, raw *rawConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, raw)
	default:
		return toml.Unmarshal(data, raw)
	}
}

func merge(cfg *Config, raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.ExtractPath); v != "" {
		cfg.ExtractPath = v
	}
	if v := strings.TrimSpace(raw.AnalyzePath); v != "" {
		cfg.AnalyzePath = v
	}

	var err error
	if cfg.ProbeTimeout, err = parseDuration("probe_timeout", raw.ProbeTimeout, cfg.ProbeTimeout); err != nil {
		return err
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return err
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.StartDir); v != "" {
		cfg.StartDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ReportDir); v != "" {
		cfg.ReportDir = mustExpand(v)
	}
	return nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Package config loads voxcraft settings from defaults, an optional YAML file,
// .env files and the environment, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Render   RenderConfig   `yaml:"render"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Log      LogConfig      `yaml:"log"`
	Sentry   SentryConfig   `yaml:"sentry"`
	Tray     bool           `yaml:"tray"`

	// Sources lists where values were loaded from, lowest priority first.
	Sources []string `yaml:"-"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	// AllowedOrigins enables CORS for a separately served UI.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
	// DBPath defaults to voxcraft.db inside Dir.
	DBPath string `yaml:"db_path"`
}

type CameraConfig struct {
	DeviceID      int  `yaml:"device_id"`
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	FPS           int  `yaml:"fps"`
	Mirror        bool `yaml:"mirror"`
	ActiveOnStart bool `yaml:"active_on_start"`
}

type DetectorConfig struct {
	ScriptPath            string  `yaml:"script_path"`
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
}

type RenderConfig struct {
	FPS      int           `yaml:"fps"`
	Cooldown time.Duration `yaml:"cooldown"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := ".voxcraft"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".voxcraft")
	}

	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Data:   DataConfig{Dir: dir},
		Camera: CameraConfig{
			Width:         640,
			Height:        480,
			FPS:           30,
			ActiveOnStart: true,
		},
		Detector: DetectorConfig{
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Render: RenderConfig{
			FPS:      60,
			Cooldown: 400 * time.Millisecond,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-3-pro-preview",
			Timeout: 90 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Options controls where Load looks for settings.
type Options struct {
	// File is a YAML file. It must exist when set.
	File string
	// EnvFiles are dotenv files; missing ones are skipped.
	EnvFiles []string
	// LookupEnv reads the process environment when nil.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration and validates it.
func Load(opts Options) (*Config, error) {
	cfg := Default()
	cfg.Sources = []string{"defaults"}

	if opts.File != "" {
		if err := loadYAML(opts.File, cfg); err != nil {
			return nil, err
		}
		cfg.Sources = append(cfg.Sources, opts.File)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv := make(map[string]string)
	for _, f := range opts.EnvFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
		cfg.Sources = append(cfg.Sources, f)
	}

	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}
	cfg.Sources = append(cfg.Sources, "environment")

	if cfg.Data.DBPath == "" {
		cfg.Data.DBPath = filepath.Join(cfg.Data.Dir, "voxcraft.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v, ok := env(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := env(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := env(key); ok && v != "" {
			var out []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			*dst = out
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := env(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("VOXCRAFT_ADDR", &cfg.Server.Addr)
	str("VOXCRAFT_STATIC_DIR", &cfg.Server.StaticDir)
	list("VOXCRAFT_ALLOWED_ORIGINS", &cfg.Server.AllowedOrigins)
	str("VOXCRAFT_DATA_DIR", &cfg.Data.Dir)
	str("VOXCRAFT_DB_PATH", &cfg.Data.DBPath)
	num("VOXCRAFT_CAMERA_DEVICE", &cfg.Camera.DeviceID)
	num("VOXCRAFT_CAMERA_FPS", &cfg.Camera.FPS)
	flag("VOXCRAFT_CAMERA_MIRROR", &cfg.Camera.Mirror)
	flag("VOXCRAFT_CAMERA_ACTIVE", &cfg.Camera.ActiveOnStart)
	str("VOXCRAFT_MEDIAPIPE_SCRIPT", &cfg.Detector.ScriptPath)
	num("VOXCRAFT_RENDER_FPS", &cfg.Render.FPS)
	dur("VOXCRAFT_PLACE_COOLDOWN", &cfg.Render.Cooldown)
	str("API_KEY", &cfg.Gemini.APIKey)
	str("GEMINI_API_KEY", &cfg.Gemini.APIKey)
	str("VOXCRAFT_GEMINI_MODEL", &cfg.Gemini.Model)
	str("VOXCRAFT_GEMINI_URL", &cfg.Gemini.BaseURL)
	dur("VOXCRAFT_GEMINI_TIMEOUT", &cfg.Gemini.Timeout)
	str("VOXCRAFT_LOG_LEVEL", &cfg.Log.Level)
	flag("VOXCRAFT_LOG_DEV", &cfg.Log.Development)
	str("SENTRY_DSN", &cfg.Sentry.DSN)
	str("SENTRY_ENVIRONMENT", &cfg.Sentry.Environment)
	flag("VOXCRAFT_TRAY", &cfg.Tray)

	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS))
	}
	if c.Render.Cooldown <= 0 {
		errs = append(errs, fmt.Errorf("render.cooldown must be positive, got %s", c.Render.Cooldown))
	}
	if c.Camera.FPS <= 0 {
		errs = append(errs, fmt.Errorf("camera.fps must be positive, got %d", c.Camera.FPS))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("gemini.timeout must be positive, got %s", c.Gemini.Timeout))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// GenerationEnabled reports whether a Gemini key is configured.
func (c *Config) GenerationEnabled() bool {
	return c.Gemini.APIKey != ""
}

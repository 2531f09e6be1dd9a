package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroidfield/internal/field"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config is the full configuration shared by all commands.
type Config struct {
	Field  field.Params `toml:"field"`
	Render Render       `toml:"render"`
	Page   Page         `toml:"page"`
	SSH    SSH          `toml:"ssh"`
	Web    Web          `toml:"web"`
	Log    Log          `toml:"log"`
}

// Render configures the terminal frame loop.
type Render struct {
	FPS        int     `toml:"fps"`
	CellWidth  float64 `toml:"cell_width"`  // Logical pixels per terminal column
	CellHeight float64 `toml:"cell_height"` // Logical pixels per terminal row
	MaxCols    int     `toml:"max_cols"`    // Larger terminals get a centered, bordered area
	MaxRows    int     `toml:"max_rows"`
	Seed       int64   `toml:"seed"` // 0 picks a seed from the clock
	Mouse      bool    `toml:"mouse"`
}

// FrameTime returns the target duration of one frame.
func (r Render) FrameTime() time.Duration {
	return time.Second / time.Duration(r.FPS)
}

// Page configures the virtual document scrolled by the viewer.
type Page struct {
	Screens     float64 `toml:"screens"`      // Document height in viewport heights
	HeroScreens float64 `toml:"hero_screens"` // Hero section height in viewport heights
	Title       string  `toml:"title"`
	Subtitle    string  `toml:"subtitle"`
}

// SSH configures the SSH server.
type SSH struct {
	Host                 string        `toml:"host"`
	Port                 string        `toml:"port"`
	HostKeyPath          string        `toml:"host_key_path"`
	MaxSessions          int           `toml:"max_sessions"`
	InactivityWarn       time.Duration `toml:"inactivity_warn"`
	InactivityDisconnect time.Duration `toml:"inactivity_disconnect"`
	ShutdownNotice       time.Duration `toml:"shutdown_notice"` // How long viewers see the shutdown message
	ShutdownGrace        time.Duration `toml:"shutdown_grace"`  // How long the server waits for viewers to leave
}

// Web configures the PNG snapshot server.
type Web struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // SSH host shown on the index page
	MaxWidth    int    `toml:"max_width"`
	MaxHeight   int    `toml:"max_height"`
	MaxFrames   int    `toml:"max_frames"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Field: field.DefaultParams(),
		Render: Render{
			FPS:        60,
			CellWidth:  8,
			CellHeight: 16,
			MaxCols:    240,
			MaxRows:    80,
			Mouse:      true,
		},
		Page: Page{
			Screens:     5,
			HeroScreens: 1,
			Title:       "A S T E R O I D   F I E L D",
			Subtitle:    "scroll to slow down, move the mouse to look around",
		},
		SSH: SSH{
			Host:                 "::",
			Port:                 "2222",
			HostKeyPath:          "/app/keys/host_key",
			MaxSessions:          64,
			InactivityWarn:       90 * time.Second,
			InactivityDisconnect: 120 * time.Second,
			ShutdownNotice:       10 * time.Second,
			ShutdownGrace:        15 * time.Second,
		},
		Web: Web{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
			MaxWidth:    1920,
			MaxHeight:   1080,
			MaxFrames:   600,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from defaults, the optional TOML file at path and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv() error {
	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)
	c.Web.Host = GetEnv("WEB_HOST", c.Web.Host)
	c.Web.Port = GetEnv("WEB_PORT", c.Web.Port)
	c.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", c.Web.DisplayHost)
	c.Log.Level = GetEnv("FIELD_LOG_LEVEL", c.Log.Level)

	if v := GetEnv("FIELD_FPS", ""); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: FIELD_FPS=%q: %v", ErrInvalid, v, err)
		}
		c.Render.FPS = fps
	}
	if v := GetEnv("FIELD_SEED", ""); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: FIELD_SEED=%q: %v", ErrInvalid, v, err)
		}
		c.Render.Seed = seed
	}
	if v := GetEnv("FIELD_POPULATION", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: FIELD_POPULATION=%q: %v", ErrInvalid, v, err)
		}
		c.Field.Population = n
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case c.Render.FPS <= 0 || c.Render.FPS > 240:
		return fmt.Errorf("%w: fps %d outside (0, 240]", ErrInvalid, c.Render.FPS)
	case c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %gx%g", ErrInvalid, c.Render.CellWidth, c.Render.CellHeight)
	case c.Render.MaxCols <= 0 || c.Render.MaxRows <= 0:
		return fmt.Errorf("%w: max render size %dx%d", ErrInvalid, c.Render.MaxCols, c.Render.MaxRows)
	case c.Page.Screens < 1:
		return fmt.Errorf("%w: page screens %g must be at least 1", ErrInvalid, c.Page.Screens)
	case c.Page.HeroScreens < 0:
		return fmt.Errorf("%w: hero screens %g is negative", ErrInvalid, c.Page.HeroScreens)
	case c.SSH.MaxSessions < 0:
		return fmt.Errorf("%w: max sessions %d is negative", ErrInvalid, c.SSH.MaxSessions)
	case c.SSH.InactivityDisconnect < c.SSH.InactivityWarn:
		return fmt.Errorf("%w: inactivity disconnect %s before warning %s", ErrInvalid,
			c.SSH.InactivityDisconnect, c.SSH.InactivityWarn)
	case c.Web.MaxWidth <= 0 || c.Web.MaxHeight <= 0 || c.Web.MaxFrames < 0:
		return fmt.Errorf("%w: web limits %dx%d frames %d", ErrInvalid,
			c.Web.MaxWidth, c.Web.MaxHeight, c.Web.MaxFrames)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// NewLogger creates the structured logger described by the Log section.
func (c *Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

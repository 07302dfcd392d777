// Package config loads vecviz settings from defaults, an optional YAML
// file, a .env file and VECVIZ_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
	"vecviz/internal/input"
	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/scene"
	"vecviz/internal/session"
)

const EnvPrefix = "VECVIZ"

// DotEnv is the .env file read by Load when it exists.
var DotEnv = ".env"

type Server struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type Scene struct {
	Unit          float64 `mapstructure:"unit" yaml:"unit"`
	Length        float64 `mapstructure:"length" yaml:"length"`
	AutoScale     bool    `mapstructure:"auto_scale" yaml:"auto_scale"`
	TickSpacing   float64 `mapstructure:"tick_spacing" yaml:"tick_spacing"`
	TickHalfWidth float64 `mapstructure:"tick_half_width" yaml:"tick_half_width"`

	// Vector and Matrix are the starting texts, in the same comma format
	// the user types.
	Vector string `mapstructure:"vector" yaml:"vector"`
	Matrix string `mapstructure:"matrix" yaml:"matrix"`
}

type Notify struct {
	Lifetime time.Duration `mapstructure:"lifetime" yaml:"lifetime"`
}

type Render struct {
	Width   int     `mapstructure:"width" yaml:"width"`
	Height  int     `mapstructure:"height" yaml:"height"`
	Frustum float64 `mapstructure:"frustum" yaml:"frustum"`
	Yaw     float64 `mapstructure:"yaw" yaml:"yaw"`
	Pitch   float64 `mapstructure:"pitch" yaml:"pitch"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Config struct {
	Server  Server         `mapstructure:"server" yaml:"server"`
	Scene   Scene          `mapstructure:"scene" yaml:"scene"`
	Display scene.Settings `mapstructure:"display" yaml:"display"`
	Notify  Notify         `mapstructure:"notify" yaml:"notify"`
	Render  Render         `mapstructure:"render" yaml:"render"`
	Log     Log            `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("scene.unit", scene.DefaultUnit)
	v.SetDefault("scene.length", scene.DefaultLength)
	v.SetDefault("scene.auto_scale", false)
	v.SetDefault("scene.tick_spacing", scene.DefaultTickSpacing)
	v.SetDefault("scene.tick_half_width", scene.DefaultTickHalfWidth)
	v.SetDefault("scene.vector", "1,2,1")
	v.SetDefault("scene.matrix", "1,0,0,0,1,0,0,0,1")

	v.SetDefault("display.grid", true)
	v.SetDefault("display.transformed_grid", true)
	v.SetDefault("display.labels", true)
	v.SetDefault("display.breakdown", true)

	v.SetDefault("notify.lifetime", session.DefaultNotifyLifetime)

	v.SetDefault("render.width", 1024)
	v.SetDefault("render.height", 768)
	v.SetDefault("render.frustum", render.DefaultFrustum)
	v.SetDefault("render.yaw", 35.0)
	v.SetDefault("render.pitch", 25.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration with nothing overridden.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return &c
}

// Load reads the configuration. path may be empty; a missing .env is
// ignored.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-owned viper instance, so command-line flags
// bound to v take part in the lookup.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if DotEnv != "" {
		if err := godotenv.Load(DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", DotEnv, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logging.Logger().Debug("config loaded", "file", v.ConfigFileUsed())
	return &c, nil
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		bad("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		bad("server.shutdown_timeout must be positive")
	}
	if !(c.Scene.Unit > 0) || !(c.Scene.Length > 0) {
		bad("scene.unit and scene.length must be positive, got %v and %v", c.Scene.Unit, c.Scene.Length)
	}
	if !(c.Scene.TickSpacing > 0) || !(c.Scene.TickHalfWidth > 0) {
		bad("scene.tick_spacing and scene.tick_half_width must be positive")
	}
	if err := input.CheckVector(c.Scene.Vector); err != nil {
		bad("scene.vector: %w", err)
	}
	if err := input.CheckMatrix(c.Scene.Matrix); err != nil {
		bad("scene.matrix: %w", err)
	}
	if c.Notify.Lifetime <= 0 {
		bad("notify.lifetime must be positive")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		bad("render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if !(c.Render.Frustum > 0) {
		bad("render.frustum must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		bad("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		bad("log.format %q must be text or json", c.Log.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// StartVector and StartMatrix parse the configured starting texts.
func (c *Config) StartVector() vector.Vec3 { return input.ParseVector(c.Scene.Vector) }
func (c *Config) StartMatrix() matrix.Mat3 { return input.ParseMatrix(c.Scene.Matrix) }

// SessionOptions maps the scene, display and notify sections onto a new
// session.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Vector:         c.StartVector(),
		Matrix:         c.StartMatrix(),
		Settings:       c.Display,
		Unit:           c.Scene.Unit,
		Length:         c.Scene.Length,
		AutoScale:      c.Scene.AutoScale,
		TickSpacing:    c.Scene.TickSpacing,
		TickHalfWidth:  c.Scene.TickHalfWidth,
		NotifyLifetime: c.Notify.Lifetime,
	}
}

// Camera returns the configured starting camera.
func (c *Config) Camera() render.Camera {
	return render.NewCamera(c.Render.Width, c.Render.Height, c.Render.Frustum, c.Render.Yaw, c.Render.Pitch)
}

// Logger builds the logger described by the log section.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, c.Log.Format)
}

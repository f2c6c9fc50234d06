package turntable

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedConfigFormat is returned by LoadConfig for file extensions
// other than .toml, .yaml and .yml.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

// Viewport size defaults, in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Config is the full configuration surface of a viewport.
type Config struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	AutoRotate      bool    `toml:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed float64 `toml:"auto_rotate_speed" yaml:"auto_rotate_speed"`

	GestureControl     bool    `toml:"gesture_control" yaml:"gesture_control"`
	SmoothingFactor    float64 `toml:"smoothing_factor" yaml:"smoothing_factor"`
	PositionMultiplier float64 `toml:"position_multiplier" yaml:"position_multiplier"`
	PinchThreshold     float64 `toml:"pinch_threshold" yaml:"pinch_threshold"`
	GestureScale       float64 `toml:"gesture_scale" yaml:"gesture_scale"`

	MoveSpeed       float64 `toml:"move_speed" yaml:"move_speed"`
	DragSensitivity float64 `toml:"drag_sensitivity" yaml:"drag_sensitivity"`
	WheelSpeed      float64 `toml:"wheel_speed" yaml:"wheel_speed"`

	// CameraPosition is either empty (fit distance), one value (distance on
	// +Z) or three values (absolute x, y, z).
	CameraPosition []float64 `toml:"camera_position" yaml:"camera_position"`
	// FlightSeconds animates runtime camera repositioning; 0 snaps.
	FlightSeconds float64 `toml:"flight_seconds" yaml:"flight_seconds"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		AutoRotateSpeed:    DefaultAutoRotateSpeed,
		SmoothingFactor:    DefaultSmoothingFactor,
		PositionMultiplier: DefaultPositionMultiplier,
		PinchThreshold:     DefaultPinchThreshold,
		GestureScale:       DefaultGestureScale,
		MoveSpeed:          DefaultMoveSpeed,
		DragSensitivity:    DefaultDragSensitivity,
		WheelSpeed:         DefaultWheelSpeed,
	}
}

// Normalized returns a copy with every missing, non-finite or out-of-range
// value replaced by its default. A bad value disables nothing; it only falls
// back for the feature it belongs to.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if !finite(c.AutoRotateSpeed) {
		c.AutoRotateSpeed = def.AutoRotateSpeed
	}
	if !validAlpha(c.SmoothingFactor) {
		c.SmoothingFactor = def.SmoothingFactor
	}
	if !finite(c.PositionMultiplier) || c.PositionMultiplier == 0 {
		c.PositionMultiplier = def.PositionMultiplier
	}
	if !finite(c.PinchThreshold) || c.PinchThreshold <= 0 {
		c.PinchThreshold = def.PinchThreshold
	}
	if !finite(c.GestureScale) {
		c.GestureScale = def.GestureScale
	}
	if !finite(c.MoveSpeed) || c.MoveSpeed < 0 {
		c.MoveSpeed = def.MoveSpeed
	}
	if !finite(c.DragSensitivity) {
		c.DragSensitivity = def.DragSensitivity
	}
	if !finite(c.WheelSpeed) {
		c.WheelSpeed = def.WheelSpeed
	}
	if !finite(c.FlightSeconds) || c.FlightSeconds < 0 {
		c.FlightSeconds = 0
	}
	pos := c.CameraPosition[:0:0]
	for _, v := range c.CameraPosition {
		if finite(v) {
			pos = append(pos, v)
		}
	}
	c.CameraPosition = pos
	return c
}

// Control returns the controller tuning part of the configuration.
func (c Config) Control() ControlConfig {
	return ControlConfig{
		MoveSpeed:       c.MoveSpeed,
		DragSensitivity: c.DragSensitivity,
		WheelSpeed:      c.WheelSpeed,
		GestureScale:    c.GestureScale,
		AutoRotateSpeed: c.AutoRotateSpeed,
	}
}

// Gesture returns the gesture processor tuning part of the configuration.
func (c Config) Gesture() GestureConfig {
	return GestureConfig{
		SmoothingFactor:    c.SmoothingFactor,
		PositionMultiplier: c.PositionMultiplier,
		PinchThreshold:     c.PinchThreshold,
	}
}

// Viewport returns the viewport rectangle at the origin.
func (c Config) Viewport() Rect {
	return Rect{Width: float64(c.Width), Height: float64(c.Height)}
}

// ResolveCameraPosition returns the initial camera position for a model of
// the given fitted size. Without a usable CameraPosition the camera sits on
// +Z at twice the size's diagonal, or 2*FitSize when no model is loaded.
func (c Config) ResolveCameraPosition(size mgl64.Vec3) mgl64.Vec3 {
	p := c.CameraPosition
	switch {
	case len(p) == 1:
		return mgl64.Vec3{0, 0, p[0]}
	case len(p) >= 3:
		return mgl64.Vec3{p[0], p[1], p[2]}
	}
	d := size.Len() * 2
	if d == 0 {
		d = 2 * FitSize
	}
	return mgl64.Vec3{0, 0, d}
}

// LoadConfig reads a TOML or YAML configuration file. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("load config %s: %w", path, ErrUnsupportedConfigFormat)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.Normalized(), nil
}

// ParseAttributes builds a configuration from element-style attributes:
// width, height, auto-display, auto-display-speed, gesture-control and
// camera-position. Unknown attributes are ignored.
func ParseAttributes(attrs map[string]string) Config {
	cfg := DefaultConfig()
	if v, ok := attrs["width"]; ok {
		cfg.Width = parseLeadingInt(v)
	}
	if v, ok := attrs["height"]; ok {
		cfg.Height = parseLeadingInt(v)
	}
	cfg.AutoRotate = attrs["auto-display"] == "true"
	if v := attrs["auto-display-speed"]; v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.AutoRotateSpeed = f
		} else {
			cfg.AutoRotateSpeed = math.NaN()
		}
	}
	cfg.GestureControl = attrs["gesture-control"] == "true"
	if v := attrs["camera-position"]; v != "" {
		cfg.CameraPosition = ParseCameraPosition(v)
	}
	return cfg.Normalized()
}

// ParseCameraPosition parses a comma separated list of numbers, dropping
// entries that are not numbers.
func ParseCameraPosition(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !finite(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// parseLeadingInt parses the leading decimal digits of s ("640px" → 640).
// It returns 0 when there are none.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// WatchConfig loads path whenever it changes on disk and sends the result
// on out. Parse failures are logged and skipped. It blocks until ctx is
// cancelled.
func WatchConfig(ctx context.Context, path string, out chan<- Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file rather than write it.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch config %s: %w", dir, err)
	}
	name := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				log.Warnf("config reload skipped: %v", err)
				continue
			}
			log.Infof("config reloaded from %s", path)
			select {
			case out <- cfg:
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("config watcher: %v", err)
		}
	}
}

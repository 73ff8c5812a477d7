package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.json"

// EnvPrefix is the prefix for environment overrides, e.g. VIMANA_LOGLEVEL=debug.
const EnvPrefix = "VIMANA"

// EnginePrefs holds engine-only preferences (window, debug overlays, governor tuning).
// Progression is never persisted; only these preferences live on disk.
type EnginePrefs struct {
	LogLevel     string `json:"logLevel" mapstructure:"logLevel"`
	LogToConsole bool   `json:"logToConsole" mapstructure:"logToConsole"`

	Window WindowPrefs `json:"window" mapstructure:"window"`
	Debug  DebugPrefs  `json:"debug" mapstructure:"debug"`
	Perf   PerfPrefs   `json:"perf" mapstructure:"perf"`
	Game   GamePrefs   `json:"game" mapstructure:"game"`
}

type WindowPrefs struct {
	Fullscreen bool   `json:"fullscreen" mapstructure:"fullscreen"`
	Width      int    `json:"width" mapstructure:"width"`
	Height     int    `json:"height" mapstructure:"height"`
	TargetFPS  int    `json:"targetFPS" mapstructure:"targetFPS"`
	Title      string `json:"title" mapstructure:"title"`
}

type DebugPrefs struct {
	ShowFPS      bool `json:"showFPS" mapstructure:"showFPS"`
	ShowMemAlloc bool `json:"showMemAlloc" mapstructure:"showMemAlloc"`
	GridVisible  bool `json:"gridVisible" mapstructure:"gridVisible"`
}

// PerfPrefs tunes the adaptive performance governor and its frame-rate monitor.
type PerfPrefs struct {
	Cooldown   time.Duration `json:"cooldown" mapstructure:"cooldown"`
	LowFPS     float32       `json:"lowFPS" mapstructure:"lowFPS"`
	HighFPS    float32       `json:"highFPS" mapstructure:"highFPS"`
	FlipFlops  int           `json:"flipflops" mapstructure:"flipflops"`
	Iterations int           `json:"iterations" mapstructure:"iterations"`
	Window     time.Duration `json:"window" mapstructure:"window"`
}

type GamePrefs struct {
	TransitionDuration time.Duration `json:"transitionDuration" mapstructure:"transitionDuration"`
	ToastDuration      time.Duration `json:"toastDuration" mapstructure:"toastDuration"`
}

// Default returns default engine preferences (windowed 1280x720 at 60 fps, overlays off, grid off).
func Default() EnginePrefs {
	return EnginePrefs{
		LogLevel:     "info",
		LogToConsole: false,
		Window: WindowPrefs{
			Fullscreen: false,
			Width:      1280,
			Height:     720,
			TargetFPS:  60,
			Title:      "Vimana",
		},
		Debug: DebugPrefs{
			ShowFPS:      false,
			ShowMemAlloc: false,
			GridVisible:  false,
		},
		Perf: PerfPrefs{
			Cooldown:   2 * time.Second,
			LowFPS:     30,
			HighFPS:    50,
			FlipFlops:  3,
			Iterations: 10,
			Window:     250 * time.Millisecond,
		},
		Game: GamePrefs{
			TransitionDuration: 1500 * time.Millisecond,
			ToastDuration:      2500 * time.Millisecond,
		},
	}
}

// setDefaults registers Default() with v so file and env values layer over it.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("logToConsole", d.LogToConsole)

	v.SetDefault("window.fullscreen", d.Window.Fullscreen)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.targetFPS", d.Window.TargetFPS)
	v.SetDefault("window.title", d.Window.Title)

	v.SetDefault("debug.showFPS", d.Debug.ShowFPS)
	v.SetDefault("debug.showMemAlloc", d.Debug.ShowMemAlloc)
	v.SetDefault("debug.gridVisible", d.Debug.GridVisible)

	v.SetDefault("perf.cooldown", d.Perf.Cooldown)
	v.SetDefault("perf.lowFPS", d.Perf.LowFPS)
	v.SetDefault("perf.highFPS", d.Perf.HighFPS)
	v.SetDefault("perf.flipflops", d.Perf.FlipFlops)
	v.SetDefault("perf.iterations", d.Perf.Iterations)
	v.SetDefault("perf.window", d.Perf.Window)

	v.SetDefault("game.transitionDuration", d.Game.TransitionDuration)
	v.SetDefault("game.toastDuration", d.Game.ToastDuration)
}

// Load reads engine preferences from config/engine.json under dir, with VIMANA_* environment
// overrides. A missing file is not an error: defaults (plus env) are returned.
func Load(dir string) (EnginePrefs, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(filepath.Join(dir, EngineConfigPath))
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("error reading config file: %w", err)
		}
	}

	var p EnginePrefs
	if err := v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("decode engine config: %w", err)
	}
	return p, nil
}

// Save writes engine preferences to config/engine.json under dir, creating the config directory if needed.
func Save(dir string, p EnginePrefs) error {
	path := filepath.Join(dir, EngineConfigPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("logLevel", p.LogLevel)
	v.Set("logToConsole", p.LogToConsole)
	v.Set("window", map[string]any{
		"fullscreen": p.Window.Fullscreen,
		"width":      p.Window.Width,
		"height":     p.Window.Height,
		"targetFPS":  p.Window.TargetFPS,
		"title":      p.Window.Title,
	})
	v.Set("debug", map[string]any{
		"showFPS":      p.Debug.ShowFPS,
		"showMemAlloc": p.Debug.ShowMemAlloc,
		"gridVisible":  p.Debug.GridVisible,
	})
	v.Set("perf", map[string]any{
		"cooldown":   p.Perf.Cooldown.String(),
		"lowFPS":     p.Perf.LowFPS,
		"highFPS":    p.Perf.HighFPS,
		"flipflops":  p.Perf.FlipFlops,
		"iterations": p.Perf.Iterations,
		"window":     p.Perf.Window.String(),
	})
	v.Set("game", map[string]any{
		"transitionDuration": p.Game.TransitionDuration.String(),
		"toastDuration":      p.Game.ToastDuration.String(),
	})
	v.SetConfigType("json")
	return v.WriteConfigAs(path)
}

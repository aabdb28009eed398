// Package config loads the capture tool's settings. Values come from the
// struct defaults, then an optional TOML file, then GBMS_* environment
// variables, then the positional command line arguments.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/mcuadros/go-defaults"
)

// EnvPrefix prefixes every environment override, e.g. GBMS_CAPTURE_TIMEOUT.
const EnvPrefix = "GBMS"

type Config struct {
	Capture Capture `toml:"capture"`
	Log     Log     `toml:"log"`
	Mock    Mock    `toml:"mock"`
	Output  Output  `toml:"output"`
	Server  Server  `toml:"server"`
}

type Capture struct {
	// Timeout is the inactivity timeout of a session.
	Timeout time.Duration `toml:"timeout" default:"30s"`
	// Threshold is the requested quality threshold. It is reported, not
	// enforced.
	Threshold    int           `toml:"threshold" default:"50"`
	Object       string        `toml:"object" default:"FLAT_RIGHT_INDEX"`
	PollInterval time.Duration `toml:"poll_interval" default:"100ms"`
	WaitSlice    time.Duration `toml:"wait_slice" default:"200ms"`
	Locale       string        `toml:"locale" default:"en"`
}

type Log struct {
	Level        string        `toml:"level" default:"warn"`
	Format       string        `toml:"format" default:"text"`
	File         string        `toml:"file"`
	RotationTime time.Duration `toml:"rotation_time" default:"24h"`
	MaxAge       time.Duration `toml:"max_age" default:"168h"`
	// Verbose lowers the level to info unless Level asks for debug.
	Verbose bool `toml:"verbose"`
}

type Mock struct {
	Enabled bool `toml:"enabled"`
	// Script is a CBOR session script replayed by the simulated scanner.
	// Empty runs the built-in demo session.
	Script string `toml:"script"`
}

type Output struct {
	// FrameDir receives the last frame of each session.
	FrameDir string `toml:"frame_dir"`
	// FrameFormat is pgm or wsq.
	FrameFormat string `toml:"frame_format" default:"pgm"`
	// TraceDir receives a CBOR recording of each session.
	TraceDir string `toml:"trace_dir"`
}

type Server struct {
	Addr string `toml:"addr" default:":9090"`
}

// Default returns a Config holding only the defaults.
func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load builds the configuration from defaults, the TOML file at path (when
// path is not empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// env lists the variables that may override the file. Unset variables leave
// the field nil.
type env struct {
	CaptureTimeout      *time.Duration `split_words:"true"`
	CaptureThreshold    *int           `split_words:"true"`
	CaptureObject       *string        `split_words:"true"`
	CapturePollInterval *time.Duration `split_words:"true"`
	CaptureWaitSlice    *time.Duration `split_words:"true"`
	CaptureLocale       *string        `split_words:"true"`
	LogLevel            *string        `split_words:"true"`
	LogFormat           *string        `split_words:"true"`
	LogFile             *string        `split_words:"true"`
	LogVerbose          *bool          `split_words:"true"`
	MockEnabled         *bool          `split_words:"true"`
	MockScript          *string        `split_words:"true"`
	OutputFrameDir      *string        `split_words:"true"`
	OutputFrameFormat   *string        `split_words:"true"`
	OutputTraceDir      *string        `split_words:"true"`
	ServerAddr          *string        `split_words:"true"`
}

func applyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	set(&cfg.Capture.Timeout, e.CaptureTimeout)
	set(&cfg.Capture.Threshold, e.CaptureThreshold)
	set(&cfg.Capture.Object, e.CaptureObject)
	set(&cfg.Capture.PollInterval, e.CapturePollInterval)
	set(&cfg.Capture.WaitSlice, e.CaptureWaitSlice)
	set(&cfg.Capture.Locale, e.CaptureLocale)
	set(&cfg.Log.Level, e.LogLevel)
	set(&cfg.Log.Format, e.LogFormat)
	set(&cfg.Log.File, e.LogFile)
	set(&cfg.Log.Verbose, e.LogVerbose)
	set(&cfg.Mock.Enabled, e.MockEnabled)
	set(&cfg.Mock.Script, e.MockScript)
	set(&cfg.Output.FrameDir, e.OutputFrameDir)
	set(&cfg.Output.FrameFormat, e.OutputFrameFormat)
	set(&cfg.Output.TraceDir, e.OutputTraceDir)
	set(&cfg.Server.Addr, e.ServerAddr)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

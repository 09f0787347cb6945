// SPDX-License-Identifier: MIT

// Package config loads optimizer and logging settings from a YAML or TOML
// file, then applies QUESTOPT_* environment overrides.
//
// Precedence, lowest first: Default, file, environment. Command-line flags
// are applied by the caller on top of the loaded Settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/questopt/logging"
	"github.com/katalvlaran/questopt/optimizer"
	"github.com/katalvlaran/questopt/shortest"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QUESTOPT_"

var (
	// ErrUnknownFormat indicates a config file extension other than
	// .yaml, .yml or .toml.
	ErrUnknownFormat = errors.New("config: unknown file format")

	// ErrBadEnv indicates an environment override that does not parse.
	ErrBadEnv = errors.New("config: invalid environment value")

	// ErrInvalid indicates settings that fail validation.
	ErrInvalid = errors.New("config: invalid settings")
)

// Settings holds every tunable of a questopt run.
type Settings struct {
	// Workers is the pool size; 0 means runtime.GOMAXPROCS(0).
	Workers        int           `yaml:"workers" toml:"workers"`
	Capacity       int           `yaml:"capacity" toml:"capacity"`
	ErrorAfford    float64       `yaml:"error_afford" toml:"error_afford"`
	Depth          int           `yaml:"depth" toml:"depth"`
	Narrowness     float64       `yaml:"narrowness" toml:"narrowness"`
	StatusInterval time.Duration `yaml:"status_interval" toml:"status_interval"`
	Seed           int64         `yaml:"seed" toml:"seed"`
	Stitch         string        `yaml:"stitch" toml:"stitch"`
	// Timeout bounds the whole search; 0 means none.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`

	Log    LogSettings    `yaml:"log" toml:"log"`
	Output OutputSettings `yaml:"output" toml:"output"`
}

// LogSettings selects the logger built by logging.New.
type LogSettings struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// OutputSettings controls how the CLI prints a path.
type OutputSettings struct {
	VertexNames bool `yaml:"vertex_names" toml:"vertex_names"`
	QuestNames  bool `yaml:"quest_names" toml:"quest_names"`
}

// Default returns the settings matching optimizer.DefaultOptions.
func Default() Settings {
	return Settings{
		Capacity:    optimizer.DefaultCapacity,
		ErrorAfford: optimizer.DefaultErrorAfford,
		Depth:       optimizer.DefaultDepth,
		Stitch:      shortest.ModeAuto.String(),
		Log:         LogSettings{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path (skipped when empty) over Default, applies environment
// overrides and validates the result.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if err := s.decodeFile(path); err != nil {
			return Settings{}, err
		}
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// decodeFile picks the decoder by extension. Keys absent from the file
// keep their current values.
func (s *Settings) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), s)
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("config: parse %s: unknown key %q: %w", path, undecoded[0].String(), ErrInvalid)
		}
	default:
		return fmt.Errorf("config: %s: %w", path, ErrUnknownFormat)
	}

	return nil
}

// ApplyEnv overrides fields from QUESTOPT_* variables found by lookup.
// Unset variables leave fields unchanged; malformed ones fail with ErrBadEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}
	e.readInt("WORKERS", &s.Workers)
	e.readInt("CAPACITY", &s.Capacity)
	e.readFloat("ERROR_AFFORD", &s.ErrorAfford)
	e.readInt("DEPTH", &s.Depth)
	e.readFloat("NARROWNESS", &s.Narrowness)
	e.readDuration("STATUS_INTERVAL", &s.StatusInterval)
	e.readInt64("SEED", &s.Seed)
	e.readString("STITCH", &s.Stitch)
	e.readDuration("TIMEOUT", &s.Timeout)
	e.readString("LOG_LEVEL", &s.Log.Level)
	e.readString("LOG_FORMAT", &s.Log.Format)
	e.readBool("VERTEX_NAMES", &s.Output.VertexNames)
	e.readBool("QUEST_NAMES", &s.Output.QuestNames)

	return e.err
}

// Validate checks every field; optimizer ranges are delegated to
// optimizer.Options.Validate.
func (s Settings) Validate() error {
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers=%d must be >= 0", ErrInvalid, s.Workers)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout=%v must be >= 0", ErrInvalid, s.Timeout)
	}
	if _, err := shortest.ParseMode(s.Stitch); err != nil {
		return fmt.Errorf("%w: stitch: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !logging.ValidFormat(s.Log.Format) {
		return fmt.Errorf("%w: log format %q", ErrInvalid, s.Log.Format)
	}

	o := optimizer.DefaultOptions()
	for _, opt := range s.options() {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Options converts s into optimizer options. Logger and metrics are left
// to the caller.
func (s Settings) Options() ([]optimizer.Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s.options(), nil
}

func (s Settings) options() []optimizer.Option {
	opts := []optimizer.Option{
		optimizer.WithCapacity(s.Capacity),
		optimizer.WithErrorAfford(s.ErrorAfford),
		optimizer.WithDepth(s.Depth),
		optimizer.WithNarrowness(s.Narrowness),
		optimizer.WithStatusInterval(s.StatusInterval),
		optimizer.WithSeed(s.Seed),
	}
	if s.Workers > 0 {
		opts = append(opts, optimizer.WithWorkers(s.Workers))
	}
	if mode, err := shortest.ParseMode(s.Stitch); err == nil {
		opts = append(opts, optimizer.WithStitchMode(mode))
	}

	return opts
}

// envReader accumulates the first parse error across lookups.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + key)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key, v string, err error) {
	e.err = fmt.Errorf("%w: %s%s=%q: %w", ErrBadEnv, EnvPrefix, key, v, err)
}

func (e *envReader) readString(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) readInt(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) readInt64(key string, dst *int64) {
	if v, ok := e.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) readFloat(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) readBool(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) readDuration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = d
	}
}

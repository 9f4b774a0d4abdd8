// Package config reads the mkvmux YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Input formats understood by the input package.
const (
	FormatIVF  = "ivf"
	FormatH264 = "h264"
	FormatH265 = "h265"
)

var (
	ErrNoInputs      = errors.New("no inputs configured")
	ErrNoOutput      = errors.New("neither Output nor Recorder.Dir set")
	ErrInputFormat   = errors.New("unknown input format")
	ErrInputFPS      = errors.New("elementary video input needs FPS")
	ErrDocType       = errors.New("doc type must be webm or matroska")
	ErrLogFormat     = errors.New("log format must be console, json or auto")
	ErrChunkDuration = errors.New("recorder chunk duration must be positive")
)

type Input struct {
	Path   string  `yaml:"Path"`
	Format string  `yaml:"Format"` // taken from the file extension when empty
	FPS    float64 `yaml:"FPS"`    // only for h264 and h265
}

type Log struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
}

type Recorder struct {
	Dir           string        `yaml:"Dir"`
	Suffix        string        `yaml:"Suffix"`
	ChunkDuration time.Duration `yaml:"ChunkDuration"`
}

type Config struct {
	// Output is a file path, or - for a live stream on stdout.
	Output             string            `yaml:"Output"`
	Live               bool              `yaml:"Live"`
	DocType            string            `yaml:"DocType"`
	Title              string            `yaml:"Title"`
	MaxClusterDuration time.Duration     `yaml:"MaxClusterDuration"`
	MaxClusterSize     uint64            `yaml:"MaxClusterSize"`
	AccurateDuration   bool              `yaml:"AccurateDuration"`
	Tags               map[string]string `yaml:"Tags"`
	Log                Log               `yaml:"Log"`
	Inputs             []*Input          `yaml:"Inputs"`
	Recorder           Recorder          `yaml:"Recorder"`
}

// Default returns the configuration used for fields a file leaves out.
func Default() *Config {
	return &Config{
		MaxClusterDuration: 5 * time.Second,
		MaxClusterSize:     5 << 20,
		Log:                Log{Level: "info", Format: "auto"},
		Recorder:           Recorder{Suffix: "rec", ChunkDuration: 10 * time.Minute},
	}
}

// Load reads and validates the YAML file at path on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	c := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks c and fills input formats from file extensions.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}
	if c.Output == "" && c.Recorder.Dir == "" {
		return ErrNoOutput
	}
	switch c.DocType {
	case "", "webm", "matroska":
	default:
		return fmt.Errorf("%w: %q", ErrDocType, c.DocType)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormat, c.Log.Format)
	}
	if c.Recorder.Dir != "" && c.Recorder.ChunkDuration <= 0 {
		return ErrChunkDuration
	}
	for i, in := range c.Inputs {
		if in.Format == "" {
			in.Format = formatFromPath(in.Path)
		}
		switch in.Format {
		case FormatIVF:
		case FormatH264, FormatH265:
			if in.FPS <= 0 {
				return fmt.Errorf("input %d (%s): %w", i, in.Path, ErrInputFPS)
			}
		default:
			return fmt.Errorf("input %d (%s): %w %q", i, in.Path, ErrInputFormat, in.Format)
		}
	}
	return nil
}

// IsStdout tells whether the muxed output goes to standard output.
func (c *Config) IsStdout() bool {
	return c.Output == "-"
}

func formatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	switch ext := strings.ToLower(path[i+1:]); ext {
	case "264", "avc":
		return FormatH264
	case "265", "hevc":
		return FormatH265
	default:
		return ext
	}
}

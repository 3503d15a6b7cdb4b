// Package config holds the run configuration for the illumination pipeline.
// A Config is built once at startup and passed by value into each component.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendOpenCV = "opencv"
	BackendNative = "native"
)

type Config struct {
	ReferenceDir     string  `yaml:"reference_dir"`
	ReferencePattern string  `yaml:"reference_pattern"`
	MaskPath         string  `yaml:"mask_path"`
	InputPath        string  `yaml:"input_path"`
	OutputPath       string  `yaml:"output_path"`
	ImageHeight      int     `yaml:"image_height"`
	ImageWidth       int     `yaml:"image_width"`
	BlurKernel       int     `yaml:"blur_kernel"`
	MaskScale        float64 `yaml:"mask_scale"`
	JPEGQuality      int     `yaml:"jpeg_quality"`
	Backend          string  `yaml:"backend"`
	LogLevel         string  `yaml:"log_level"`
	LogFormat        string  `yaml:"log_format"`
}

// Field is one named configuration value, used for logging the resolved run.
type Field struct {
	Name  string
	Value interface{}
}

func Default() Config {
	return Config{
		ReferenceDir:     "./data/reference/background",
		ReferencePattern: "*.bmp",
		MaskPath:         "./data/reference/illumination_mask.png",
		BlurKernel:       1,
		MaskScale:        1.0,
		JPEGQuality:      100,
		Backend:          BackendOpenCV,
		LogFormat:        "console",
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string

	if c.ImageHeight < 0 || c.ImageWidth < 0 {
		problems = append(problems, fmt.Sprintf("image dimensions must not be negative: %dx%d", c.ImageWidth, c.ImageHeight))
	}
	if (c.ImageHeight == 0) != (c.ImageWidth == 0) {
		problems = append(problems, "image_height and image_width must be set together")
	}
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		problems = append(problems, fmt.Sprintf("blur_kernel must be a positive odd number, got %d", c.BlurKernel))
	}
	if c.MaskScale <= 0 {
		problems = append(problems, fmt.Sprintf("mask_scale must be positive, got %g", c.MaskScale))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		problems = append(problems, fmt.Sprintf("jpeg_quality must be in [1,100], got %d", c.JPEGQuality))
	}
	switch c.Backend {
	case BackendOpenCV, BackendNative:
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q", c.Backend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ReferenceGlob is the glob matching the reference captures.
func (c Config) ReferenceGlob() string {
	return filepath.Join(c.ReferenceDir, c.ReferencePattern)
}

// Fields lists every setting in a fixed order.
func (c Config) Fields() []Field {
	return []Field{
		{"reference_dir", c.ReferenceDir},
		{"reference_pattern", c.ReferencePattern},
		{"mask_path", c.MaskPath},
		{"input_path", c.InputPath},
		{"output_path", c.OutputPath},
		{"image_height", c.ImageHeight},
		{"image_width", c.ImageWidth},
		{"blur_kernel", c.BlurKernel},
		{"mask_scale", c.MaskScale},
		{"jpeg_quality", c.JPEGQuality},
		{"backend", c.Backend},
		{"log_level", c.LogLevel},
		{"log_format", c.LogFormat},
	}
}

// LogFields is Fields flattened for the structured logger.
func (c Config) LogFields() map[string]interface{} {
	fields := c.Fields()
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}

// Marshal renders c as YAML that Load accepts.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

package main

import (
	"github.com/spf13/cobra"

	"devignette/internal/config"
	"devignette/internal/logger"
)

type options struct {
	configPath string

	referenceDir string
	pattern      string
	mask         string
	input        string
	output       string
	height       int
	width        int
	blur         int
	scale        float64
	quality      int

	backend   string
	logLevel  string
	logFormat string
}

func (o *options) register(cmd *cobra.Command) {
	defaults := config.Default()
	fl := cmd.PersistentFlags()

	fl.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	fl.StringVar(&o.referenceDir, "reference-dir", defaults.ReferenceDir, "directory holding background reference captures")
	fl.StringVar(&o.pattern, "pattern", defaults.ReferencePattern, "glob selecting reference captures inside --reference-dir")
	fl.StringVar(&o.mask, "mask", defaults.MaskPath, "illumination mask file")
	fl.StringVarP(&o.input, "input", "i", "", "capture to correct")
	fl.StringVarP(&o.output, "output", "o", "", "corrected capture")
	fl.IntVar(&o.height, "height", 0, "expected capture height, 0 to take it from the first reference")
	fl.IntVar(&o.width, "width", 0, "expected capture width, 0 to take it from the first reference")
	fl.IntVar(&o.blur, "blur", defaults.BlurKernel, "Gaussian kernel size applied to references (odd, 1 disables)")
	fl.Float64Var(&o.scale, "scale", defaults.MaskScale, "scale applied to the mean before 8-bit conversion")
	fl.IntVar(&o.quality, "jpeg-quality", defaults.JPEGQuality, "quality for .jpg outputs")
	fl.StringVar(&o.backend, "backend", defaults.Backend, "image backend: opencv or native")
	fl.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	fl.StringVar(&o.logFormat, "log-format", defaults.LogFormat, "console or json")
}

// resolve loads the config file and applies explicitly set flags on top.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	fl := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"reference-dir", func() { cfg.ReferenceDir = o.referenceDir }},
		{"pattern", func() { cfg.ReferencePattern = o.pattern }},
		{"mask", func() { cfg.MaskPath = o.mask }},
		{"input", func() { cfg.InputPath = o.input }},
		{"output", func() { cfg.OutputPath = o.output }},
		{"height", func() { cfg.ImageHeight = o.height }},
		{"width", func() { cfg.ImageWidth = o.width }},
		{"blur", func() { cfg.BlurKernel = o.blur }},
		{"scale", func() { cfg.MaskScale = o.scale }},
		{"jpeg-quality", func() { cfg.JPEGQuality = o.quality }},
		{"backend", func() { cfg.Backend = o.backend }},
		{"log-level", func() { cfg.LogLevel = o.logLevel }},
		{"log-format", func() { cfg.LogFormat = o.logFormat }},
	}
	for _, ov := range overrides {
		if fl.Changed(ov.flag) {
			ov.apply()
		}
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger.New(cfg.LogFormat, level)
}

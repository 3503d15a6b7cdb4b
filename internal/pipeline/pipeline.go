// Package pipeline runs the mask and correction phases against files on disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"devignette/internal/config"
	"devignette/internal/illumination"
	"devignette/internal/logger"
)

// MaskReport summarises a BuildMask run.
type MaskReport struct {
	References int
	Shape      illumination.Shape
	Stats      illumination.MaskStats
	Path       string
	Duration   time.Duration
}

// CorrectReport summarises a Correct run.
type CorrectReport struct {
	InputPath  string
	OutputPath string
	Shape      illumination.Shape
	Result     illumination.Result
	Duration   time.Duration
}

type Pipeline struct {
	cfg     config.Config
	backend Backend
	logger  logger.Logger
}

func New(cfg config.Config, backend Backend, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{cfg: cfg, backend: backend, logger: log}
}

// BuildMask averages the reference captures and writes the illumination
// mask. The mask file is only written once every reference has been read.
func (p *Pipeline) BuildMask(ctx context.Context) (*MaskReport, error) {
	start := time.Now()

	paths, err := DiscoverReferences(p.cfg.ReferenceDir, p.cfg.ReferencePattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w matching %s", illumination.ErrNoReferences, p.cfg.ReferenceGlob())
	}

	p.logger.Info("Accumulator", "references found", map[string]interface{}{
		"count": len(paths),
		"glob":  p.cfg.ReferenceGlob(),
	})

	shape := illumination.Shape{Rows: p.cfg.ImageHeight, Cols: p.cfg.ImageWidth}
	acc := illumination.NewAccumulator(shape, p.backend.Smoother)

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := p.backend.Codec.Load(path)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", path, err)
		}
		if err := acc.Add(img); err != nil {
			return nil, fmt.Errorf("reference %s: %w", path, err)
		}

		p.logger.Debug("Accumulator", "reference added", map[string]interface{}{
			"path":  path,
			"count": acc.Count(),
		})
	}

	mask, stats, err := illumination.FromAccumulator(acc, p.cfg.MaskScale)
	if err != nil {
		return nil, err
	}

	if err := p.save(p.cfg.MaskPath, mask); err != nil {
		return nil, err
	}

	report := &MaskReport{
		References: acc.Count(),
		Shape:      acc.Shape(),
		Stats:      stats,
		Path:       p.cfg.MaskPath,
		Duration:   time.Since(start),
	}

	p.logger.Info("MaskNormalizer", "illumination mask written", map[string]interface{}{
		"path":        report.Path,
		"references":  report.References,
		"shape":       report.Shape.String(),
		"mean":        stats.Mean,
		"stddev":      stats.StdDev,
		"min":         stats.Min,
		"max":         stats.Max,
		"duration_ms": report.Duration.Milliseconds(),
	})

	return report, nil
}

// Correct divides the configured input by the stored mask and writes the
// compensated image.
func (p *Pipeline) Correct(ctx context.Context) (*CorrectReport, error) {
	start := time.Now()

	if p.cfg.InputPath == "" || p.cfg.OutputPath == "" {
		return nil, errors.New("input and output paths are required for correction")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img, err := p.backend.Codec.Load(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	mask, err := p.backend.Codec.Load(p.cfg.MaskPath)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}

	corrected, result, err := illumination.Compensate(img, mask)
	if err != nil {
		return nil, fmt.Errorf("compensating %s with %s: %w", p.cfg.InputPath, p.cfg.MaskPath, err)
	}

	if result.Sanitized > 0 {
		p.logger.Warning("Compensator", "non-finite pixels replaced with 0", map[string]interface{}{
			"count": result.Sanitized,
			"mask":  p.cfg.MaskPath,
		})
	}

	if err := p.save(p.cfg.OutputPath, corrected); err != nil {
		return nil, err
	}

	report := &CorrectReport{
		InputPath:  p.cfg.InputPath,
		OutputPath: p.cfg.OutputPath,
		Shape:      illumination.ShapeOf(corrected),
		Result:     result,
		Duration:   time.Since(start),
	}

	p.logger.Info("Compensator", "corrected image written", map[string]interface{}{
		"input":       report.InputPath,
		"output":      report.OutputPath,
		"shape":       report.Shape.String(),
		"max_ratio":   result.Max,
		"duration_ms": report.Duration.Milliseconds(),
	})

	return report, nil
}

// Run builds the mask and then corrects the input with the mask as stored
// on disk, so lossy mask encodings affect the result exactly as a later
// separate correction would.
func (p *Pipeline) Run(ctx context.Context) (*MaskReport, *CorrectReport, error) {
	maskReport, err := p.BuildMask(ctx)
	if err != nil {
		return nil, nil, err
	}

	correctReport, err := p.Correct(ctx)
	if err != nil {
		return maskReport, nil, err
	}

	return maskReport, correctReport, nil
}

func (p *Pipeline) save(path string, img *image.Gray) error {
	if path == "" {
		return errors.New("output path is empty")
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !format.Lossless() {
		p.logger.Warning("ImageSaver", "lossy encoding selected", map[string]interface{}{
			"path":    path,
			"quality": p.cfg.JPEGQuality,
		})
	}

	if err := p.backend.Codec.Save(path, img); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

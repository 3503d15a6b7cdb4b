package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"devignette/internal/config"
	"devignette/internal/logger"
	"devignette/internal/pipeline"
	"devignette/internal/preview"
)

// session is everything a subcommand needs, resolved once per invocation.
type session struct {
	cfg      config.Config
	logger   logger.Logger
	backend  pipeline.Backend
	pipeline *pipeline.Pipeline
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Flatten non-uniform illumination in grayscale captures",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)

	root.AddCommand(
		&cobra.Command{
			Use:   "mask",
			Short: "Average background references into an illumination mask",
			Args:  cobra.NoArgs,
			RunE: opts.withSession(func(ctx context.Context, s *session) error {
				_, err := s.pipeline.BuildMask(ctx)
				return err
			}),
		},
		&cobra.Command{
			Use:   "correct",
			Short: "Divide a capture by a stored illumination mask",
			Args:  cobra.NoArgs,
			RunE: opts.withSession(func(ctx context.Context, s *session) error {
				_, err := s.pipeline.Correct(ctx)
				return err
			}),
		},
		&cobra.Command{
			Use:   "run",
			Short: "Build the mask, then correct the input with it",
			Args:  cobra.NoArgs,
			RunE: opts.withSession(func(ctx context.Context, s *session) error {
				_, _, err := s.pipeline.Run(ctx)
				return err
			}),
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Show the mask, the input and the corrected capture side by side",
			Args:  cobra.NoArgs,
			RunE: opts.withSession(func(_ context.Context, s *session) error {
				panels, err := loadPanels(s)
				if err != nil {
					return err
				}
				preview.Run(AppName, panels)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the resolved configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := opts.resolve(cmd)
				if err != nil {
					return err
				}
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)

	return root
}

func (o *options) withSession(fn func(context.Context, *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := o.resolve(cmd)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		backend, err := newBackend(cfg)
		if err != nil {
			return err
		}

		log.Info(AppName, "starting "+cmd.Name(), map[string]interface{}{
			"version":    AppVersion,
			"go_version": runtime.Version(),
		})
		log.Debug(AppName, "configuration", cfg.LogFields())

		s := &session{
			cfg:      cfg,
			logger:   log,
			backend:  backend,
			pipeline: pipeline.New(cfg, backend, log),
		}
		return fn(cmd.Context(), s)
	}
}

// loadPanels reads whichever of the mask, input and output exist.
func loadPanels(s *session) ([]preview.Panel, error) {
	sources := []struct {
		title string
		path  string
	}{
		{"Illumination Mask", s.cfg.MaskPath},
		{"Original", s.cfg.InputPath},
		{"Illumination Adjusted", s.cfg.OutputPath},
	}

	var panels []preview.Panel
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if _, err := os.Stat(src.path); err != nil {
			s.logger.Warning("Preview", "skipping missing file", map[string]interface{}{
				"title": src.title,
				"path":  src.path,
			})
			continue
		}

		img, err := s.backend.Codec.Load(src.path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.title, err)
		}
		panels = append(panels, preview.Panel{Title: src.title, Image: image.Image(img)})
	}

	if len(panels) == 0 {
		return nil, fmt.Errorf("nothing to preview: none of %s, %s, %s exist",
			s.cfg.MaskPath, s.cfg.InputPath, s.cfg.OutputPath)
	}
	return panels, nil
}

package main

import (
	"fmt"

	"devignette/internal/config"
	"devignette/internal/native"
	"devignette/internal/opencv/codec"
	"devignette/internal/pipeline"
)

func newBackend(cfg config.Config) (pipeline.Backend, error) {
	switch cfg.Backend {
	case config.BackendOpenCV:
		smoother, err := codec.NewGaussianSmoother(cfg.BlurKernel)
		if err != nil {
			return pipeline.Backend{}, err
		}
		return pipeline.Backend{Name: cfg.Backend, Codec: codec.New(cfg.JPEGQuality), Smoother: smoother}, nil
	case config.BackendNative:
		smoother, err := native.NewGaussianSmoother(cfg.BlurKernel)
		if err != nil {
			return pipeline.Backend{}, err
		}
		return pipeline.Backend{Name: cfg.Backend, Codec: native.NewCodec(cfg.JPEGQuality), Smoother: smoother}, nil
	default:
		return pipeline.Backend{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Command devignette flattens non-uniform illumination in grayscale
// microscope captures.
//
// Usage:
//
//	devignette mask --reference-dir ./data/reference/background --mask ./data/reference/illumination_mask.png
//	devignette correct --mask ./data/reference/illumination_mask.png --input img8.bmp --output img8_flat.bmp
//	devignette run --config experiment.yaml
//	devignette preview --config experiment.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"devignette/internal/logger"
)

const (
	AppName    = "devignette"
	AppVersion = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.NewConsoleLogger(zerolog.ErrorLevel).Error(AppName, err, nil)
		stop()
		os.Exit(1)
	}
}

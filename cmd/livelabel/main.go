// livelabel captures frames from a local camera, labels each one with
// AWS Rekognition, and overlays the results on the live video.
//
// Configuration comes from the environment (or a .env file):
//
//	AWS_REGION=us-east-1 go run ./cmd/livelabel
//
// Press 'q' in the video window to exit.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lenslabs/go-livelabel/internal/config"
	"github.com/lenslabs/go-livelabel/internal/httpc"
	"github.com/lenslabs/go-livelabel/internal/log"
	"github.com/lenslabs/go-livelabel/pkg/capture"
	"github.com/lenslabs/go-livelabel/pkg/detect"
	"github.com/lenslabs/go-livelabel/pkg/display"
	"github.com/lenslabs/go-livelabel/pkg/overlay"
	"github.com/lenslabs/go-livelabel/pkg/session"
)

func main() {
	if err := run(); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []detect.Option{
		detect.WithRegion(cfg.Region),
		detect.WithMaxLabels(cfg.MaxLabels),
		detect.WithMinConfidence(cfg.MinConfidence),
		detect.WithTimeout(cfg.DetectTimeout),
		detect.WithHTTPClient(httpc.Client),
		detect.WithLogger(log.L()),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, detect.WithStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey))
	}

	provider, err := detect.NewRekognition(ctx, opts...)
	if err != nil {
		return err
	}
	defer provider.Close()

	log.Info("opening camera", "index", cfg.CameraIndex)
	cam, err := capture.OpenWebcam(cfg.CameraIndex)
	if err != nil {
		return err
	}

	win := display.NewWindow(cfg.WindowName)

	// The session owns cam and win from here: both are released by
	// its cleanup, on every exit path.
	sess, err := session.New(cam, provider, overlay.NewRenderer(), win,
		session.WithJPEGQuality(cfg.JPEGQuality),
		session.WithLogger(log.L()))
	if err != nil {
		cam.Close()
		win.Close()
		return err
	}

	return sess.Run(ctx)
}

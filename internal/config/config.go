// Package config provides environment configuration for livelabel commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the capture and labeling loop.
const (
	DefaultCameraIndex     = 0
	DefaultMaxLabels       = 10
	DefaultMinConfidence   = 75.0
	DefaultWindowName      = "Live Labels"
	DefaultJPEGQuality     = 80
	DefaultDetectTimeoutMs = 5000
	DefaultLogLevel        = "info"
)

// Config holds the per-session settings resolved from the environment.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	CameraIndex   int
	MaxLabels     int
	MinConfidence float64
	WindowName    string
	JPEGQuality   int
	DetectTimeout time.Duration
	LogLevel      string
}

// LoadDotenv loads a .env file from the working directory if present.
// A missing file is not an error.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Load resolves configuration from environment variables.
// AWS_REGION is required; everything else falls back to defaults.
func Load() (*Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		return nil, fmt.Errorf("config: AWS_REGION is required")
	}

	cfg := &Config{
		Region:          region,
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		CameraIndex:     DefaultCameraIndex,
		MaxLabels:       DefaultMaxLabels,
		MinConfidence:   DefaultMinConfidence,
		WindowName:      DefaultWindowName,
		JPEGQuality:     DefaultJPEGQuality,
		DetectTimeout:   DefaultDetectTimeoutMs * time.Millisecond,
		LogLevel:        DefaultLogLevel,
	}

	var err error
	if cfg.CameraIndex, err = envInt("CAMERA_INDEX", cfg.CameraIndex); err != nil {
		return nil, err
	}
	if cfg.MaxLabels, err = envInt("MAX_LABELS", cfg.MaxLabels); err != nil {
		return nil, err
	}
	if cfg.MinConfidence, err = envFloat("MIN_CONFIDENCE", cfg.MinConfidence); err != nil {
		return nil, err
	}
	if name := os.Getenv("WINDOW_NAME"); name != "" {
		cfg.WindowName = name
	}
	if cfg.JPEGQuality, err = envInt("JPEG_QUALITY", cfg.JPEGQuality); err != nil {
		return nil, err
	}
	timeoutMs, err := envInt("DETECT_TIMEOUT_MS", DefaultDetectTimeoutMs)
	if err != nil {
		return nil, err
	}
	cfg.DetectTimeout = time.Duration(timeoutMs) * time.Millisecond
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges after resolution.
func (c *Config) Validate() error {
	if c.CameraIndex < 0 {
		return fmt.Errorf("config: CAMERA_INDEX must not be negative, got %d", c.CameraIndex)
	}
	if c.MaxLabels < 1 {
		return fmt.Errorf("config: MAX_LABELS must be at least 1, got %d", c.MaxLabels)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("config: MIN_CONFIDENCE must be in [0,100], got %g", c.MinConfidence)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("config: JPEG_QUALITY must be in [1,100], got %d", c.JPEGQuality)
	}
	if c.DetectTimeout <= 0 {
		return fmt.Errorf("config: DETECT_TIMEOUT_MS must be positive")
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

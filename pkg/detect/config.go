package detect

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds provider configuration.
type Config struct {
	// Region is the AWS region hosting the Rekognition endpoint.
	Region string

	// Static credentials. When empty the SDK default chain is used
	// (environment, shared config, instance role).
	AccessKeyID     string
	SecretAccessKey string

	// Request defaults
	MaxLabels     int     // Bounds result length
	MinConfidence float64 // Server-side confidence filter, percent

	// Timeout bounds each DetectLabels call.
	Timeout time.Duration

	// HTTPClient overrides the SDK's default transport.
	HTTPClient *http.Client

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring providers.
type Option func(*Config)

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(c *Config) { c.Region = region }
}

// WithStaticCredentials sets explicit AWS credentials, bypassing the
// SDK default chain.
func WithStaticCredentials(accessKeyID, secretAccessKey string) Option {
	return func(c *Config) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}

// WithMaxLabels bounds the number of labels per response.
func WithMaxLabels(n int) Option {
	return func(c *Config) { c.MaxLabels = n }
}

// WithMinConfidence sets the server-side confidence floor (percent).
func WithMinConfidence(pct float64) Option {
	return func(c *Config) { c.MinConfidence = pct }
}

// WithTimeout bounds each detection call.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) { c.HTTPClient = client }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the design defaults: ten labels, a 75 percent
// confidence floor, and a five second call deadline.
func DefaultConfig() *Config {
	return &Config{
		MaxLabels:     10,
		MinConfidence: 75.0,
		Timeout:       5 * time.Second,
		Logger:        slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Region == "" {
		return ErrNoRegion
	}
	if c.MaxLabels < 1 {
		return ErrBadMaxLabels
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return ErrBadMinConfidence
	}
	return nil
}

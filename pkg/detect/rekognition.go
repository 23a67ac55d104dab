package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Rekognition detects labels via the AWS Rekognition DetectLabels API.
// The zero value is not usable; construct with NewRekognition.
type Rekognition struct {
	client *rekognition.Client
	cfg    *Config
}

// NewRekognition creates a Rekognition-backed provider. Credentials
// resolve through the SDK default chain unless static keys were given;
// resolution is verified here so a missing key fails at startup, not
// on the first frame.
func NewRekognition(ctx context.Context, opts ...Option) (*Rekognition, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.HTTPClient != nil {
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(cfg.HTTPClient))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("detect: load AWS config: %w", err)
	}
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}

	cfg.Logger.Info("rekognition provider ready",
		"region", cfg.Region,
		"max_labels", cfg.MaxLabels,
		"min_confidence", cfg.MinConfidence)

	return &Rekognition{
		client: rekognition.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

// DetectLabels submits the encoded image and returns labels in service
// order. Each call carries its own deadline so a hung request cannot
// stall the caller past the configured timeout.
func (r *Rekognition) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(int32(r.cfg.MaxLabels)),
		MinConfidence: aws.Float32(float32(r.cfg.MinConfidence)),
	})
	if err != nil {
		return nil, WrapError("rekognition", err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, Label{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}

	r.cfg.Logger.Debug("labels detected",
		"count", len(labels),
		"latency_ms", time.Since(start).Milliseconds())

	return labels, nil
}

// Close releases provider resources. The Rekognition client holds no
// local state, so this is a no-op kept for interface symmetry.
func (r *Rekognition) Close() error {
	return nil
}

// Verify Rekognition implements Provider at compile time.
var _ Provider = (*Rekognition)(nil)

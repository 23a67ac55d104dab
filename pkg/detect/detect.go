// Package detect provides remote image label detection.
//
// The package abstracts the labeling capability behind a single Provider
// interface. The production implementation calls AWS Rekognition
// DetectLabels; tests use the call-tracking Mock.
//
// Example usage:
//
//	provider, _ := detect.NewRekognition(ctx,
//	    detect.WithRegion("us-east-1"),
//	    detect.WithMaxLabels(10),
//	    detect.WithMinConfidence(75.0),
//	)
//	defer provider.Close()
//
//	labels, _ := provider.DetectLabels(ctx, jpegBytes)
package detect

import "context"

// Label is one labeled concept returned by the detection capability.
// Confidence is a percentage in [0,100]. Labels keep the order the
// service returned them in; duplicate names are allowed.
type Label struct {
	Name       string
	Confidence float64
}

// Provider is the interface for label detection backends.
// Implementations are stateless between calls: identical image bytes
// yield an independent request each time.
type Provider interface {
	// DetectLabels finds labels in an encoded image and returns them
	// in service order. The image must be a valid encoded image buffer.
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)

	// Close releases resources held by the provider.
	Close() error
}

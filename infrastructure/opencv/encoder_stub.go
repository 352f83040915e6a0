//go:build !opencv

package opencv

import (
	"context"

	"covid-spread/domain/video"
)

// Encoder is a stub when OpenCV is not available
type Encoder struct{}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithCodec is a no-op in stub mode
func WithCodec(codec string) EncoderOption {
	return func(e *Encoder) {}
}

// NewEncoder creates a stub encoder (requires building with -tags=opencv)
func NewEncoder(opts ...EncoderOption) *Encoder {
	return &Encoder{}
}

// Available reports whether this build can encode with OpenCV
func Available() bool {
	return false
}

// Encode returns ErrUnavailable
func (e *Encoder) Encode(ctx context.Context, req *video.EncodeRequest) error {
	return ErrUnavailable
}

// Ensure Encoder implements video.Encoder
var _ video.Encoder = (*Encoder)(nil)

//go:build opencv

package opencv

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"covid-spread/domain/video"

	"gocv.io/x/gocv"
)

// Encoder implements video.Encoder using OpenCV's VideoWriter
type Encoder struct {
	codec string
}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithCodec sets the FourCC codec
func WithCodec(codec string) EncoderOption {
	return func(e *Encoder) {
		e.codec = codec
	}
}

// NewEncoder creates a new OpenCV encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{codec: DefaultCodec}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether this build can encode with OpenCV
func Available() bool {
	return true
}

// Encode implements video.Encoder
func (e *Encoder) Encode(ctx context.Context, req *video.EncodeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	first := gocv.IMRead(req.Frames[0], gocv.IMReadColor)
	if first.Empty() {
		return fmt.Errorf("failed to read frame: %s", req.Frames[0])
	}
	size := image.Pt(first.Cols(), first.Rows())
	first.Close()

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	writer, err := gocv.VideoWriterFile(req.OutputPath, e.codec, float64(req.FPS), size.X, size.Y, true)
	if err != nil {
		return fmt.Errorf("failed to open video writer: %w", err)
	}
	defer writer.Close()

	for _, path := range req.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFrame(writer, path, size); err != nil {
			return err
		}
	}

	return nil
}

func writeFrame(writer *gocv.VideoWriter, path string, size image.Point) error {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("failed to read frame: %s", path)
	}
	defer img.Close()

	if img.Cols() != size.X || img.Rows() != size.Y {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(img, &resized, size, 0, 0, gocv.InterpolationLinear)
		return writer.Write(resized)
	}
	return writer.Write(img)
}

// Ensure Encoder implements video.Encoder
var _ video.Encoder = (*Encoder)(nil)

package video

import "context"

// Encoder defines the interface for turning frame images into a video
// This is a port that can be implemented by different infrastructure adapters
type Encoder interface {
	// Encode writes the frames of req, in order, to req.OutputPath
	Encode(ctx context.Context, req *EncodeRequest) error
}

// FileChecker defines the interface for checking file existence
// This is used to validate that input files exist before reading them
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

package opencv

import "errors"

// DefaultCodec is the FourCC written into the MP4 container
const DefaultCodec = "mp4v"

// ErrUnavailable is returned when the binary was built without OpenCV
var ErrUnavailable = errors.New("opencv encoder requires -tags=opencv build with OpenCV installed")

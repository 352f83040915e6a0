package video

import (
	"fmt"
	"time"
)

// Timestamp represents a video position in HH:MM:SS format
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

// TimestampFromDuration converts a duration, rounding up to whole seconds
func TimestampFromDuration(d time.Duration) Timestamp {
	total := int((d + time.Second - 1) / time.Second)
	return Timestamp{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// String returns the timestamp in HH:MM:SS format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

package video

import (
	"testing"
	"time"
)

func TestTimestampFromDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"quarter second rounds up", 250 * time.Millisecond, "00:00:01"},
		{"exact seconds", 42 * time.Second, "00:00:42"},
		{"minutes", 125 * time.Second, "00:02:05"},
		{"hours", time.Hour + 30*time.Minute + 45*time.Second, "01:30:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimestampFromDuration(tt.d)
			if got.String() != tt.want {
				t.Errorf("TimestampFromDuration(%v) = %s, want %s", tt.d, got, tt.want)
			}
		})
	}
}

func TestTimestamp_TotalSeconds(t *testing.T) {
	ts := Timestamp{Hours: 1, Minutes: 2, Seconds: 3}
	if got := ts.TotalSeconds(); got != 3723 {
		t.Errorf("TotalSeconds() = %d, want 3723", got)
	}
}

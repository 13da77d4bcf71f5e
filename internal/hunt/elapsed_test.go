package hunt_test

import (
	"testing"
	"time"

	"github.com/playperu/apihunt/internal/hunt"
)

func TestFormatElapsed(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		end := start.Add(d)
		return &end
	}

	tests := []struct {
		name string
		end  *time.Time
		want string
	}{
		{name: "zero", end: at(0), want: "00:00"},
		{name: "sub-second truncates", end: at(999 * time.Millisecond), want: "00:00"},
		{name: "minute and five", end: at(65 * time.Second), want: "01:05"},
		{name: "just under a minute", end: at(59999 * time.Millisecond), want: "00:59"},
		{name: "no hour rollover", end: at(3661 * time.Second), want: "61:01"},
		{name: "end before start", end: at(-5 * time.Second), want: "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hunt.FormatElapsed(start, tt.end, start); got != tt.want {
				t.Errorf("FormatElapsed = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatElapsedRunningUsesNow(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(2*time.Minute + 30*time.Second)

	if got := hunt.FormatElapsed(start, nil, now); got != "02:30" {
		t.Errorf("FormatElapsed = %q, want %q", got, "02:30")
	}
}

func TestFormatDurationWideMinutes(t *testing.T) {
	if got := hunt.FormatDuration(100*time.Minute + 7*time.Second); got != "100:07" {
		t.Errorf("FormatDuration = %q, want %q", got, "100:07")
	}
}

package hunt

import (
	"fmt"
	"time"
)

// FormatElapsed renders the time between start and end (or now, while the
// hunt is running) as MM:SS. Minutes keep counting past 59.
func FormatElapsed(start time.Time, end *time.Time, now time.Time) string {
	stop := now
	if end != nil {
		stop = *end
	}
	return FormatDuration(stop.Sub(start))
}

// FormatDuration truncates d to whole seconds and renders it as MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

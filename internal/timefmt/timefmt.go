package timefmt

import (
	"fmt"
	"time"
)

// Elapsed formats d as "MM:SS", or "H:MM:SS" from one hour up. Partial
// seconds are dropped; negative durations format as zero.
func Elapsed(d time.Duration) string {
	total := int64(max(d, 0) / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

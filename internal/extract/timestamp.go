package extract

import (
	"fmt"
	"math"
	"time"
)

// FormatTimestamp renders a position on the video timeline as HH-MM-SS.mmm.
// Hours are not wrapped into days, milliseconds are truncated and negative
// input is treated as zero.
//
// Names sort lexically in timeline order up to 99:59:59.999. From 100 hours
// on the hour field widens to three digits and only numeric order holds.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	d := time.Duration(math.Floor(seconds*1000+1e-6)) * time.Millisecond

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond

	return fmt.Sprintf("%02d-%02d-%02d.%03d", int64(h), int64(m), int64(s), int64(ms))
}

// FrameFilename is the file name a frame at index is written under for a
// video running at frameRate.
func FrameFilename(index int, frameRate float64) string {
	var seconds float64
	if frameRate > 0 {
		seconds = float64(index) / frameRate
	}
	return "frame-" + FormatTimestamp(seconds) + ".jpg"
}

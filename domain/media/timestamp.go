package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// captureStampPattern matches the _YYMMDD-HHMMSS token cameras embed in
// segment filenames, e.g. REC_250301-093015.mp4.
var captureStampPattern = regexp.MustCompile(`_(\d{2})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})`)

// ParseCaptureTimestamp extracts the recording start time embedded in a
// filename. Two-digit years map to 2000-2099. Used as the fallback when
// the container itself carries no creation timestamp.
func ParseCaptureTimestamp(path string) (time.Time, error) {
	name := filepath.Base(path)
	m := captureStampPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoCaptureTimestamp, name)
	}

	var parts [6]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNoCaptureTimestamp, name)
		}
		parts[i] = n
	}

	year, month, day := 2000+parts[0], parts[1], parts[2]
	hour, minute, second := parts[3], parts[4], parts[5]

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes out-of-range fields; a shifted component means
	// the token was not a real calendar time.
	if int(ts.Month()) != month || ts.Day() != day || ts.Hour() != hour ||
		ts.Minute() != minute || ts.Second() != second {
		return time.Time{}, fmt.Errorf("%w: %s has impossible date fields", ErrNoCaptureTimestamp, name)
	}

	return ts, nil
}

package media

import "errors"

var (
	// ErrClipVerification is returned when an extracted clip is missing,
	// empty, undecodable, or off the requested duration
	ErrClipVerification = errors.New("clip verification failed")

	// ErrNoCaptureTimestamp is returned when a filename carries no
	// recognizable capture timestamp
	ErrNoCaptureTimestamp = errors.New("no capture timestamp in filename")
)

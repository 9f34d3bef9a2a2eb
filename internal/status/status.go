package status

import "errors"

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrInvalidTimeRange = errors.New("booking: invalid time range")
	ErrEmptyWaitlist    = errors.New("waitlist: empty")
	ErrAlreadyFinal     = errors.New("booking: already finalized")
)

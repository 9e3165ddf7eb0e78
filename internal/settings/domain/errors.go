package domain

import "errors"

// ErrInvalidSchedule rejects updates where startTime is not before endTime.
var ErrInvalidSchedule = errors.New("start time must be before end time")

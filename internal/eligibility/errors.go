package eligibility

import "errors"

// ErrMalformedBooking возвращается, когда sessionDate/startTime не складываются в валидный момент времени
var ErrMalformedBooking = errors.New("eligibility: malformed booking session time")

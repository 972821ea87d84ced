package calculations

import "errors"

// ErrInvalidInput is returned when the loan input cannot produce a
// meaningful schedule.
var ErrInvalidInput = errors.New("invalid loan input")

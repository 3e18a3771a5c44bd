package handler

import "errors"

// Validation errors for hand-parsed query parameters
var (
	errInvalidQuantityParam = errors.New("quantity must be a positive integer")
	errInvalidHorizonParam  = errors.New("horizon_days must be a positive integer")
	errInvalidDateParam     = errors.New("date must be formatted as YYYY-MM-DD")
	errInvalidStatusParam   = errors.New("unknown status value")
	errMissingScanFile      = errors.New("a scan file is required")
)

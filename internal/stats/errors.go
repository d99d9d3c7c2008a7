package stats

import "errors"

// ErrInvalidProfile is returned when a profile mutation lacks a required field.
var ErrInvalidProfile = errors.New("invalid player profile")

package domain

import "errors"

// Common validation errors returned by domain constructors.
var (
	ErrEmptyRaterID       = errors.New("rater ID cannot be empty")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrEmptyPasswordHash  = errors.New("password hash cannot be empty")
	ErrEmptyOverlaySet    = errors.New("overlay set cannot be empty")
	ErrIdenticalOverlays  = errors.New("comparison overlays must differ")
	ErrInvalidColor       = errors.New("invalid color value")
	ErrInvalidScoreValue  = errors.New("score value out of range")
	ErrMissingBoundsImage = errors.New("item has no ROI bounds screenshot")
)

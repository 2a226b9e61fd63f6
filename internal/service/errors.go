package service

import "errors"

// Caller-visible contract violations. Everything else the engine recovers
// from locally.
var (
	ErrMissingNarration = errors.New("narration is required")
	ErrEmptyImageList   = errors.New("at least one image is required")
	ErrTooManyImages    = errors.New("too many images")
	ErrInvalidRate      = errors.New("speaking rate and speed multiplier must be positive")
)

// Lookup and upstream failures
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrListingFetch = errors.New("failed to load listing photos")
)

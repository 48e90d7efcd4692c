package domain

import "errors"

var (
	// ErrAllProvidersExhausted is returned when every configured vision
	// provider was skipped or failed for a single analysis request
	ErrAllProvidersExhausted = errors.New("no provider could analyze the image")

	// ErrInvalidImage is returned when the supplied image data is empty or
	// not usable as a request payload
	ErrInvalidImage = errors.New("invalid image data")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrMealNotFound is returned when a meal cannot be found in storage
	ErrMealNotFound = errors.New("meal not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

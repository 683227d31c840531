package services

import "errors"

var (
	// ErrStoreUnavailable wraps database connection failures
	ErrStoreUnavailable = errors.New("calculation store unavailable")
	// ErrStoreConstraint reports a record that violates the schema
	ErrStoreConstraint = errors.New("calculation violates store constraints")
	// ErrUndefinedCircuity is returned when origin and destination collapse
	// to the same point: the straight-line distance is zero and the ratio
	// is undefined.
	ErrUndefinedCircuity = errors.New("circuity factor undefined for zero straight-line distance")
)

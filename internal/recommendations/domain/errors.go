package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoContent       = errors.New("no content found")
	ErrBelowThreshold  = errors.New("not enough content for recommendations")
	ErrMalformedOutput = errors.New("malformed model output")
)

// ThresholdError carries how many more items the user needs. It matches ErrBelowThreshold.
type ThresholdError struct {
	Count     int
	Remaining int
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d more", ErrBelowThreshold, e.Count, e.Remaining)
}

func (e *ThresholdError) Unwrap() error { return ErrBelowThreshold }

package trips

import "errors"

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrTripNotFound     = errors.New("trip not found")
	ErrStepNotFound     = errors.New("step not found")
	ErrGuestNotFound    = errors.New("guest not found")
	ErrDuplicateInvite  = errors.New("guest already invited to this trip")
	ErrSelfInvite       = errors.New("cannot add yourself as a guest")
	ErrValidation       = errors.New("invalid trip input")
)

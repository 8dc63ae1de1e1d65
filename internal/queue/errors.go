package queue

import "errors"

var (
	// ErrJobNotFound is returned for operations on an id the Manager has
	// never issued. Status queries are the exception: they report
	// NOT_ACTIVE instead of failing.
	ErrJobNotFound = errors.New("job not found")

	// ErrStopped is returned when submitting to a Manager that has been
	// stopped.
	ErrStopped = errors.New("queue manager is stopped")

	// ErrNotFailed is returned when resubmitting a job that has not
	// finished as EXIT.
	ErrNotFailed = errors.New("job has not failed")
)

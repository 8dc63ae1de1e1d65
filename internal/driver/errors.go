package driver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDriverClosed is returned when submitting to a driver after Close.
	ErrDriverClosed = errors.New("driver is closed")

	// ErrDriverBusy is returned when closing a driver that still owns
	// active jobs.
	ErrDriverBusy = errors.New("driver still has active jobs")
)

// ConfigurationError indicates an option or configuration value the driver
// cannot accept, e.g. an unknown option name or a missing scheduler binary.
type ConfigurationError struct {
	Option string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("invalid driver configuration: %s", e.Reason)
	}

	return fmt.Sprintf(
		"invalid driver option %s=%q: %s",
		e.Option,
		e.Value,
		e.Reason,
	)
}

// UnsupportedOperationError indicates a capability the backend does not
// implement, e.g. option handling on the local driver.
type UnsupportedOperationError struct {
	Driver    string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf(
		"driver %q does not support %s",
		e.Driver,
		e.Operation,
	)
}

// SpawnError indicates the backend process for a job could not be started.
// The local driver records it on the job, which finishes as EXIT.
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %s", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// SchedulerError indicates a scheduler command that could not be run or
// produced output the driver cannot parse. Transient failures while polling
// are tolerated up to a bound and never mutate job state.
type SchedulerError struct {
	Command string
	Output  string
	Err     error
}

func (e *SchedulerError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf(
			"scheduler command %q failed: %s: %s",
			e.Command,
			e.Err,
			strings.TrimSpace(e.Output),
		)
	}

	return fmt.Sprintf("scheduler command %q failed: %s", e.Command, e.Err)
}

func (e *SchedulerError) Unwrap() error {
	return e.Err
}

package driver

import "context"

// SubmitRequest describes one job to dispatch to a backend.
type SubmitRequest struct {
	// Executable is the program to run, as an absolute path or a name
	// resolvable on PATH.
	Executable string

	// Args are the arguments passed to the executable.
	Args []string

	// NumCPU is the number of processors to request from the backend. Zero
	// means one.
	NumCPU int

	// RunDir is the working directory for the job. When set, stdout and
	// stderr of the job are captured to files inside it.
	RunDir string

	// JobName labels the job towards the backend, e.g. bsub -J. When empty
	// the driver derives a name from the executable.
	JobName string
}

// Driver is the capability surface a dispatch backend implements. All
// methods are safe for concurrent use.
type Driver interface {
	// Submit dispatches a job and returns its bookkeeping record. The
	// record is owned by the driver until released.
	Submit(ctx context.Context, req SubmitRequest) (*Job, error)

	// Status reports the current status of a job. It is nil-safe: a nil
	// record reports StatusNotActive. Remote drivers consult the scheduler
	// at most once per poll interval.
	Status(j *Job) Status

	// Kill requests termination of a job. It never writes job status; the
	// supervising side observes the death and records the terminal status.
	// Killing a finished job is a no-op.
	Kill(j *Job) error

	// Release hands a record back to the driver. Releasing a job that is
	// still active defers the removal until it reaches a terminal status;
	// status queries against the record stay valid in the meantime.
	Release(j *Job) error

	// SetOption sets a backend option by name. Unknown names are rejected
	// with a ConfigurationError. A backend without runtime options returns
	// an UnsupportedOperationError.
	SetOption(name, value string) error

	// Option reads a backend option by name.
	Option(name string) (string, error)

	// Close shuts the driver down. It fails with ErrDriverBusy while any
	// job is still active.
	Close() error

	// Name identifies the backend, e.g. "local" or "lsf".
	Name() string
}

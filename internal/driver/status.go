package driver

import "sync/atomic"

// Status is the dispatch status of a job as seen by its driver.
type Status int

const (
	// StatusNotActive indicates no live submission is associated with the
	// record. It's used as the zero value and for queries about unknown or
	// nil records.
	StatusNotActive Status = iota

	// StatusWaiting indicates the job has been handed to the backend but is
	// not running yet, e.g. pending in a scheduler queue.
	StatusWaiting

	// StatusRunning indicates the job's process is executing.
	StatusRunning

	// StatusDone indicates the job finished with exit code zero.
	StatusDone

	// StatusExit indicates the job finished unsuccessfully: non-zero exit,
	// failure to spawn, or lost by the scheduler.
	StatusExit

	// StatusKilled indicates the job finished after termination was
	// requested through the driver.
	StatusKilled
)

// NOTE: This slice needs to be kept in sync with any changes to the Status
// values. The strings are the wire names used by the API and the CLI.
var statusNames = []string{
	"NOT_ACTIVE",
	"WAITING",
	"RUNNING",
	"DONE",
	"EXIT",
	"IS_KILLED",
}

// String implements the Stringer interface for Status and returns the wire
// name of the status by using the int value to index into a slice.
func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return statusNames[0]
	}

	return statusNames[s]
}

// Terminal returns whether the status is final. A job in a terminal status
// never transitions again.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusExit || s == StatusKilled
}

// AtomicStatus is a wrapper around an atomic.Int32 to provide atomic
// operations on a Status without explicit locking on a Job.
type AtomicStatus struct {
	v atomic.Int32
}

// Load atomically loads the Status value.
func (a *AtomicStatus) Load() Status {
	return Status(a.v.Load())
}

// Store atomically stores the Status value.
func (a *AtomicStatus) Store(s Status) {
	a.v.Store(int32(s))
}

// CompareAndSwap performs an atomic compare-and-swap operation with an old
// and new Status.
func (a *AtomicStatus) CompareAndSwap(o, n Status) bool {
	return a.v.CompareAndSwap(int32(o), int32(n))
}

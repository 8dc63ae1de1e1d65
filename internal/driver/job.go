package driver

import (
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"
)

// Job is the bookkeeping record for one dispatched job. Records are created
// and owned by the driver that submitted them.
//
// After activation only the driver's supervising side writes a terminal
// status; everything else reads. The kill flag records that termination was
// requested so the supervising side can tell a kill from an ordinary
// failure.
type Job struct {
	name     string
	spec     SubmitRequest
	remoteID string

	status        AtomicStatus
	active        atomic.Bool
	released      atomic.Bool
	killRequested atomic.Bool

	// seenByPoll records that a scheduler poll has reported the job at
	// least once, so a later disappearance means finished rather than not
	// yet visible.
	seenByPoll  atomic.Bool
	submittedAt time.Time

	proc         atomic.Pointer[os.Process]
	processState atomic.Pointer[os.ProcessState]
	spawnErr     atomic.Pointer[SpawnError]

	done chan struct{}
}

func newJob(name string, spec SubmitRequest) *Job {
	j := &Job{
		name:        name,
		spec:        spec,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
	}

	j.status.Store(StatusWaiting)

	return j
}

// Name returns the backend-facing name of the Job.
func (j *Job) Name() string {
	return j.name
}

// Status returns the status of the Job.
func (j *Job) Status() Status {
	return j.status.Load()
}

// Active returns whether the Job has a live submission, i.e. it has been
// submitted and has not reached a terminal status yet.
func (j *Job) Active() bool {
	return j.active.Load()
}

// KillRequested returns whether termination of the Job was requested.
func (j *Job) KillRequested() bool {
	return j.killRequested.Load()
}

// Handle returns the backend handle of the Job: the pid of the child
// process for local jobs, the scheduler job id for remote jobs, or an
// empty string if neither exists yet.
func (j *Job) Handle() string {
	if j.remoteID != "" {
		return j.remoteID
	}

	if p := j.proc.Load(); p != nil {
		return strconv.Itoa(p.Pid)
	}

	return ""
}

// ExitCode returns the exit code of the job's process or -1 if the process
// hasn't exited, was killed by a signal, or runs on a backend that doesn't
// report exit codes.
func (j *Job) ExitCode() int {
	ps := j.processState.Load()
	if ps == nil {
		return -1
	}

	return ps.ExitCode()
}

// Err returns the spawn failure recorded for the Job, or nil. A job with a
// spawn failure finishes as EXIT.
func (j *Job) Err() error {
	if e := j.spawnErr.Load(); e != nil {
		return e
	}

	return nil
}

// Spec returns the request the Job was submitted with. It is retained so a
// failed job can be submitted again.
func (j *Job) Spec() SubmitRequest {
	return j.spec
}

// Done returns a channel that is closed when the Job has reached a terminal
// status.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// finish records the terminal status of the Job. It must only be called by
// the supervising side of the owning driver, exactly once.
func (j *Job) finish(s Status) {
	j.status.Store(s)
	j.active.Store(false)

	close(j.done)
}

// JobName returns the backend-facing name for a request, deriving one from
// the executable when the request doesn't set one.
func JobName(req SubmitRequest) string {
	if req.JobName != "" {
		return req.JobName
	}

	return filepath.Base(req.Executable)
}

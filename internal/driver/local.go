package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var _ Driver = (*LocalDriver)(nil)

// LocalDriver runs jobs as child processes on the machine itself, with one
// supervising goroutine per job.
//
// Submit returns as soon as the record is registered; spawning happens in
// the supervising goroutine, so a program that cannot be started surfaces
// asynchronously as a job in EXIT rather than as a Submit error.
type LocalDriver struct {
	mu     sync.Mutex
	jobs   map[*Job]struct{}
	closed bool
}

// NewLocalDriver creates a LocalDriver ready to run jobs.
func NewLocalDriver() *LocalDriver {
	return &LocalDriver{
		jobs: make(map[*Job]struct{}),
	}
}

// Submit registers a job and starts its supervising goroutine. The returned
// record is already RUNNING; whether the process could actually be spawned
// is reported through the record's terminal status.
func (d *LocalDriver) Submit(
	_ context.Context,
	req SubmitRequest,
) (*Job, error) {
	if req.Executable == "" {
		return nil, &ConfigurationError{Reason: "executable cannot be empty"}
	}

	j := newJob(JobName(req), req)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDriverClosed
	}
	j.active.Store(true)
	j.status.Store(StatusRunning)
	d.jobs[j] = struct{}{}
	d.mu.Unlock()

	go d.supervise(j)

	return j, nil
}

// supervise spawns the job's process, waits for it, and records the
// terminal status. It is the only writer of the record once Submit has
// returned.
func (d *LocalDriver) supervise(j *Job) {
	cmd := exec.Command(j.spec.Executable, j.spec.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr io.Closer
	if j.spec.RunDir != "" {
		cmd.Dir = j.spec.RunDir

		var err error
		stdout, stderr, err = captureFiles(cmd, j.spec.RunDir, j.name)
		if err != nil {
			d.fail(j, &SpawnError{Executable: j.spec.Executable, Err: err})
			return
		}
	}

	if err := cmd.Start(); err != nil {
		closeAll(stdout, stderr)
		d.fail(j, &SpawnError{Executable: j.spec.Executable, Err: err})
		return
	}

	j.proc.Store(cmd.Process)

	// A kill that arrived before the pid existed is delivered now.
	if j.killRequested.Load() {
		signalGroup(cmd.Process)
	}

	cmd.Wait()

	j.processState.Store(cmd.ProcessState)
	closeAll(stdout, stderr)

	d.complete(j, terminalStatus(j))
}

// terminalStatus maps how the process ended onto the job status. A zero
// exit is DONE even when a kill was requested but lost the race.
func terminalStatus(j *Job) Status {
	ps := j.processState.Load()

	switch {
	case ps != nil && ps.Success():
		return StatusDone
	case j.killRequested.Load():
		return StatusKilled
	default:
		return StatusExit
	}
}

func (d *LocalDriver) fail(j *Job, spawnErr *SpawnError) {
	log.WithField("job", j.name).
		Errorf("Failed to start process because %s", spawnErr.Err)

	j.spawnErr.Store(spawnErr)
	d.complete(j, StatusExit)
}

// complete finishes the record and removes it from the driver if it was
// already released.
func (d *LocalDriver) complete(j *Job, s Status) {
	j.finish(s)

	d.mu.Lock()
	if j.released.Load() {
		delete(d.jobs, j)
	}
	d.mu.Unlock()
}

// Status reports the status of a job. A nil record is NOT_ACTIVE.
func (d *LocalDriver) Status(j *Job) Status {
	if j == nil {
		return StatusNotActive
	}

	return j.status.Load()
}

// Kill requests termination of a job by signalling its process group with
// SIGTERM. The supervising goroutine observes the death and records the
// terminal status; Kill itself never writes it. Killing a finished job is a
// no-op.
func (d *LocalDriver) Kill(j *Job) error {
	if j == nil || j.status.Load().Terminal() {
		return nil
	}

	j.killRequested.Store(true)

	if p := j.proc.Load(); p != nil {
		if err := signalGroup(p); err != nil {
			return errors.Wrapf(err, "failed to signal job %q", j.name)
		}
	}

	return nil
}

// Release hands a record back to the driver. While the job is still active
// the removal is deferred to the supervising goroutine.
func (d *LocalDriver) Release(j *Job) error {
	if j == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	j.released.Store(true)
	if !j.active.Load() {
		delete(d.jobs, j)
	}

	return nil
}

// SetOption is not supported by the local backend.
func (d *LocalDriver) SetOption(name, _ string) error {
	return &UnsupportedOperationError{
		Driver:    d.Name(),
		Operation: fmt.Sprintf("setting option %q", name),
	}
}

// Option is not supported by the local backend.
func (d *LocalDriver) Option(name string) (string, error) {
	return "", &UnsupportedOperationError{
		Driver:    d.Name(),
		Operation: fmt.Sprintf("reading option %q", name),
	}
}

// Close shuts the driver down. It fails with ErrDriverBusy while any job is
// still active; callers that want a fast exit kill their jobs first.
func (d *LocalDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for j := range d.jobs {
		if j.active.Load() {
			return ErrDriverBusy
		}
	}

	d.closed = true
	d.jobs = make(map[*Job]struct{})

	return nil
}

// Name identifies the backend.
func (d *LocalDriver) Name() string {
	return "local"
}

// signalGroup sends SIGTERM to the process group of p. A group that is
// already gone is not an error.
func signalGroup(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGTERM); err != nil &&
		!errors.Is(err, syscall.ESRCH) {
		return err
	}

	return nil
}

// captureFiles points the command's stdout and stderr at per-job files in
// the run directory.
func captureFiles(
	cmd *exec.Cmd,
	runDir string,
	name string,
) (io.Closer, io.Closer, error) {
	stdout, err := os.Create(filepath.Join(runDir, name+".stdout"))
	if err != nil {
		return nil, nil, err
	}

	stderr, err := os.Create(filepath.Join(runDir, name+".stderr"))
	if err != nil {
		stdout.Close()
		return nil, nil, err
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return stdout, stderr, nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			c.Close()
		}
	}
}

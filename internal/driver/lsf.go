package driver

import (
	"bufio"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Option names understood by the LSF backend.
const (
	OptionQueueName         = "QUEUE_NAME"
	OptionResourceRequest   = "RESOURCE_REQUEST"
	OptionProjectCode       = "PROJECT_CODE"
	OptionBsubCmd           = "BSUB_CMD"
	OptionBjobsCmd          = "BJOBS_CMD"
	OptionBkillCmd          = "BKILL_CMD"
	OptionPollInterval      = "POLL_INTERVAL"
	OptionMaxStatusFailures = "MAX_STATUS_FAILURES"
)

const (
	defaultPollInterval      = "5"
	defaultMaxStatusFailures = "10"

	submitAttempts   = 3
	submitRetryDelay = 500 * time.Millisecond
	killAttempts     = 2

	// missingGrace is how long a submitted job may stay invisible to bjobs
	// before its absence counts as finished. Schedulers report fresh
	// submissions with some lag.
	missingGrace = time.Minute
)

var (
	// bsub prints "Job <1234> is submitted to queue <normal>." on success.
	bsubJobID = regexp.MustCompile(`^Job <(\d+)>`)

	// Default bjobs output: JOBID USER STAT QUEUE FROM_HOST ...
	bjobsLine = regexp.MustCompile(`^(\d+)\s+\S+\s+(\S+)`)

	// bjobs reports ids it no longer knows as "Job <1234> is not found".
	bjobsNotFound = regexp.MustCompile(`Job <\d+> is not found`)
)

var _ Driver = (*LSFDriver)(nil)

// LSFDriver dispatches jobs to an LSF cluster through the scheduler's
// command line tools and tracks them by polling bjobs.
//
// Submission is synchronous: bsub has either accepted the job and printed
// its id, or Submit fails. Status is refreshed for all tracked jobs at once.
// A transient bjobs failure leaves every status untouched; only after
// MAX_STATUS_FAILURES consecutive failures are unresolved jobs finished as
// EXIT.
type LSFDriver struct {
	opts *optionStore

	mu     sync.Mutex
	jobs   map[string]*Job
	closed bool

	pollMu         sync.Mutex
	lastPoll       time.Time
	statusFailures int
}

// LSFConfig configures an LSFDriver. Empty command fields fall back to a
// PATH lookup; Options seeds the backend option table.
type LSFConfig struct {
	BsubCmd  string
	BjobsCmd string
	BkillCmd string
	Options  map[string]string
}

// NewLSFDriver creates an LSFDriver. Scheduler commands that cannot be
// resolved make construction fail with a ConfigurationError.
func NewLSFDriver(cfg LSFConfig) (*LSFDriver, error) {
	bsub, err := resolveCommand(OptionBsubCmd, cfg.BsubCmd, "bsub")
	if err != nil {
		return nil, err
	}

	bjobs, err := resolveCommand(OptionBjobsCmd, cfg.BjobsCmd, "bjobs")
	if err != nil {
		return nil, err
	}

	bkill, err := resolveCommand(OptionBkillCmd, cfg.BkillCmd, "bkill")
	if err != nil {
		return nil, err
	}

	d := &LSFDriver{
		opts: newOptionStore(map[string]string{
			OptionQueueName:         "",
			OptionResourceRequest:   "",
			OptionProjectCode:       "",
			OptionBsubCmd:           bsub,
			OptionBjobsCmd:          bjobs,
			OptionBkillCmd:          bkill,
			OptionPollInterval:      defaultPollInterval,
			OptionMaxStatusFailures: defaultMaxStatusFailures,
		}),
		jobs: make(map[string]*Job),
	}

	for name, value := range cfg.Options {
		if err := d.SetOption(name, value); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func resolveCommand(option, override, name string) (string, error) {
	if override != "" {
		return override, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ConfigurationError{
			Option: option,
			Reason: "scheduler command " + name + " not found on PATH",
		}
	}

	return path, nil
}

// Submit runs bsub and registers the job as WAITING under the id the
// scheduler assigned. Submission failures are synchronous; once a record is
// returned, everything else is reported through its status.
func (d *LSFDriver) Submit(
	ctx context.Context,
	req SubmitRequest,
) (*Job, error) {
	if req.Executable == "" {
		return nil, &ConfigurationError{Reason: "executable cannot be empty"}
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDriverClosed
	}
	d.mu.Unlock()

	name := JobName(req)
	bsub, _ := d.opts.get(OptionBsubCmd)
	args := d.bsubArgs(name, req)

	var out []byte
	err := retry.Do(
		func() error {
			var runErr error
			out, runErr = exec.CommandContext(ctx, bsub, args...).
				CombinedOutput()
			return runErr
		},
		retry.Attempts(submitAttempts),
		retry.Delay(submitRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, &SchedulerError{
			Command: bsub,
			Output:  string(out),
			Err:     err,
		}
	}

	id, ok := parseBsubID(string(out))
	if !ok {
		return nil, &SchedulerError{
			Command: bsub,
			Output:  string(out),
			Err:     errors.New("no job id in bsub output"),
		}
	}

	j := newJob(name, req)
	j.remoteID = id
	j.active.Store(true)

	d.mu.Lock()
	d.jobs[id] = j
	d.mu.Unlock()

	log.WithField("job", name).Debugf("Submitted to LSF as job %s", id)

	return j, nil
}

func (d *LSFDriver) bsubArgs(name string, req SubmitRequest) []string {
	args := []string{"-J", name}

	if req.NumCPU > 0 {
		args = append(args, "-n", strconv.Itoa(req.NumCPU))
	}

	if queue, _ := d.opts.get(OptionQueueName); queue != "" {
		args = append(args, "-q", queue)
	}

	if resource, _ := d.opts.get(OptionResourceRequest); resource != "" {
		args = append(args, "-R", resource)
	}

	if project, _ := d.opts.get(OptionProjectCode); project != "" {
		args = append(args, "-P", project)
	}

	if req.RunDir != "" {
		args = append(args,
			"-cwd", req.RunDir,
			"-o", filepath.Join(req.RunDir, "lsf.stdout"),
			"-e", filepath.Join(req.RunDir, "lsf.stderr"),
		)
	} else {
		args = append(args, "-o", "/dev/null", "-e", "/dev/null")
	}

	args = append(args, req.Executable)
	args = append(args, req.Args...)

	return args
}

func parseBsubID(out string) (string, bool) {
	for _, line := range strings.SplitAfter(out, "\n") {
		if matches := bsubJobID.FindStringSubmatch(line); len(matches) == 2 {
			return matches[1], true
		}
	}

	return "", false
}

// Status reports the status of a job, refreshing the poll table first. A
// nil record is NOT_ACTIVE and a terminal record is returned as is.
func (d *LSFDriver) Status(j *Job) Status {
	if j == nil {
		return StatusNotActive
	}

	if j.status.Load().Terminal() {
		return j.status.Load()
	}

	d.refreshStatuses()

	return j.status.Load()
}

// refreshStatuses runs bjobs for all active jobs and translates the
// scheduler states, at most once per poll interval.
func (d *LSFDriver) refreshStatuses() {
	d.pollMu.Lock()
	defer d.pollMu.Unlock()

	if time.Since(d.lastPoll) < d.pollInterval() {
		return
	}

	active := d.activeJobs()
	if len(active) == 0 {
		d.lastPoll = time.Now()
		return
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}

	bjobs, _ := d.opts.get(OptionBjobsCmd)
	out, err := exec.Command(bjobs, ids...).CombinedOutput()

	states := parseBjobs(string(out))

	// bjobs exits non-zero when every listed job has left its memory; the
	// not found lines mean it answered, not that it's unreachable.
	if err != nil && len(states) == 0 && !bjobsNotFound.Match(out) {
		d.statusFailures++

		log.WithField("driver", d.Name()).
			Errorf("Failed to poll scheduler because %s", err)

		if d.statusFailures >= d.maxStatusFailures() {
			log.WithField("driver", d.Name()).
				Errorf("Giving up on scheduler after %d consecutive poll failures", d.statusFailures)

			for _, j := range active {
				d.completeLost(j)
			}
			d.statusFailures = 0
		}

		d.lastPoll = time.Now()
		return
	}

	d.statusFailures = 0

	for id, j := range active {
		stat, known := states[id]
		if !known {
			d.completeMissing(j)
			continue
		}

		d.translate(j, stat)
	}

	d.lastPoll = time.Now()
}

func (d *LSFDriver) activeJobs() map[string]*Job {
	d.mu.Lock()
	defer d.mu.Unlock()

	active := make(map[string]*Job, len(d.jobs))
	for id, j := range d.jobs {
		if j.active.Load() {
			active[id] = j
		}
	}

	return active
}

func parseBjobs(out string) map[string]string {
	states := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if matches := bjobsLine.FindStringSubmatch(scanner.Text()); len(matches) == 3 {
			states[matches[1]] = matches[2]
		}
	}

	return states
}

// translate maps one LSF state onto the job status. Terminal scheduler
// states finish the record; UNKWN leaves the last known status in place.
func (d *LSFDriver) translate(j *Job, stat string) {
	j.seenByPoll.Store(true)

	switch stat {
	case "PEND", "PSUSP":
		j.status.Store(StatusWaiting)
	case "RUN", "USUSP", "SSUSP":
		j.status.Store(StatusRunning)
	case "DONE":
		d.complete(j, StatusDone)
	case "EXIT", "ZOMBI":
		if j.killRequested.Load() {
			d.complete(j, StatusKilled)
		} else {
			d.complete(j, StatusExit)
		}
	case "UNKWN":
	default:
		log.WithFields(log.Fields{"job": j.name, "state": stat}).
			Warn("Ignoring unrecognised scheduler state")
	}
}

// completeMissing finishes a job that a successful poll no longer reports.
// A job last seen running has completed and left the scheduler's memory; a
// job that never ran is lost. A fresh submission the scheduler has never
// reported is left alone until the grace period runs out.
func (d *LSFDriver) completeMissing(j *Job) {
	if !j.seenByPoll.Load() && time.Since(j.submittedAt) < missingGrace {
		return
	}

	switch {
	case j.killRequested.Load():
		d.complete(j, StatusKilled)
	case j.status.Load() == StatusRunning:
		d.complete(j, StatusDone)
	default:
		d.complete(j, StatusExit)
	}
}

// completeLost finishes a job whose status could not be resolved within the
// consecutive failure bound.
func (d *LSFDriver) completeLost(j *Job) {
	if j.killRequested.Load() {
		d.complete(j, StatusKilled)
	} else {
		d.complete(j, StatusExit)
	}
}

func (d *LSFDriver) complete(j *Job, s Status) {
	j.finish(s)

	d.mu.Lock()
	if j.released.Load() {
		delete(d.jobs, j.remoteID)
	}
	d.mu.Unlock()
}

// Kill requests termination through bkill. The scheduler state observed by
// the next poll decides the terminal status; a bkill failure mutates
// nothing. Killing a finished job is a no-op.
func (d *LSFDriver) Kill(j *Job) error {
	if j == nil || j.status.Load().Terminal() {
		return nil
	}

	j.killRequested.Store(true)

	bkill, _ := d.opts.get(OptionBkillCmd)

	var out []byte
	err := retry.Do(
		func() error {
			var runErr error
			out, runErr = exec.Command(bkill, j.remoteID).CombinedOutput()
			return runErr
		},
		retry.Attempts(killAttempts),
		retry.Delay(submitRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return &SchedulerError{
			Command: bkill,
			Output:  string(out),
			Err:     err,
		}
	}

	return nil
}

// Release hands a record back to the driver. While the job is still active
// the removal is deferred to the poll that finishes it.
func (d *LSFDriver) Release(j *Job) error {
	if j == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	j.released.Store(true)
	if !j.active.Load() {
		delete(d.jobs, j.remoteID)
	}

	return nil
}

// SetOption sets a backend option. Values that must be numeric are
// validated here so a bad value fails fast instead of at the next poll.
func (d *LSFDriver) SetOption(name, value string) error {
	switch name {
	case OptionPollInterval:
		if _, err := ParseInterval(value); err != nil {
			return &ConfigurationError{
				Option: name,
				Value:  value,
				Reason: "must be a positive number of seconds or a duration",
			}
		}
	case OptionMaxStatusFailures:
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return &ConfigurationError{
				Option: name,
				Value:  value,
				Reason: "must be a positive integer",
			}
		}
	}

	return d.opts.set(name, value)
}

// Option reads a backend option.
func (d *LSFDriver) Option(name string) (string, error) {
	return d.opts.get(name)
}

// Close shuts the driver down. It fails with ErrDriverBusy while any job is
// still active; remote jobs keep running under the scheduler after a close.
func (d *LSFDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, j := range d.jobs {
		if j.active.Load() {
			return ErrDriverBusy
		}
	}

	d.closed = true
	d.jobs = make(map[string]*Job)

	return nil
}

// Name identifies the backend.
func (d *LSFDriver) Name() string {
	return "lsf"
}

func (d *LSFDriver) pollInterval() time.Duration {
	value, _ := d.opts.get(OptionPollInterval)

	interval, err := ParseInterval(value)
	if err != nil {
		return 5 * time.Second
	}

	return interval
}

func (d *LSFDriver) maxStatusFailures() int {
	value, _ := d.opts.get(OptionMaxStatusFailures)

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 10
	}

	return n
}

// ParseInterval accepts either a bare number of seconds or a Go duration
// string. Option tables carry intervals as strings; this is the one place
// that interprets them.
func ParseInterval(value string) (time.Duration, error) {
	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 {
			return 0, errors.Errorf("non-positive interval %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}

	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if interval <= 0 {
		return 0, errors.Errorf("non-positive interval %s", interval)
	}

	return interval, nil
}

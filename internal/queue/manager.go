package queue

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/fjordsim/dispatch/internal/driver"
)

const defaultPollInterval = 5 * time.Second

// Config holds the queue manager tunables.
type Config struct {
	// MaxRunning bounds how many jobs may be dispatched at once. Zero
	// means unbounded.
	MaxRunning int

	// PollInterval is how often job statuses are refreshed. Zero means
	// the default of 5 seconds.
	PollInterval time.Duration

	// MaxRuntime kills jobs that run longer than this. Zero disables the
	// limit. A request may override it per job.
	MaxRuntime time.Duration
}

// SubmitRequest describes one job to queue. MaxRuntime overrides the
// manager-wide runtime limit for this job when set.
type SubmitRequest struct {
	driver.SubmitRequest

	MaxRuntime time.Duration
}

// Manager owns submitted jobs across their whole lifecycle: admission,
// dispatch to the driver, status polling, runtime limits, and the terminal
// outcome. Callers identify jobs by UUID.
type Manager struct {
	driver driver.Driver
	cfg    Config

	sem *semaphore.Weighted

	// NOTE: The entries map grows for the lifetime of the Manager. An
	// ensemble run submits a bounded number of jobs and the daemon is
	// restarted between experiments, so that's fine; a longer lived
	// deployment would want expiry of finalized entries.
	mu      sync.Mutex
	entries map[string]*entry
	stopped bool

	dispatchCtx context.Context
	cancelAll   context.CancelFunc

	stopPoll chan bool
	wg       sync.WaitGroup
}

// NewManager creates a Manager on top of a driver and starts its poll
// loop.
func NewManager(drv driver.Driver, cfg Config) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	m := &Manager{
		driver:   drv,
		cfg:      cfg,
		entries:  make(map[string]*entry),
		stopPoll: make(chan bool),
	}

	if cfg.MaxRunning > 0 {
		m.sem = semaphore.NewWeighted(int64(cfg.MaxRunning))
	}

	m.dispatchCtx, m.cancelAll = context.WithCancel(context.Background())

	m.schedulePolling()

	return m
}

func (m *Manager) schedulePolling() {
	m.wg.Add(1)

	go func() {
		for {
			start := time.Now()
			m.pollOnce()
			pollDurationHistogram.Observe(time.Since(start).Seconds())

			select {
			case <-time.After(m.cfg.PollInterval):
			case <-m.stopPoll:
				m.wg.Done()
				return
			}
		}
	}()
}

// Submit queues a job and returns its id. The id is valid immediately; the
// job itself is dispatched to the driver as soon as an admission slot is
// free.
func (m *Manager) Submit(req SubmitRequest) (string, error) {
	if req.Executable == "" {
		return "", &driver.ConfigurationError{
			Reason: "executable cannot be empty",
		}
	}

	maxRuntime := m.cfg.MaxRuntime
	if req.MaxRuntime > 0 {
		maxRuntime = req.MaxRuntime
	}

	id := uuid.NewString()
	e := newEntry(id, req.SubmitRequest, maxRuntime)

	admissionCtx, cancel := context.WithCancel(m.dispatchCtx)
	e.cancelAdmission = cancel

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		cancel()
		return "", ErrStopped
	}
	m.entries[id] = e
	m.mu.Unlock()

	submissionsCounter.WithLabelValues(m.driver.Name()).Inc()

	m.wg.Add(1)
	go m.dispatch(admissionCtx, e)

	return id, nil
}

// dispatch waits for an admission slot and hands the job to the driver. It
// returns without waiting for the job itself; the poll loop takes over
// from there.
func (m *Manager) dispatch(ctx context.Context, e *entry) {
	defer m.wg.Done()

	if m.sem != nil {
		if err := m.sem.Acquire(ctx, 1); err != nil {
			m.finalizeUndispatched(e)
			return
		}
	} else if ctx.Err() != nil {
		m.finalizeUndispatched(e)
		return
	}

	if e.wasKilled() {
		m.releaseSlot()
		e.finalize(driver.StatusKilled, "")
		return
	}

	job, err := m.driver.Submit(m.dispatchCtx, e.req)
	if err != nil {
		log.WithField("job", driver.JobName(e.req)).
			Errorf("Failed to dispatch job because %s", err)

		m.releaseSlot()
		e.finalize(driver.StatusExit, err.Error())
		return
	}

	if killedMeanwhile := e.setJob(job); killedMeanwhile {
		if err := m.driver.Kill(job); err != nil {
			log.WithField("job", e.id).
				Errorf("Failed to kill job because %s", err)
		}
	}
}

func (m *Manager) finalizeUndispatched(e *entry) {
	if e.wasKilled() {
		e.finalize(driver.StatusKilled, "")
		return
	}

	e.finalize(driver.StatusExit, "not dispatched: queue manager stopped")
}

func (m *Manager) releaseSlot() {
	if m.sem != nil {
		m.sem.Release(1)
	}
}

// pollOnce refreshes the status of every dispatched entry, enforces
// runtime limits, and finalizes entries whose jobs reached a terminal
// status.
func (m *Manager) pollOnce() {
	for _, e := range m.activeEntries() {
		job := e.jobRef()
		if job == nil {
			continue
		}

		status := m.driver.Status(job)

		if overRuntime := e.observe(status); overRuntime {
			log.WithField("job", e.id).
				Warnf("Killing job after exceeding runtime limit of %s",
					e.maxRuntime)
			killsCounter.WithLabelValues(killReasonMaxRuntime).Inc()

			if err := m.driver.Kill(job); err != nil {
				log.WithField("job", e.id).
					Errorf("Failed to kill job because %s", err)
			}
		}

		if status.Terminal() {
			m.finalizeDispatched(e, job, status)
		}
	}

	recordJobStates(m.List())
}

func (m *Manager) finalizeDispatched(
	e *entry,
	job *driver.Job,
	s driver.Status,
) {
	if !e.finalize(s, "") {
		return
	}

	m.releaseSlot()

	if err := m.driver.Release(job); err != nil {
		log.WithField("job", e.id).
			Errorf("Failed to release job record because %s", err)
	}

	log.WithFields(log.Fields{"job": e.id, "status": s.String()}).
		Info("Job finished")
}

// StatusOf reports a snapshot of the job. Unknown ids report NOT_ACTIVE
// rather than an error, so callers holding a stale id still get a usable
// answer.
func (m *Manager) StatusOf(id string) JobSnapshot {
	m.mu.Lock()
	e, exists := m.entries[id]
	m.mu.Unlock()

	if !exists {
		return JobSnapshot{
			ID:       id,
			Status:   driver.StatusNotActive,
			ExitCode: -1,
		}
	}

	return e.snapshot(m.driver.Name())
}

// Kill requests termination of a job. A job still waiting for admission is
// finalized as IS_KILLED right away; for a dispatched job the request goes
// to the driver and the status stays untouched until the supervising side
// records the terminal state.
func (m *Manager) Kill(id string) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}

	job, alreadyFinal := e.markKilled()
	if alreadyFinal {
		return nil
	}

	killsCounter.WithLabelValues(killReasonRequested).Inc()

	if job == nil {
		e.cancelAdmission()
		return nil
	}

	if err := m.driver.Kill(job); err != nil {
		return errors.Wrapf(err, "failed to kill job %s", id)
	}

	return nil
}

// Wait blocks until the job reaches a terminal status and returns the
// final snapshot.
func (m *Manager) Wait(ctx context.Context, id string) (JobSnapshot, error) {
	e, err := m.entry(id)
	if err != nil {
		return JobSnapshot{}, err
	}

	select {
	case <-e.done:
		return e.snapshot(m.driver.Name()), nil
	case <-ctx.Done():
		return JobSnapshot{}, ctx.Err()
	}
}

// List returns a snapshot of every job the Manager knows, oldest first.
func (m *Manager) List() []JobSnapshot {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	snapshots := make([]JobSnapshot, 0, len(entries))
	for _, e := range entries {
		snapshots = append(snapshots, e.snapshot(m.driver.Name()))
	}

	slices.SortFunc(snapshots, func(a, b JobSnapshot) int {
		if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return snapshots
}

// Resubmit queues a failed job again with its retained request and returns
// the new id. Only jobs that finished as EXIT can be resubmitted; whether
// and how often to retry stays with the caller.
func (m *Manager) Resubmit(id string) (string, error) {
	e, err := m.entry(id)
	if err != nil {
		return "", err
	}

	if e.currentStatus() != driver.StatusExit {
		return "", ErrNotFailed
	}

	return m.Submit(SubmitRequest{
		SubmitRequest: e.req,
		MaxRuntime:    e.maxRuntime,
	})
}

// Stop shuts the Manager down. New submissions are rejected, jobs still
// waiting for admission are finalized, and polling continues until the
// dispatched jobs finish or ctx runs out. With killRemaining set every
// dispatched job is killed first; otherwise remote jobs keep running under
// their scheduler and only the tracking stops.
func (m *Manager) Stop(ctx context.Context, killRemaining bool) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	m.mu.Unlock()

	m.cancelAll()

	if killRemaining {
		for _, e := range m.activeEntries() {
			job, alreadyFinal := e.markKilled()
			if alreadyFinal || job == nil {
				continue
			}

			killsCounter.WithLabelValues(killReasonShutdown).Inc()

			if err := m.driver.Kill(job); err != nil {
				log.WithField("job", e.id).
					Errorf("Failed to kill job because %s", err)
			}
		}
	}

	err := m.drain(ctx)

	close(m.stopPoll)
	m.wg.Wait()

	return err
}

// drain waits for the active entries to be finalized by the poll loop.
func (m *Manager) drain(ctx context.Context) error {
	check := m.cfg.PollInterval / 2
	if check < 10*time.Millisecond {
		check = 10 * time.Millisecond
	}

	for {
		if len(m.activeEntries()) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(check):
		}
	}
}

func (m *Manager) activeEntries() []*entry {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	var active []*entry
	for _, e := range entries {
		if !e.isFinalized() {
			active = append(active, e)
		}
	}

	return active
}

func (m *Manager) entry(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[id]
	if !exists {
		return nil, ErrJobNotFound
	}

	return e, nil
}

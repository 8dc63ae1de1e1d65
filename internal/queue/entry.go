package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fjordsim/dispatch/internal/driver"
)

// JobSnapshot is the caller-facing view of one queued job at a point in
// time.
type JobSnapshot struct {
	ID          string
	Name        string
	Backend     string
	Status      driver.Status
	ExitCode    int
	Handle      string
	Failure     string
	SubmittedAt time.Time
	StartedAt   time.Time
	EndedAt     time.Time
	TimedOut    bool
}

// entry is the Manager's bookkeeping for one job. The job record itself
// belongs to the driver and is released as soon as the entry is finalized;
// everything a caller may still ask for lives here.
type entry struct {
	id         string
	req        driver.SubmitRequest
	maxRuntime time.Duration

	mu          sync.Mutex
	job         *driver.Job
	status      driver.Status
	exitCode    int
	handle      string
	failure     string
	submittedAt time.Time
	startedAt   time.Time
	endedAt     time.Time
	timedOut    bool
	killed      bool
	finalized   bool

	// cancelAdmission aborts a dispatch that is still waiting for a slot.
	cancelAdmission context.CancelFunc

	done chan struct{}
}

func newEntry(id string, req driver.SubmitRequest, maxRuntime time.Duration) *entry {
	return &entry{
		id:          id,
		req:         req,
		maxRuntime:  maxRuntime,
		status:      driver.StatusWaiting,
		exitCode:    -1,
		submittedAt: time.Now(),
		done:        make(chan struct{}),
	}
}

func (e *entry) snapshot(backend string) JobSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return JobSnapshot{
		ID:          e.id,
		Name:        driver.JobName(e.req),
		Backend:     backend,
		Status:      e.status,
		ExitCode:    e.exitCode,
		Handle:      e.handle,
		Failure:     e.failure,
		SubmittedAt: e.submittedAt,
		StartedAt:   e.startedAt,
		EndedAt:     e.endedAt,
		TimedOut:    e.timedOut,
	}
}

// setJob records the driver record once dispatch succeeded and reports
// whether a kill arrived while the dispatch was in flight.
func (e *entry) setJob(j *driver.Job) (killedMeanwhile bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.job = j
	e.status = j.Status()
	e.handle = j.Handle()

	return e.killed
}

func (e *entry) jobRef() *driver.Job {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.job
}

func (e *entry) currentStatus() driver.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

// observe folds a freshly polled status into the entry and reports whether
// the entry's runtime limit has been exceeded.
func (e *entry) observe(s driver.Status) (overRuntime bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finalized {
		return false
	}

	e.status = s

	if s == driver.StatusRunning {
		if e.startedAt.IsZero() {
			e.startedAt = time.Now()
		}
		if e.job != nil && e.handle == "" {
			e.handle = e.job.Handle()
		}

		if e.maxRuntime > 0 && !e.timedOut &&
			time.Since(e.startedAt) > e.maxRuntime {
			e.timedOut = true
			return true
		}
	}

	return false
}

// markKilled flags the entry and returns the dispatched record, if any. A
// nil record with false finalized means the kill arrived before dispatch;
// the admission wait has been cancelled by the caller.
func (e *entry) markKilled() (j *driver.Job, alreadyFinal bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finalized {
		return nil, true
	}

	e.killed = true

	return e.job, false
}

func (e *entry) wasKilled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.killed
}

func (e *entry) isFinalized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.finalized
}

// finalize records the terminal outcome exactly once. It reports false if
// the entry was already finalized.
func (e *entry) finalize(s driver.Status, failure string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finalized {
		return false
	}

	e.finalized = true
	e.status = s
	e.endedAt = time.Now()

	if failure != "" {
		e.failure = failure
	}

	if e.job != nil {
		e.exitCode = e.job.ExitCode()
		if e.handle == "" {
			e.handle = e.job.Handle()
		}
		if err := e.job.Err(); err != nil && e.failure == "" {
			e.failure = err.Error()
		}
	}

	close(e.done)

	return true
}

package queue_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fjordsim/dispatch/internal/driver"
	"github.com/fjordsim/dispatch/internal/queue"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(t *testing.T, cfg queue.Config) *queue.Manager {
	t.Helper()

	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}

	m := queue.NewManager(driver.NewLocalDriver(), cfg)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		require.NoError(t, m.Stop(ctx, true))
	})

	return m
}

// gate provides jobs that signal when they start and block until released,
// so admission behaviour can be asserted without timing games.
type gate struct {
	dir string
}

func newGate(t *testing.T) *gate {
	t.Helper()

	return &gate{dir: t.TempDir()}
}

func (g *gate) request(name string) queue.SubmitRequest {
	script := fmt.Sprintf(
		"touch %s/started.%s; while [ ! -f %s/release ]; do sleep 0.02; done",
		g.dir, name, g.dir,
	)

	return queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{
			Executable: "sh",
			Args:       []string{"-c", script},
			JobName:    name,
		},
	}
}

func (g *gate) started() int {
	matches, _ := filepath.Glob(filepath.Join(g.dir, "started.*"))

	return len(matches)
}

func (g *gate) release(t *testing.T) {
	t.Helper()

	err := os.WriteFile(filepath.Join(g.dir, "release"), nil, 0o644)
	require.NoError(t, err)
}

func waitStatus(
	t *testing.T,
	m *queue.Manager,
	id string,
	want driver.Status,
) {
	t.Helper()

	require.Eventuallyf(t, func() bool {
		return m.StatusOf(id).Status == want
	}, 10*time.Second, 5*time.Millisecond,
		"job %s never reached %s, last status %s",
		id, want, m.StatusOf(id).Status)
}

func TestManagerRunToCompletion(t *testing.T) {
	m := newTestManager(t, queue.Config{})

	id, err := m.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{
			Executable: "echo",
			Args:       []string{"Hello, world!"},
			JobName:    "hello",
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := m.Wait(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, driver.StatusDone, snap.Status)
	assert.Equal(t, 0, snap.ExitCode)
	assert.Equal(t, "hello", snap.Name)
	assert.Equal(t, "local", snap.Backend)
	assert.False(t, snap.EndedAt.IsZero())

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestManagerFailedJob(t *testing.T) {
	m := newTestManager(t, queue.Config{})

	id, err := m.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{
			Executable: "sh",
			Args:       []string{"-c", "exit 3"},
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := m.Wait(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, driver.StatusExit, snap.Status)
	assert.Equal(t, 3, snap.ExitCode)
}

func TestManagerAdmissionBound(t *testing.T) {
	m := newTestManager(t, queue.Config{MaxRunning: 2})
	g := newGate(t)

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		id, err := m.Submit(g.request(fmt.Sprintf("member%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// Two slots fill up and stay full; the other jobs keep waiting.
	require.Eventually(t, func() bool {
		return g.started() == 2
	}, 10*time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, g.started())

	running := 0
	for _, snap := range m.List() {
		if snap.Status == driver.StatusRunning {
			running++
		}
	}
	assert.LessOrEqual(t, running, 2)

	g.release(t)

	for _, id := range ids {
		waitStatus(t, m, id, driver.StatusDone)
	}

	assert.Equal(t, 5, g.started())
}

func TestManagerKillRunning(t *testing.T) {
	m := newTestManager(t, queue.Config{})
	g := newGate(t)

	id, err := m.Submit(g.request("victim"))
	require.NoError(t, err)

	waitStatus(t, m, id, driver.StatusRunning)

	require.NoError(t, m.Kill(id))

	waitStatus(t, m, id, driver.StatusKilled)

	// Killing a finished job is a no-op.
	require.NoError(t, m.Kill(id))
}

func TestManagerKillWaitingForAdmission(t *testing.T) {
	m := newTestManager(t, queue.Config{MaxRunning: 1})
	g := newGate(t)

	first, err := m.Submit(g.request("holder"))
	require.NoError(t, err)

	waitStatus(t, m, first, driver.StatusRunning)

	second, err := m.Submit(g.request("queued"))
	require.NoError(t, err)

	assert.Equal(t, driver.StatusWaiting, m.StatusOf(second).Status)

	// The queued job never held a slot, so the kill resolves without the
	// driver ever seeing it.
	require.NoError(t, m.Kill(second))

	waitStatus(t, m, second, driver.StatusKilled)
	assert.Empty(t, m.StatusOf(second).Handle)

	g.release(t)
	waitStatus(t, m, first, driver.StatusDone)
}

func TestManagerUnknownID(t *testing.T) {
	m := newTestManager(t, queue.Config{})

	snap := m.StatusOf("0198c2be-no-such-id")
	assert.Equal(t, driver.StatusNotActive, snap.Status)
	assert.Equal(t, -1, snap.ExitCode)

	require.ErrorIs(t, m.Kill("nope"), queue.ErrJobNotFound)

	_, err := m.Wait(context.Background(), "nope")
	require.ErrorIs(t, err, queue.ErrJobNotFound)

	_, err = m.Resubmit("nope")
	require.ErrorIs(t, err, queue.ErrJobNotFound)
}

func TestManagerMaxRuntime(t *testing.T) {
	m := newTestManager(t, queue.Config{})
	g := newGate(t)

	req := g.request("runaway")
	req.MaxRuntime = 150 * time.Millisecond

	id, err := m.Submit(req)
	require.NoError(t, err)

	waitStatus(t, m, id, driver.StatusKilled)

	snap := m.StatusOf(id)
	assert.True(t, snap.TimedOut)
}

func TestManagerResubmit(t *testing.T) {
	m := newTestManager(t, queue.Config{})

	id, err := m.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{
			Executable: "sh",
			Args:       []string{"-c", "exit 3"},
			JobName:    "flaky",
		},
	})
	require.NoError(t, err)

	waitStatus(t, m, id, driver.StatusExit)

	retryID, err := m.Resubmit(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, retryID)

	waitStatus(t, m, retryID, driver.StatusExit)
	assert.Equal(t, "flaky", m.StatusOf(retryID).Name)

	// Only failed jobs can be resubmitted.
	okID, err := m.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{Executable: "true"},
	})
	require.NoError(t, err)

	waitStatus(t, m, okID, driver.StatusDone)

	_, err = m.Resubmit(okID)
	require.ErrorIs(t, err, queue.ErrNotFailed)
}

func TestManagerSubmitValidation(t *testing.T) {
	m := newTestManager(t, queue.Config{})

	_, err := m.Submit(queue.SubmitRequest{})

	var confErr *driver.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestManagerStop(t *testing.T) {
	m := queue.NewManager(
		driver.NewLocalDriver(),
		queue.Config{PollInterval: 10 * time.Millisecond},
	)
	g := newGate(t)

	id, err := m.Submit(g.request("survivor"))
	require.NoError(t, err)

	waitStatus(t, m, id, driver.StatusRunning)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, m.Stop(ctx, true))

	assert.Equal(t, driver.StatusKilled, m.StatusOf(id).Status)

	_, err = m.Submit(queue.SubmitRequest{
		SubmitRequest: driver.SubmitRequest{Executable: "echo"},
	})
	require.ErrorIs(t, err, queue.ErrStopped)

	// Stopping twice is fine.
	require.NoError(t, m.Stop(ctx, true))
}

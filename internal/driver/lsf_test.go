package driver_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fjordsim/dispatch/internal/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScheduler provides fake bsub/bjobs/bkill scripts in a temp directory
// so the LSF driver can be exercised without a cluster. Tests drive the
// scheduler by writing the bjobs report file.
type stubScheduler struct {
	dir string
}

func newStubScheduler(t *testing.T) *stubScheduler {
	t.Helper()

	s := &stubScheduler{dir: t.TempDir()}

	s.writeScript(t, "bsub", fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$*" >> %q
n=$(cat %q 2>/dev/null || echo 100)
n=$((n+1))
echo "$n" > %q
echo "Job <$n> is submitted to queue <normal>."
`,
		s.path("bsub.args"), s.path("bsub.count"), s.path("bsub.count")))

	s.writeScript(t, "bjobs", fmt.Sprintf(`#!/bin/sh
if [ -f %q ]; then
	echo "cannot connect to mbatchd" >&2
	exit 255
fi
cat %q 2>/dev/null
`,
		s.path("bjobs.fail"), s.path("bjobs.out")))

	s.writeScript(t, "bkill", fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$1" >> %q
`,
		s.path("bkill.args")))

	return s
}

func (s *stubScheduler) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *stubScheduler) writeScript(t *testing.T, name, content string) {
	t.Helper()

	err := os.WriteFile(s.path(name), []byte(content), 0o755)
	require.NoError(t, err)
}

func (s *stubScheduler) config(options map[string]string) driver.LSFConfig {
	merged := map[string]string{driver.OptionPollInterval: "1ms"}
	for name, value := range options {
		merged[name] = value
	}

	return driver.LSFConfig{
		BsubCmd:  s.path("bsub"),
		BjobsCmd: s.path("bjobs"),
		BkillCmd: s.path("bkill"),
		Options:  merged,
	}
}

// report writes a bjobs listing with the given "id state" pairs.
func (s *stubScheduler) report(t *testing.T, jobs ...string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("JOBID   USER    STAT  QUEUE      FROM_HOST\n")
	for _, j := range jobs {
		parts := strings.Fields(j)
		fmt.Fprintf(&b, "%-7s ole     %-5s normal     host01\n",
			parts[0], parts[1])
	}

	err := os.WriteFile(s.path("bjobs.out"), []byte(b.String()), 0o644)
	require.NoError(t, err)
}

func (s *stubScheduler) failPolls(t *testing.T) {
	t.Helper()

	err := os.WriteFile(s.path("bjobs.fail"), nil, 0o644)
	require.NoError(t, err)
}

func (s *stubScheduler) bsubArgs(t *testing.T) string {
	t.Helper()

	out, err := os.ReadFile(s.path("bsub.args"))
	require.NoError(t, err)

	return string(out)
}

func newStubbedDriver(
	t *testing.T,
	options map[string]string,
) (*driver.LSFDriver, *stubScheduler) {
	t.Helper()

	s := newStubScheduler(t)

	d, err := driver.NewLSFDriver(s.config(options))
	require.NoError(t, err)

	return d, s
}

func eventuallyStatus(
	t *testing.T,
	d *driver.LSFDriver,
	j *driver.Job,
	want driver.Status,
) {
	t.Helper()

	require.Eventuallyf(t, func() bool {
		return d.Status(j) == want
	}, 5*time.Second, 10*time.Millisecond,
		"job %q never reached %s, last status %s",
		j.Name(), want, d.Status(j))
}

func TestLSFDriverMissingCommands(t *testing.T) {
	// An empty PATH means no scheduler binaries to find.
	t.Setenv("PATH", t.TempDir())

	_, err := driver.NewLSFDriver(driver.LSFConfig{})

	var confErr *driver.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestLSFDriverSubmit(t *testing.T) {
	d, s := newStubbedDriver(t, map[string]string{
		driver.OptionQueueName:       "night",
		driver.OptionResourceRequest: "select[mem>4000]",
		driver.OptionProjectCode:     "fjord",
	})

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
		Args:       []string{"--member", "7"},
		NumCPU:     4,
		JobName:    "poly_7",
	})
	require.NoError(t, err)

	assert.Equal(t, "101", job.Handle())
	assert.Equal(t, "poly_7", job.Name())
	assert.Equal(t, driver.StatusWaiting, job.Status())

	args := s.bsubArgs(t)
	assert.Contains(t, args, "-J poly_7")
	assert.Contains(t, args, "-n 4")
	assert.Contains(t, args, "-q night")
	assert.Contains(t, args, "-R select[mem>4000]")
	assert.Contains(t, args, "-P fjord")
	assert.Contains(t, args, "/usr/bin/simulate --member 7")
}

func TestLSFDriverSubmitFailure(t *testing.T) {
	s := newStubScheduler(t)
	s.writeScript(t, "bsub", "#!/bin/sh\necho 'Bad queue' >&2\nexit 255\n")

	d, err := driver.NewLSFDriver(s.config(nil))
	require.NoError(t, err)

	_, err = d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})

	var schedErr *driver.SchedulerError
	require.ErrorAs(t, err, &schedErr)
	assert.Contains(t, schedErr.Output, "Bad queue")
}

func TestLSFDriverSubmitGarbageOutput(t *testing.T) {
	s := newStubScheduler(t)
	s.writeScript(t, "bsub", "#!/bin/sh\necho 'Verbose scheduler banner'\n")

	d, err := driver.NewLSFDriver(s.config(nil))
	require.NoError(t, err)

	_, err = d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})

	var schedErr *driver.SchedulerError
	require.ErrorAs(t, err, &schedErr)
}

func TestLSFDriverStateTranslation(t *testing.T) {
	d, s := newStubbedDriver(t, nil)

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.NoError(t, err)

	// Not listed yet: a fresh submission stays WAITING through the grace
	// period instead of being declared lost.
	assert.Equal(t, driver.StatusWaiting, d.Status(job))

	s.report(t, "101 PEND")
	eventuallyStatus(t, d, job, driver.StatusWaiting)

	s.report(t, "101 RUN")
	eventuallyStatus(t, d, job, driver.StatusRunning)

	// Suspended jobs still count as running.
	s.report(t, "101 USUSP")
	eventuallyStatus(t, d, job, driver.StatusRunning)

	s.report(t, "101 DONE")
	eventuallyStatus(t, d, job, driver.StatusDone)

	assert.True(t, d.Status(job).Terminal())
	require.NoError(t, d.Release(job))
	require.NoError(t, d.Close())
}

func TestLSFDriverVanishedAfterRunning(t *testing.T) {
	d, s := newStubbedDriver(t, nil)

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.NoError(t, err)

	s.report(t, "101 RUN")
	eventuallyStatus(t, d, job, driver.StatusRunning)

	// The job finished and fell out of the scheduler's memory.
	s.report(t)
	eventuallyStatus(t, d, job, driver.StatusDone)
}

func TestLSFDriverVanishedBeforeRunning(t *testing.T) {
	d, s := newStubbedDriver(t, nil)

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.NoError(t, err)

	s.report(t, "101 PEND")
	eventuallyStatus(t, d, job, driver.StatusWaiting)

	s.report(t)
	eventuallyStatus(t, d, job, driver.StatusExit)
}

func TestLSFDriverKill(t *testing.T) {
	d, s := newStubbedDriver(t, nil)

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.NoError(t, err)

	s.report(t, "101 RUN")
	eventuallyStatus(t, d, job, driver.StatusRunning)

	require.NoError(t, d.Kill(job))

	killed, err := os.ReadFile(s.path("bkill.args"))
	require.NoError(t, err)
	assert.Equal(t, "101\n", string(killed))

	// Kill never writes status; the next poll does.
	s.report(t, "101 EXIT")
	eventuallyStatus(t, d, job, driver.StatusKilled)

	// Killing a finished job is a no-op that runs no command.
	require.NoError(t, d.Kill(job))
	killed, err = os.ReadFile(s.path("bkill.args"))
	require.NoError(t, err)
	assert.Equal(t, "101\n", string(killed))
}

func TestLSFDriverPollFailures(t *testing.T) {
	t.Run("transient failures leave status untouched", func(t *testing.T) {
		d, s := newStubbedDriver(t, map[string]string{
			driver.OptionMaxStatusFailures: "1000",
		})

		job, err := d.Submit(context.Background(), driver.SubmitRequest{
			Executable: "/usr/bin/simulate",
		})
		require.NoError(t, err)

		s.report(t, "101 RUN")
		eventuallyStatus(t, d, job, driver.StatusRunning)

		s.failPolls(t)

		for i := 0; i < 5; i++ {
			time.Sleep(5 * time.Millisecond)
			assert.Equal(t, driver.StatusRunning, d.Status(job))
		}
	})

	t.Run("jobs are lost after the failure bound", func(t *testing.T) {
		d, s := newStubbedDriver(t, map[string]string{
			driver.OptionMaxStatusFailures: "3",
		})

		job, err := d.Submit(context.Background(), driver.SubmitRequest{
			Executable: "/usr/bin/simulate",
		})
		require.NoError(t, err)

		s.report(t, "101 RUN")
		eventuallyStatus(t, d, job, driver.StatusRunning)

		s.failPolls(t)
		eventuallyStatus(t, d, job, driver.StatusExit)
	})
}

func TestLSFDriverOptions(t *testing.T) {
	d, _ := newStubbedDriver(t, nil)

	require.NoError(t, d.SetOption(driver.OptionQueueName, "normal"))

	queue, err := d.Option(driver.OptionQueueName)
	require.NoError(t, err)
	assert.Equal(t, "normal", queue)

	var confErr *driver.ConfigurationError

	err = d.SetOption("NO_SUCH_OPTION", "value")
	require.ErrorAs(t, err, &confErr)

	_, err = d.Option("NO_SUCH_OPTION")
	require.ErrorAs(t, err, &confErr)

	err = d.SetOption(driver.OptionPollInterval, "not-a-number")
	require.ErrorAs(t, err, &confErr)

	err = d.SetOption(driver.OptionMaxStatusFailures, "0")
	require.ErrorAs(t, err, &confErr)
}

func TestLSFDriverClose(t *testing.T) {
	d, s := newStubbedDriver(t, nil)

	job, err := d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.NoError(t, err)

	s.report(t, "101 RUN")
	eventuallyStatus(t, d, job, driver.StatusRunning)

	require.ErrorIs(t, d.Close(), driver.ErrDriverBusy)

	s.report(t, "101 DONE")
	eventuallyStatus(t, d, job, driver.StatusDone)

	require.NoError(t, d.Close())

	_, err = d.Submit(context.Background(), driver.SubmitRequest{
		Executable: "/usr/bin/simulate",
	})
	require.ErrorIs(t, err, driver.ErrDriverClosed)
}

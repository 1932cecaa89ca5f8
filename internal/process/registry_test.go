//go:build !windows

package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pollUntilExited polls the registry until the process has a recorded exit
// status or the deadline passes.
func pollUntilExited(t *testing.T, r *Registry, id int, deadline time.Duration) (int, string) {
	t.Helper()
	timeout := time.After(deadline)
	for {
		r.Poll()
		status, output, ok := r.Get(id)
		require.True(t, ok, "id issued by Spawn must always resolve")
		if status != nil {
			return *status, output
		}
		select {
		case <-timeout:
			t.Fatalf("process %d did not exit within %v; output so far: %q", id, deadline, output)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSpawnEchoCollectsOutputAndExitCode(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("echo hi", t.TempDir())
	require.NoError(t, err)

	status, output := pollUntilExited(t, r, id, 5*time.Second)
	require.Equal(t, 0, status)
	require.Contains(t, output, "hi\n")
}

func TestSpawnCapturesStderr(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("echo oops 1>&2; exit 3", t.TempDir())
	require.NoError(t, err)

	status, output := pollUntilExited(t, r, id, 5*time.Second)
	require.Equal(t, 3, status)
	require.Contains(t, output, "oops")
}

func TestIdsAreStrictlyIncreasingAndNeverReused(t *testing.T) {
	r := NewRegistry(nil)

	var ids []int
	for i := 0; i < 5; i++ {
		id, err := r.Spawn("true", t.TempDir())
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}

	// Records are never evicted: every issued id stays resolvable.
	for _, id := range ids {
		pollUntilExited(t, r, id, 5*time.Second)
		_, _, ok := r.Get(id)
		require.True(t, ok)
	}
}

func TestGetUnknownID(t *testing.T) {
	r := NewRegistry(nil)
	_, _, ok := r.Get(42)
	require.False(t, ok)
}

func TestPollIsIdempotentWithoutNewActivity(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("echo done", t.TempDir())
	require.NoError(t, err)
	pollUntilExited(t, r, id, 5*time.Second)

	// All events delivered; two consecutive polls both report empty deltas.
	require.Empty(t, r.Poll())
	require.Empty(t, r.Poll())
}

func TestCancelLongRunningProcess(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("sleep 30", t.TempDir())
	require.NoError(t, err)

	// Give the shell a moment to actually start the sleep.
	time.Sleep(50 * time.Millisecond)
	r.Cancel(id)

	status, _ := pollUntilExited(t, r, id, 5*time.Second)
	require.NotEqual(t, 0, status, "killed process must not report success")
}

func TestCancelAfterExitIsANoOp(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("exit 7", t.TempDir())
	require.NoError(t, err)
	status, _ := pollUntilExited(t, r, id, 5*time.Second)
	require.Equal(t, 7, status)

	r.Cancel(id)
	r.Cancel(id)
	r.Poll()

	after, _, ok := r.Get(id)
	require.True(t, ok)
	require.NotNil(t, after)
	require.Equal(t, 7, *after, "recorded status is immutable once set")
}

func TestStopAllCancelsEveryRunningProcess(t *testing.T) {
	r := NewRegistry(nil)

	var ids []int
	for i := 0; i < 3; i++ {
		id, err := r.Spawn("sleep 30", t.TempDir())
		require.NoError(t, err)
		ids = append(ids, id)
	}
	time.Sleep(50 * time.Millisecond)

	r.StopAll()
	for _, id := range ids {
		pollUntilExited(t, r, id, 5*time.Second)
	}

	for _, st := range r.statuses() {
		require.False(t, st.IsActive)
	}
}

func TestSpawnInvalidWorkingDirectory(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Spawn("echo hi", "/definitely/not/a/dir")
	require.Error(t, err)
}

func TestOutputAccumulatesBetweenPolls(t *testing.T) {
	r := NewRegistry(nil)

	id, err := r.Spawn("echo one; sleep 0.2; echo two", t.TempDir())
	require.NoError(t, err)

	status, output := pollUntilExited(t, r, id, 5*time.Second)
	require.Equal(t, 0, status)
	require.Contains(t, output, "one\n")
	require.Contains(t, output, "two\n")
}

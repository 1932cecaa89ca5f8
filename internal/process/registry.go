package process

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hcengineering/huly-coder/internal/models"
)

// Registry owns any number of concurrently running external commands. Each
// spawned command gets three background goroutines: a stdout reader, a
// stderr reader, and a supervisor racing natural exit against cooperative
// cancellation. They communicate with the registry only through the
// per-process event queue; none of them ever touches the record map.
//
// The registry imposes no internal timer. Callers drain accumulated events
// with Poll at whatever cadence suits them; output keeps accumulating in
// the queues even when nobody polls.
type Registry struct {
	mu      sync.RWMutex
	counter int
	procs   map[int]*record
	logger  *zap.Logger
}

type record struct {
	command    string
	output     string
	exitStatus *int
	events     *eventQueue
	cancel     chan struct{}
	cancelOnce *sync.Once
}

type event struct {
	line   string
	exited bool
	status int
}

// eventQueue is an unbounded, order-preserving, many-producer/single-consumer
// queue. Readers and the supervisor push; the registry drains under its own
// lock.
type eventQueue struct {
	mu    sync.Mutex
	items []event
}

func (q *eventQueue) push(e event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
}

func (q *eventQueue) drain() []event {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// NewRegistry creates an empty registry. logger may be nil.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		procs:  make(map[int]*record),
		logger: logger,
	}
}

// Spawn launches command through the system shell in its own process group
// and returns its handle. Ids are strictly increasing and never reused.
// Spawn returns as soon as the process has started; no output has
// necessarily arrived yet.
func (r *Registry) Spawn(command, cwd string) (int, error) {
	cmd := exec.Command(shellExecutable, shellFlag, command)
	cmd.Dir = cwd
	// No stdin pipe: stdin forwarding via TerminalData is unimplemented.
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to get stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to get stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to spawn %q: %w", command, err)
	}

	queue := &eventQueue{}
	cancel := make(chan struct{})

	var readers sync.WaitGroup
	readers.Add(2)
	go readLines(stdout, queue, &readers)
	go readLines(stderr, queue, &readers)
	go r.supervise(cmd, queue, cancel, &readers)

	r.mu.Lock()
	r.counter++
	id := r.counter
	r.procs[id] = &record{
		command:    command,
		events:     queue,
		cancel:     cancel,
		cancelOnce: &sync.Once{},
	}
	r.mu.Unlock()

	r.logger.Info("spawned command", zap.Int("id", id), zap.String("command", command))
	return id, nil
}

// readLines forwards line-buffered chunks until EOF or read error.
func readLines(pipe io.Reader, queue *eventQueue, readers *sync.WaitGroup) {
	defer readers.Done()
	reader := bufio.NewReader(pipe)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			queue.push(event{line: line})
		}
		if err != nil {
			return
		}
	}
}

// supervise races natural process exit against the cancellation signal.
// First to complete wins. On cancellation the whole process group is killed
// and the real exit code is still collected, falling back to a sentinel
// when the runtime cannot produce one. Exactly one exit event is pushed.
func (r *Registry) supervise(cmd *exec.Cmd, queue *eventQueue, cancel <-chan struct{}, readers *sync.WaitGroup) {
	done := make(chan error, 1)
	go func() {
		// Pipes must be fully drained before Wait reclaims them.
		readers.Wait()
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		queue.push(event{exited: true, status: exitCode(cmd, err)})
	case <-cancel:
		killProcessGroup(cmd)
		err := <-done
		queue.push(event{exited: true, status: exitCode(cmd, err)})
	}
}

const killedSentinelStatus = -1

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return killedSentinelStatus
}

// Poll synchronously drains every event produced so far into the matching
// records and returns a status snapshot for each record that changed. It is
// cheap, non-blocking, and idempotent with respect to already-delivered
// data: with no new process activity it returns an empty delta.
func (r *Registry) Poll() []models.CommandStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []models.CommandStatus
	for id, rec := range r.procs {
		if rec.exitStatus != nil {
			continue
		}
		events := rec.events.drain()
		if len(events) == 0 {
			continue
		}
		for _, ev := range events {
			if ev.exited {
				if rec.exitStatus == nil {
					status := ev.status
					rec.exitStatus = &status
				}
			} else {
				rec.output += ev.line
			}
		}
		changed = append(changed, models.CommandStatus{
			ID:       id,
			Command:  rec.command,
			Output:   rec.output,
			IsActive: rec.exitStatus == nil,
		})
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].ID < changed[j].ID })
	return changed
}

// Get returns a point-in-time snapshot of the process with the given id.
// ok is false only if id was never issued by Spawn. The exit status is nil
// while the process is still running.
func (r *Registry) Get(id int) (exitStatus *int, output string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, exists := r.procs[id]
	if !exists {
		return nil, "", false
	}
	return rec.exitStatus, rec.output, true
}

// Cancel fires the one-shot cancellation signal for the process if it has
// not yet been observed as exited. Idempotent; a no-op once the exit status
// is recorded.
func (r *Registry) Cancel(id int) {
	r.mu.RLock()
	rec, exists := r.procs[id]
	r.mu.RUnlock()
	if !exists || rec.exitStatus != nil {
		return
	}
	rec.cancelOnce.Do(func() {
		close(rec.cancel)
	})
	r.logger.Info("cancel requested", zap.Int("id", id))
}

// StopAll cancels every still-running process. Records are kept so their
// final output and status remain queryable.
func (r *Registry) StopAll() {
	r.mu.RLock()
	ids := make([]int, 0, len(r.procs))
	for id, rec := range r.procs {
		if rec.exitStatus == nil {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	if len(ids) > 0 {
		r.logger.Info("stopping all running commands", zap.Int("count", len(ids)))
	}
	for _, id := range ids {
		r.Cancel(id)
	}
}

// statuses returns a snapshot of every process ever spawned, ordered by id.
func (r *Registry) statuses() []models.CommandStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	statuses := make([]models.CommandStatus, 0, len(r.procs))
	for id, rec := range r.procs {
		statuses = append(statuses, models.CommandStatus{
			ID:       id,
			Command:  rec.command,
			Output:   rec.output,
			IsActive: rec.exitStatus == nil,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}

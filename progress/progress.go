// Package progress provides a terminal-aware task tracker for batch
// operations. Running tasks show a spinner; on non-interactive output each
// task prints a single status line when it finishes.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/barlind/bleurgh/cliout"
)

// TaskStatus represents the status of a single task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
	TaskStatusSkipped TaskStatus = "skipped"
)

const refreshInterval = 250 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Task is a single tracked operation.
type Task struct {
	mu          sync.Mutex
	description string
	detail      string
	status      TaskStatus
	errMsg      string
}

// SetDetail updates the short detail shown next to the description,
// e.g. the key currently being purged.
func (t *Task) SetDetail(detail string) {
	t.mu.Lock()
	t.detail = detail
	t.mu.Unlock()
}

// Start marks the task as running.
func (t *Task) Start() {
	t.setStatus(TaskStatusRunning, "")
}

// Complete marks the task as finished successfully.
func (t *Task) Complete() {
	t.setStatus(TaskStatusSuccess, "")
}

// Fail marks the task as failed with the given message.
func (t *Task) Fail(errMsg string) {
	t.setStatus(TaskStatusFailed, errMsg)
}

// Skip marks the task as skipped.
func (t *Task) Skip() {
	t.setStatus(TaskStatusSkipped, "")
}

func (t *Task) setStatus(status TaskStatus, errMsg string) {
	t.mu.Lock()
	t.status = status
	t.errMsg = errMsg
	t.mu.Unlock()
}

// Status returns the task's current status.
func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) snapshot() (string, string, TaskStatus, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.description, t.detail, t.status, t.errMsg
}

// Tracker renders a set of tasks. On a terminal it repaints all task lines
// in place on a ticker; otherwise rendering is skipped and callers rely on
// Summary for the final report.
type Tracker struct {
	mu          sync.Mutex
	tasks       []*Task
	interactive bool
	stopChan    chan struct{}
	stopped     bool
	painted     int
}

// NewTracker creates a Tracker. Live rendering is enabled only when stdout
// is a terminal.
func NewTracker() *Tracker {
	return &Tracker{
		interactive: term.IsTerminal(int(os.Stdout.Fd())),
		stopChan:    make(chan struct{}),
	}
}

// Add registers a new pending task.
func (tr *Tracker) Add(description string) *Task {
	task := &Task{description: description, status: TaskStatusPending}
	tr.mu.Lock()
	tr.tasks = append(tr.tasks, task)
	tr.mu.Unlock()
	return task
}

// Start begins live rendering. A no-op on non-interactive output.
func (tr *Tracker) Start() {
	if !tr.interactive {
		return
	}
	fmt.Print("\033[?25l")
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tr.stopChan:
				return
			case <-ticker.C:
				tr.render(time.Now())
			}
		}
	}()
}

// Stop halts rendering and paints the final task states.
func (tr *Tracker) Stop() {
	tr.mu.Lock()
	if tr.stopped {
		tr.mu.Unlock()
		return
	}
	tr.stopped = true
	tr.mu.Unlock()
	close(tr.stopChan)

	if !tr.interactive {
		return
	}
	tr.render(time.Now())
	fmt.Print("\033[?25h")
}

// Summary prints one line per task plus a closing count. On interactive
// output the per-task lines were already painted by Stop, so only failures
// and the count are reported.
func (tr *Tracker) Summary() {
	tr.mu.Lock()
	tasks := make([]*Task, len(tr.tasks))
	copy(tasks, tr.tasks)
	tr.mu.Unlock()

	succeeded := 0
	var failed []string
	for _, task := range tasks {
		description, detail, status, errMsg := task.snapshot()
		switch status {
		case TaskStatusSuccess:
			succeeded++
			if !tr.interactive {
				cliout.Success("%s", formatTask(description, detail))
			}
		case TaskStatusFailed:
			failed = append(failed, description)
			if !tr.interactive {
				cliout.Error("%s: %s", description, errMsg)
			}
		case TaskStatusSkipped:
			if !tr.interactive {
				cliout.Info("%s (skipped)", description)
			}
		}
	}

	if len(tasks) > 1 {
		cliout.Info("%d of %d succeeded", succeeded, len(tasks))
	}
	for _, description := range failed {
		cliout.Warning("failed: %s", description)
	}
}

// render repaints every task line in place, moving the cursor back up over
// the previously painted block.
func (tr *Tracker) render(now time.Time) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.painted > 0 {
		fmt.Printf("\033[%dA", tr.painted)
	}

	for _, task := range tr.tasks {
		description, detail, status, errMsg := task.snapshot()
		fmt.Print("\r\033[K")
		fmt.Println(statusLine(description, detail, status, errMsg, now))
	}
	tr.painted = len(tr.tasks)
}

func statusLine(description, detail string, status TaskStatus, errMsg string, now time.Time) string {
	var icon string
	switch status {
	case TaskStatusRunning:
		icon = spinnerFrame(now)
	case TaskStatusSuccess:
		icon = cliout.SymbolCheck
	case TaskStatusFailed:
		icon = cliout.SymbolCross
	case TaskStatusSkipped:
		icon = "-"
	default:
		icon = " "
	}

	line := fmt.Sprintf("%s %s", icon, formatTask(description, detail))
	if status == TaskStatusFailed && errMsg != "" {
		line += fmt.Sprintf(" (%s)", errMsg)
	}
	return line
}

func formatTask(description, detail string) string {
	if detail == "" {
		return description
	}
	return fmt.Sprintf("%s %s", description, detail)
}

func spinnerFrame(t time.Time) string {
	i := int(t.UnixMilli()/int64(refreshInterval/time.Millisecond)) % len(spinnerFrames)
	return spinnerFrames[i]
}

// FormatStatusLines renders a static block of task lines, used by tests and
// non-tty callers that want the final block as a string.
func (tr *Tracker) FormatStatusLines() string {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var b strings.Builder
	now := time.Now()
	for _, task := range tr.tasks {
		description, detail, status, errMsg := task.snapshot()
		b.WriteString(statusLine(description, detail, status, errMsg, now))
		b.WriteString("\n")
	}
	return b.String()
}

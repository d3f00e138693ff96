package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"contentpilot/pkg/logger"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TaskFunc is a deferred unit of work. It runs detached from the caller
// that enqueued it and resolves to a result or an error.
type TaskFunc func(ctx context.Context) (interface{}, error)

// Snapshot is an immutable view of a tracked task, safe to hand to callers.
type Snapshot struct {
	ID          string      `json:"id"`
	Status      Status      `json:"status"`
	Result      interface{} `json:"result,omitempty"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

type record struct {
	id          string
	status      Status
	result      interface{}
	errMsg      string
	createdAt   time.Time
	completedAt time.Time
}

// Registry tracks fire-and-forget units of work by identifier within one
// process. It is constructed once at startup and injected into whatever
// builds the route handlers; task state does not survive a restart.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*record
	log   *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		tasks: make(map[string]*record),
		log:   log,
	}
}

// Enqueue registers taskID and schedules fn on a detached goroutine.
// If a non-terminal entry already exists for taskID the call is a duplicate
// guard: fn is discarded without ever starting and the same id is returned,
// so a client retry cannot spawn a second worker for one identifier.
func (r *Registry) Enqueue(taskID string, fn TaskFunc) string {
	r.mu.Lock()
	if existing, ok := r.tasks[taskID]; ok && !isTerminal(existing.status) {
		r.mu.Unlock()
		r.log.Warn("Duplicate task submission ignored",
			logger.StringField("task_id", taskID),
			logger.StringField("status", string(existing.status)),
		)
		return taskID
	}

	rec := &record{
		id:        taskID,
		status:    StatusPending,
		createdAt: time.Now(),
	}
	r.tasks[taskID] = rec
	rec.status = StatusRunning
	r.mu.Unlock()

	// The goroutine keeps the only strong reference to fn until it finishes.
	go r.run(taskID, fn)

	return taskID
}

func (r *Registry) run(taskID string, fn TaskFunc) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Task panicked", logger.StringField("task_id", taskID), logger.Field("panic", p))
			r.finish(taskID, nil, fmt.Errorf("panic: %v", p))
		}
	}()

	result, err := fn(context.Background())
	r.finish(taskID, result, err)
}

// finish records the single terminal transition. Entries already terminal
// are left untouched.
func (r *Registry) finish(taskID string, result interface{}, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[taskID]
	if !ok || isTerminal(rec.status) {
		return
	}

	if err != nil {
		rec.status = StatusFailed
		rec.errMsg = err.Error()
	} else {
		rec.status = StatusCompleted
		rec.result = result
	}
	rec.completedAt = time.Now()
}

// GetStatus returns a snapshot of the task, or false when the identifier is
// unknown or already evicted. It never blocks waiting for completion.
func (r *Registry) GetStatus(taskID string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[taskID]
	if !ok {
		return Snapshot{}, false
	}

	snap := Snapshot{
		ID:        rec.id,
		Status:    rec.status,
		Result:    copyResult(rec.result),
		Error:     rec.errMsg,
		CreatedAt: rec.createdAt,
	}
	if !rec.completedAt.IsZero() {
		t := rec.completedAt
		snap.CompletedAt = &t
	}
	return snap, true
}

// copyResult detaches the payload from the stored record so a caller
// mutating the snapshot cannot reach back into a terminal entry. Results are
// JSON-bound anyway: they leave the process through the polling endpoint.
func copyResult(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// CleanupOld evicts terminal entries whose completion is older than maxAge
// and returns how many were removed. Pending and running entries are never
// evicted regardless of age.
func (r *Registry) CleanupOld(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, rec := range r.tasks {
		if isTerminal(rec.status) && rec.completedAt.Before(cutoff) {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed
}

// Stats returns the number of tracked tasks per status.
func (r *Registry) Stats() map[Status]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := map[Status]int{
		StatusPending:   0,
		StatusRunning:   0,
		StatusCompleted: 0,
		StatusFailed:    0,
	}
	for _, rec := range r.tasks {
		stats[rec.status]++
	}
	return stats
}

func isTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusFailed
}

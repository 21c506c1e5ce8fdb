package fakeservice

import (
	"slices"
	"sync"
	"time"
)

// task is one queued document or collection.
type task[Out any] struct {
	id        string
	configID  string
	jobID     string
	ready     time.Time
	result    Out
	retrieved bool
}

// taskQueue holds queued work until its processing delay has elapsed.
// Results are handed out once by drain and stay readable through get.
type taskQueue[Out any] struct {
	delay time.Duration
	clock func() time.Time

	mu    sync.Mutex
	tasks []*task[Out]
}

func newTaskQueue[Out any](delay time.Duration, clock func() time.Time) *taskQueue[Out] {
	return &taskQueue[Out]{delay: delay, clock: clock}
}

// enqueue stores a result that becomes visible after the delay. A task with
// the same id in the same configuration is replaced.
func (q *taskQueue[Out]) enqueue(configID, jobID, id string, result Out) {
	q.push(&task[Out]{id: id, configID: configID, jobID: jobID, ready: q.clock().Add(q.delay), result: result})
}

// complete stores a result that was already returned to the caller.
func (q *taskQueue[Out]) complete(configID, jobID, id string, result Out) {
	q.push(&task[Out]{id: id, configID: configID, jobID: jobID, ready: q.clock(), result: result, retrieved: true})
}

func (q *taskQueue[Out]) push(t *task[Out]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = slices.DeleteFunc(q.tasks, func(old *task[Out]) bool {
		return old.id == t.id && old.configID == t.configID
	})
	q.tasks = append(q.tasks, t)
}

// get returns the result of a task. done is false while it is still queued.
func (q *taskQueue[Out]) get(configID, id string) (result Out, done, found bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.id == id && t.configID == configID {
			return t.result, !q.clock().Before(t.ready), true
		}
	}
	return result, false, false
}

// cancel removes a task that is still queued. It reports whether the task
// existed and whether it had already been processed.
func (q *taskQueue[Out]) cancel(configID, id string) (found, processed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.clock()
	for i, t := range q.tasks {
		if t.id != id || t.configID != configID {
			continue
		}
		if !now.Before(t.ready) {
			return true, true
		}
		q.tasks = slices.Delete(q.tasks, i, i+1)
		return true, false
	}
	return false, false
}

// drain returns processed results not handed out before, filtered by match.
func (q *taskQueue[Out]) drain(match func(configID, jobID string) bool) []Out {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.clock()
	var out []Out
	for _, t := range q.tasks {
		if t.retrieved || now.Before(t.ready) || !match(t.configID, t.jobID) {
			continue
		}
		t.retrieved = true
		out = append(out, t.result)
	}
	return out
}

// pending counts tasks that are still queued.
func (q *taskQueue[Out]) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.clock()
	n := 0
	for _, t := range q.tasks {
		if now.Before(t.ready) {
			n++
		}
	}
	return n
}

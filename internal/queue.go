package internal

// TaskQueue is the microtask boundary: a FIFO of deferred tasks drained
// after the current synchronous turn.
type TaskQueue struct {
	tasks []func() error
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		tasks: make([]func() error, 0),
	}
}

func (q *TaskQueue) Enqueue(fn func() error) {
	q.tasks = append(q.tasks, fn)
}

func (q *TaskQueue) Dequeue() (func() error, bool) {
	if len(q.tasks) == 0 {
		return nil, false
	}

	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]

	return task, true
}

func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

func (q *TaskQueue) Clear() {
	clear(q.tasks)
	q.tasks = q.tasks[:0]
}

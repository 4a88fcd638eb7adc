// worker/pool.go
package worker

// Job computes one result.
type Job[T any] func() T

// Result pairs a job's output with the id it was submitted under.
type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs submitted jobs on a fixed number of workers. Results arrive on
// the Results channel in completion order, not submission order.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		p.results <- Result[T]{
			JobID:  job.id,
			Output: job.fn(),
		}
	}
}

func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops the workers once all submitted jobs have been picked up.
// Submit must not be called after Close.
func (p *Pool[T]) Close() {
	close(p.jobs)
}

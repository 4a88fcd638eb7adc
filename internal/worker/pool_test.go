package worker_test

import (
	"testing"

	"github.com/quizkeeper/backend/internal/worker"
)

func TestPool_RunsAllJobs(t *testing.T) {
	pool := worker.NewPool[int](3, 10)
	defer pool.Close()

	for i := 0; i < 10; i++ {
		n := i
		pool.Submit("job", func() int { return n * 2 })
	}

	sum := 0
	for i := 0; i < 10; i++ {
		r := <-pool.Results()
		sum += r.Output
	}

	if sum != 90 {
		t.Errorf("expected sum 90, got %d", sum)
	}
}

func TestPool_CarriesJobID(t *testing.T) {
	pool := worker.NewPool[string](1, 1)
	defer pool.Close()

	pool.Submit("q-42", func() string { return "done" })

	r := <-pool.Results()
	if r.JobID != "q-42" || r.Output != "done" {
		t.Errorf("unexpected result: %+v", r)
	}
}

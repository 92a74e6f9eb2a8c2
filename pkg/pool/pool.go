package pool

import (
	"runtime"
	"sync/atomic"
)

// task asks a worker to evaluate f at index i, storing the result.
//
// When search is set, the worker instead keeps evaluating f until it returns
// a non-nil result, for as long as *remaining is positive.
type task struct {
	search    bool
	remaining *int64
	i         int
	f         func(int) interface{}
	results   []interface{}
}

func searchAlone(f func() interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := range results {
		for results[i] = f(); results[i] == nil; results[i] = f() {
		}
	}
	return results
}

func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := range results {
		results[i] = f(i)
	}
	return results
}

// runSearch keeps querying f until *remaining successes have been found in total.
//
// Each success decrements *remaining, so several workers can cooperate on the
// same search. The result must be stored before signaling on taskDone: the
// signal is what publishes the slot to the collector, and a worker whose
// success arrives after the count is full must not signal at all.
func runSearch(t task, taskDone chan<- struct{}) {
	for atomic.LoadInt64(t.remaining) > 0 {
		res := t.f(0)
		if res == nil {
			continue
		}
		i := atomic.AddInt64(t.remaining, -1)
		if i < 0 {
			return
		}
		t.results[i] = res
		taskDone <- struct{}{}
	}
}

func worker(tasks <-chan task, taskDone chan<- struct{}) {
	for t := range tasks {
		if t.search {
			runSearch(t, taskDone)
		} else {
			t.results[t.i] = t.f(t.i)
			atomic.AddInt64(t.remaining, -1)
			taskDone <- struct{}{}
		}
	}
}

// Pool is a fixed set of workers, used for parallelizing group operations.
//
// Functions taking a *Pool work with a nil receiver as well, doing the
// equivalent work on the current goroutine instead. By creating a pool once,
// you avoid the overhead of spinning up goroutines for each new operation.
type Pool struct {
	// The common channel used to send tasks to the workers.
	//
	// This effectively makes a work stealing pool.
	tasks chan task
	// The channel used to signal a finished task.
	taskDone    chan struct{}
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, the number of available CPUs is used instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	p := &Pool{
		tasks:       make(chan task),
		taskDone:    make(chan struct{}),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.tasks, p.taskDone)
	}
	return p
}

// TearDown cleanly tears down a pool, stopping its workers.
func (p *Pool) TearDown() {
	close(p.tasks)
}

// Search queries the function f until count successes are found.
//
// f is supposed to try a single candidate, returning nil if that candidate
// isn't successful. The result contains the first count successes.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	if p == nil {
		return searchAlone(f, count)
	}

	results := make([]interface{}, count)
	remaining := int64(count)
	t := task{
		search:    true,
		remaining: &remaining,
		f:         func(int) interface{} { return f() },
		results:   results,
	}
	for i := 0; i < p.workerCount; i++ {
		p.tasks <- t
	}
	// Exactly one signal is sent per stored result. Receiving all of them,
	// rather than polling the counter, both synchronizes the result writes
	// and leaves no worker stranded on the unbuffered channel.
	for i := 0; i < count; i++ {
		<-p.taskDone
	}
	return results
}

// Parallelize calls a function count times, passing in indices 0..count-1.
//
// The result contains [f(0), f(1), ..., f(count - 1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	remaining := int64(count)
	sent, received := 0, 0
	for sent < count {
		t := task{
			remaining: &remaining,
			i:         sent,
			f:         f,
			results:   results,
		}
		// We may not be able to send all tasks without blocking, so we
		// interleave picking off finished workers to free them up to
		// receive the remaining tasks.
		select {
		case p.tasks <- t:
			sent++
		case <-p.taskDone:
			received++
		}
	}
	for ; received < count; received++ {
		<-p.taskDone
	}
	return results
}

package attest

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Task performs one action against the node under test, typically a single
// request, and reports what happened.
type Task func(ctx context.Context) Response

// Case pairs a task with the check applied to its result. Running and
// checking are separate steps: Run fires the task, Check is applied by the
// runner once the Future has resolved.
type Case struct {
	Label string

	task  Task
	check Check

	once   sync.Once
	future *Future
}

// NewCase creates a case. A nil check accepts any result.
func NewCase(label string, task Task, check Check) *Case {
	if check == nil {
		check = Pass
	}

	return &Case{Label: label, task: task, check: check}
}

// Run starts the task in the background. The task runs once; later calls
// return the same Future.
func (c *Case) Run(ctx context.Context) *Future {
	c.once.Do(func() {
		c.future = &Future{done: make(chan struct{})}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					c.future.resolve(Response{Err: errors.Newf("task panicked: %v", r)})
				}
			}()

			c.future.resolve(c.task(ctx))
		}()
	})

	return c.future
}

// Check applies the case's check to a result obtained from Run.
func (c *Case) Check(res Response) error {
	return c.check(res)
}

// Future is the pending result of a Case.
type Future struct {
	done chan struct{}
	once sync.Once
	res  Response
}

func (f *Future) resolve(res Response) {
	f.once.Do(func() {
		f.res = res
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.
func (f *Future) Await(ctx context.Context) (Response, error) {
	select {
	case <-f.done:
		return f.res, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Package throttle provides a FIFO task queue that runs one task at a time and
// spaces task starts by a minimum wall-clock interval.
//
// The ledger under test orders memberships and votes by issuance time, so a
// test runner that fires them back to back gets them rejected. Each Queue
// keeps its own pace; two queues never wait on each other.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/paulbellamy/ratecounter"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrClosed is reported to tasks that could not run because the queue closed.
var ErrClosed = errors.New("queue closed")

// rateWindow is the trailing window reported by Stats.RecentStarts.
const rateWindow = time.Minute

// Task is a unit of work. Its error is reported to the task's own callback
// and never affects the tasks queued behind it.
type Task func(ctx context.Context) error

type job struct {
	task   Task
	onDone func(error)
}

func (j job) finish(err error) {
	if j.onDone != nil {
		j.onDone(err)
	}
}

// Queue runs tasks in submission order, one at a time, starting a task no
// sooner than MinInterval after the previous one started.
type Queue struct {
	name        string
	minInterval time.Duration

	mu     sync.Mutex
	jobs   []job
	closed bool
	signal chan struct{} // buffered, size 1; closed by Close

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	// lastStart is owned by the run loop.
	lastStart time.Time

	pending *atomic.Int64
	started *atomic.Int64
	recent  *ratecounter.RateCounter
}

// New creates a queue and starts its run loop. Call Close to stop it.
func New(name string, minInterval time.Duration) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		name:        name,
		minInterval: minInterval,
		jobs:        make([]job, 0, 16),
		signal:      make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
		stopped:     make(chan struct{}),
		pending:     atomic.NewInt64(0),
		started:     atomic.NewInt64(0),
		recent:      ratecounter.NewRateCounter(rateWindow),
	}

	go q.run()

	return q
}

// Name returns the queue's name.
func (q *Queue) Name() string {
	return q.name
}

// MinInterval returns the minimum spacing between task starts.
func (q *Queue) MinInterval() time.Duration {
	return q.minInterval
}

// Enqueue appends task to the queue. onDone, if not nil, receives the task's
// error once it has run, or ErrClosed if the queue closed first. Enqueue never
// blocks and never rejects work while the queue is open.
func (q *Queue) Enqueue(task Task, onDone func(error)) {
	j := job{task: task, onDone: onDone}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		j.finish(ErrClosed)
		return
	}

	q.jobs = append(q.jobs, j)
	q.pending.Inc()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	q.mu.Unlock()
}

// Submit enqueues task and returns a channel that receives its error. The
// task runs with ctx instead of the queue's own context.
func (q *Queue) Submit(ctx context.Context, task Task) <-chan error {
	done := make(chan error, 1)

	q.Enqueue(func(context.Context) error {
		return task(ctx)
	}, func(err error) {
		done <- err
	})

	return done
}

// Close stops the run loop. The running task's context is cancelled and
// tasks still waiting get ErrClosed. Close blocks until the loop has exited.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.stopped
		return
	}

	q.closed = true
	close(q.signal)
	q.mu.Unlock()

	q.cancel()
	<-q.stopped
}

// Stats is a snapshot of a queue's activity.
type Stats struct {
	Name         string
	MinInterval  time.Duration
	Pending      int64
	Started      int64
	RecentStarts int64
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Name:         q.name,
		MinInterval:  q.minInterval,
		Pending:      q.pending.Load(),
		Started:      q.started.Load(),
		RecentStarts: q.recent.Rate(),
	}
}

func (q *Queue) run() {
	defer close(q.stopped)

	for {
		j, ok := q.next()
		if !ok {
			return
		}

		if q.ctx.Err() != nil || !q.wait() {
			q.pending.Dec()
			j.finish(ErrClosed)
			continue
		}

		q.lastStart = time.Now()
		q.started.Inc()
		q.recent.Incr(1)

		err := q.execute(j.task)
		q.pending.Dec()
		if err != nil {
			log.WithError(err).WithField("queue", q.name).Debug("Task failed")
		}

		j.finish(err)
	}
}

// next pops the oldest job, blocking until one arrives. It returns false once
// the queue is closed and drained.
func (q *Queue) next() (job, bool) {
	for {
		q.mu.Lock()
		if len(q.jobs) > 0 {
			j := q.jobs[0]
			q.jobs[0] = job{}
			q.jobs = q.jobs[1:]
			q.mu.Unlock()

			return j, true
		}

		if q.closed {
			q.mu.Unlock()
			return job{}, false
		}
		q.mu.Unlock()

		<-q.signal
	}
}

// wait sleeps until MinInterval has elapsed since the last start. It returns
// false if the queue closed meanwhile.
func (q *Queue) wait() bool {
	delay := q.delay(time.Now())
	if delay <= 0 {
		return true
	}

	log.WithFields(logrus.Fields{
		"queue": q.name,
		"wait":  delay.Round(time.Millisecond),
	}).Debug("Waiting before next task")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-q.ctx.Done():
		return false
	}
}

// delay returns how long a task due at now must still wait.
func (q *Queue) delay(now time.Time) time.Duration {
	if q.lastStart.IsZero() {
		return 0
	}

	elapsed := now.Sub(q.lastStart)
	if elapsed >= q.minInterval {
		return 0
	}

	return q.minInterval - elapsed
}

func (q *Queue) execute(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("task panicked: %v", r)
		}
	}()

	return task(q.ctx)
}

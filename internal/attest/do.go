package attest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/st3v3nmw/ledgerprobe/pkg/threadsafe"
)

// Do provides the test harness and acts as the test runner
type Do struct {
	client *Client
	config *Config
	vars   *threadsafe.Map[string, string]

	ctx    context.Context
	cancel context.CancelFunc
}

// newDo creates a new Do instance with custom configuration
func newDo(ctx context.Context, config *Config) *Do {
	doCtx, cancel := context.WithCancel(ctx)

	return &Do{
		client: NewClient(config.BaseURL, config.ExecuteTimeout),
		config: config,
		vars:   threadsafe.NewMap[string, string](),
		ctx:    doCtx,
		cancel: cancel,
	}
}

// Context returns the context tests run under. It is cancelled when the
// suite finishes.
func (do *Do) Context() context.Context {
	return do.ctx
}

// Done releases the harness
func (do *Do) Done() {
	do.cancel()
}

// Set stores a value for later tests of the same run
func (do *Do) Set(key, value string) {
	do.vars.Set(key, value)
}

// Get returns a value stored by an earlier test or panics if there is none
func (do *Do) Get(key string) string {
	if value, ok := do.vars.Get(key); ok {
		return value
	}

	panic(fmt.Sprintf("no value recorded for %q; did an earlier test fail?", key))
}

// Sleep pauses the test, returning early if the run is cancelled
func (do *Do) Sleep(d time.Duration) {
	select {
	case <-do.ctx.Done():
	case <-time.After(d):
	}
}

// Concurrently runs multiple functions in parallel and waits for completion
func (do *Do) Concurrently(fns ...func()) {
	var wg sync.WaitGroup
	var panicErr any
	var panicMu sync.Mutex

	for _, fn := range fns {
		wg.Add(1)
		go func(f func()) {
			defer wg.Done()
			defer func() {
				err := recover()
				if err != nil {
					panicMu.Lock()
					if panicErr == nil {
						panicErr = err
					}
					panicMu.Unlock()
				}
			}()

			f()
		}(fn)
	}

	wg.Wait()

	if panicErr != nil {
		panic(panicErr)
	}
}

// Run fires c, waits for its result and applies its check, panicking on
// failure like a failed assertion.
func (do *Do) Run(c *Case) Response {
	res, err := c.Run(do.ctx).Await(do.ctx)
	if err != nil {
		panic(fmt.Sprintf("%s\n  Interrupted: %v", c.Label, err))
	}

	if err := c.Check(res); err != nil {
		panic(formatCaseFailure(res, err))
	}

	return res
}

// HTTP creates a deferred HTTP request against the node under test.
// Optional args are a body (string or Form) and headers (H).
func (do *Do) HTTP(method, path string, args ...any) *HTTPPromise {
	p := &HTTPPromise{
		PromiseBase: PromiseBase{
			timing: TimingImmediate,
			ctx:    do.ctx,
			config: do.config,
		},

		do:     do,
		method: method,
		path:   path,
	}

	if len(args) >= 1 {
		switch body := args[0].(type) {
		case string:
			p.body = []byte(body)
		case Form:
			p.form = body
		default:
			panic(fmt.Sprintf("unsupported request body %T", args[0]))
		}
	}

	if len(args) >= 2 {
		p.headers = args[1].(H)
	}

	return p
}

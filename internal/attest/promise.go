package attest

import (
	"context"
	"time"
)

// timing defines when deferred operations should be executed
type timing int

const (
	TimingImmediate timing = iota
	TimingEventually
	TimingConsistently
)

// Promise represents a deferred operation
type Promise[P any, A any] interface {
	// Eventually configures the promise to retry the operation until success or timeout
	Eventually() P
	// Within sets a custom timeout for Eventually operations
	Within(time.Duration) P
	// Consistently configures the promise to verify the operation succeeds for the entire duration
	Consistently() P
	// For sets a custom timeout for Consistently operations
	For(time.Duration) P
	// T creates an assertion to validate the operation's result
	T() A
}

var _ Promise[*HTTPPromise, *HTTPAssert] = (*HTTPPromise)(nil)

// PromiseBase provides common promise functionality
type PromiseBase struct {
	timing  timing
	timeout time.Duration
	ctx     context.Context
	config  *Config
}

func (b *PromiseBase) setEventually() {
	b.timing = TimingEventually
	b.timeout = b.config.DefaultRetryTimeout
}

func (b *PromiseBase) setWithin(timeout time.Duration) {
	if b.timing != TimingEventually {
		panic("Within() can only be called after Eventually()")
	}

	b.timeout = timeout
}

func (b *PromiseBase) setConsistently() {
	b.timing = TimingConsistently
	b.timeout = b.config.DefaultRetryTimeout
}

func (b *PromiseBase) setFor(timeout time.Duration) {
	if b.timing != TimingConsistently {
		panic("For() can only be called after Consistently()")
	}

	b.timeout = timeout
}

// HTTPPromise represents a deferred HTTP request
type HTTPPromise struct {
	PromiseBase

	do      *Do
	method  string
	path    string
	headers H
	body    []byte
	form    Form
}

func (p *HTTPPromise) Eventually() *HTTPPromise {
	p.setEventually()
	return p
}

func (p *HTTPPromise) Within(timeout time.Duration) *HTTPPromise {
	p.setWithin(timeout)
	return p
}

func (p *HTTPPromise) Consistently() *HTTPPromise {
	p.setConsistently()
	return p
}

func (p *HTTPPromise) For(timeout time.Duration) *HTTPPromise {
	p.setFor(timeout)
	return p
}

func (p *HTTPPromise) T() *HTTPAssert {
	return &HTTPAssert{
		AssertBase: AssertBase{config: p.config},
		promise:    p,
	}
}

// send issues the request once.
func (p *HTTPPromise) send() Response {
	if p.form != nil {
		return p.do.client.PostForm(p.ctx, p.path, p.form)
	}

	return p.do.client.Do(p.ctx, p.method, p.path, p.body, p.headers)
}

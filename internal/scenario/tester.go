// Package scenario builds the steps of a ledger scenario: document
// submissions, votes, waits and side jobs. Steps that change ledger state go
// through throttled queues so a fast runner cannot outpace the node's
// ordering rules.
package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/st3v3nmw/ledgerprobe/internal/throttle"
)

// Tester builds scenario steps against one node.
type Tester struct {
	client *attest.Client
	model  *ledger.Model

	// memberships throttles membership and voting key declarations.
	memberships *throttle.Queue
	// votes throttles amendment votes.
	votes *throttle.Queue
}

// New creates a Tester. The queues are owned by the caller and may be shared
// between testers that talk to the same node.
func New(client *attest.Client, model *ledger.Model, memberships, votes *throttle.Queue) *Tester {
	return &Tester{
		client:      client,
		model:       model,
		memberships: memberships,
		votes:       votes,
	}
}

// Currency returns the currency documents are issued for.
func (t *Tester) Currency() string {
	return t.model.Currency
}

// Params describes a case for Create.
type Params struct {
	Label string
	Task  attest.Task
	Check attest.Check
}

// Create builds a case from params.
func (t *Tester) Create(params Params) *attest.Case {
	return attest.NewCase(params.Label, params.Task, params.Check)
}

// Verify builds a case that runs task and applies check to its response.
func (t *Tester) Verify(label string, task attest.Task, check attest.Check) *attest.Case {
	return attest.NewCase(label, task, check)
}

// Delay builds a case that only waits.
func (t *Tester) Delay(d time.Duration) *attest.Case {
	label := fmt.Sprintf("Waiting %dms", d.Milliseconds())

	return attest.NewCase(label, func(ctx context.Context) attest.Response {
		log.Debugf("Waiting %s", d)

		select {
		case <-time.After(d):
			return attest.Response{}
		case <-ctx.Done():
			return attest.Response{Err: ctx.Err()}
		}
	}, attest.Pass)
}

// Job builds a case that runs fn between requests, for example to move the
// node's clock or seed data. The job's outcome is not checked.
func (t *Tester) Job(fn func(ctx context.Context) error) *attest.Case {
	return attest.NewCase("Running side job", func(ctx context.Context) attest.Response {
		if err := fn(ctx); err != nil {
			log.WithError(err).Warn("Side job failed")
			return attest.Response{Err: err}
		}

		return attest.Response{}
	}, attest.Pass)
}

// DoGet issues a GET request.
func (t *Tester) DoGet(path string) attest.Task {
	return func(ctx context.Context) attest.Response {
		return t.client.Get(ctx, path)
	}
}

// PKSAdd uploads an armored public key.
func (t *Tester) PKSAdd(keytext string) attest.Task {
	return func(ctx context.Context) attest.Response {
		return t.client.PostForm(ctx, "/pks/add", attest.Form{"keytext": keytext})
	}
}

// queued runs work on q and waits for it. Errors from the queue itself, such
// as ErrClosed or a panic, come back in Response.Err.
func queued(q *throttle.Queue, work attest.Task) attest.Task {
	return func(ctx context.Context) attest.Response {
		results := make(chan attest.Response, 1)

		done := q.Submit(ctx, func(ctx context.Context) error {
			res := work(ctx)
			results <- res
			return res.Err
		})

		select {
		case err := <-done:
			select {
			case res := <-results:
				return res
			default:
				return attest.Response{Err: err}
			}
		case <-ctx.Done():
			return attest.Response{Err: ctx.Err()}
		}
	}
}

// submit signs doc as s and posts it under field.
func (t *Tester) submit(ctx context.Context, s ledger.Signatory, doc ledger.Canonical, path, field string) attest.Response {
	raw := doc.Raw()

	signature, err := s.Sign(ctx, raw)
	if err != nil {
		return attest.Response{Method: http.MethodPost, URL: path, Err: err}
	}

	return t.client.PostForm(ctx, path, attest.Form{
		field:       raw,
		"signature": signature,
	})
}

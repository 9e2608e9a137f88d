package scenario

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/tidwall/gjson"
)

const (
	pendingAmendmentPath = "/registry/amendment"
	currentAmendmentPath = "/hdc/amendments/current"
	votesPath            = "/hdc/amendments/votes"
)

// SelfVote asks the node to vote for amendment number with its own key.
func (t *Tester) SelfVote(number int) attest.Task {
	path := fmt.Sprintf("/registry/amendment/%d/vote", number)

	return queued(t.votes, func(ctx context.Context) attest.Response {
		return t.client.Get(ctx, path)
	})
}

// Vote signs the amendment the node is currently proposing and submits the
// vote.
func (t *Tester) Vote(s ledger.Signatory) attest.Task {
	return queued(t.votes, func(ctx context.Context) attest.Response {
		return t.vote(ctx, s, pendingAmendmentPath)
	})
}

// VoteCurrent votes for the current promoted amendment. It is not throttled,
// unlike Vote.
func (t *Tester) VoteCurrent(s ledger.Signatory) attest.Task {
	return func(ctx context.Context) attest.Response {
		return t.vote(ctx, s, currentAmendmentPath)
	}
}

// vote fetches an amendment from source and posts a signature over its raw
// text. If fetching fails the fetch response is returned with Err set and no
// vote is posted.
func (t *Tester) vote(ctx context.Context, s ledger.Signatory, source string) attest.Response {
	res := t.client.Get(ctx, source)
	if res.Err != nil {
		return res
	}

	raw, err := amendmentRaw(res)
	if err != nil {
		res.Err = errors.Wrapf(err, "fetching amendment from %s", source)
		return res
	}

	signature, err := s.Sign(ctx, raw)
	if err != nil {
		return attest.Response{Method: http.MethodPost, URL: votesPath, Err: err}
	}

	return t.client.PostForm(ctx, votesPath, attest.Form{
		"amendment": raw,
		"signature": signature,
	})
}

func amendmentRaw(res attest.Response) (string, error) {
	if res.Status != http.StatusOK {
		return "", errors.Newf("status %d", res.Status)
	}

	if !gjson.Valid(res.Body) {
		return "", errors.New("body is not JSON")
	}

	raw := gjson.Get(res.Body, "raw")
	if raw.Type != gjson.String {
		return "", errors.New("amendment has no raw text")
	}

	return raw.String(), nil
}

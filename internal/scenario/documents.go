package scenario

import (
	"context"

	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
)

const (
	votersPath  = "/registry/community/voters"
	membersPath = "/registry/community/members"
)

// SetVoter declares s as a voter.
func (t *Tester) SetVoter(s ledger.Signatory) attest.Task {
	return queued(t.memberships, func(ctx context.Context) attest.Response {
		doc := t.model.Voting(s.Fingerprint())
		return t.submit(ctx, s, doc, votersPath, "voting")
	})
}

// Join requests membership for s.
func (t *Tester) Join(s ledger.Signatory) attest.Task {
	return t.membership(s, ledger.MembershipIn)
}

// Actualize renews the membership of s. The document is the same as Join's.
func (t *Tester) Actualize(s ledger.Signatory) attest.Task {
	return t.membership(s, ledger.MembershipIn)
}

// Leave requests that s leave the community.
func (t *Tester) Leave(s ledger.Signatory) attest.Task {
	return t.membership(s, ledger.MembershipOut)
}

func (t *Tester) membership(s ledger.Signatory, state ledger.MembershipState) attest.Task {
	return queued(t.memberships, func(ctx context.Context) attest.Response {
		doc := t.model.Membership(s.Fingerprint(), state)
		return t.submit(ctx, s, doc, membersPath, "membership")
	})
}

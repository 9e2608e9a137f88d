// Package ledger holds the pieces that stand in for a ledger participant:
// signing identities, the canonical form of the documents they sign, and a
// keyring of named identities.
package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Signatory is a signing identity. Sign returns a signature over raw, which
// is the canonical document text.
type Signatory interface {
	Fingerprint() string
	Sign(ctx context.Context, raw string) (string, error)
}

// SyncSignatory adapts a blocking sign function.
type SyncSignatory struct {
	fingerprint string
	sign        func(raw string) (string, error)
}

// NewSyncSignatory wraps a signer that returns its signature directly.
func NewSyncSignatory(fingerprint string, sign func(raw string) (string, error)) *SyncSignatory {
	return &SyncSignatory{fingerprint: fingerprint, sign: sign}
}

func (s *SyncSignatory) Fingerprint() string {
	return s.fingerprint
}

func (s *SyncSignatory) Sign(ctx context.Context, raw string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	signature, err := s.sign(raw)
	if err != nil {
		return "", errors.Wrapf(err, "signing as %s", s.fingerprint)
	}

	return signature, nil
}

// CallbackSignatory adapts a signer that reports its result through a
// callback, possibly from another goroutine.
type CallbackSignatory struct {
	fingerprint string
	sign        func(raw string, done func(signature string, err error))
}

// NewCallbackSignatory wraps a callback-style signer. done must be called
// exactly once.
func NewCallbackSignatory(fingerprint string, sign func(raw string, done func(string, error))) *CallbackSignatory {
	return &CallbackSignatory{fingerprint: fingerprint, sign: sign}
}

func (s *CallbackSignatory) Fingerprint() string {
	return s.fingerprint
}

type signResult struct {
	signature string
	err       error
}

func (s *CallbackSignatory) Sign(ctx context.Context, raw string) (string, error) {
	results := make(chan signResult, 1)
	s.sign(raw, func(signature string, err error) {
		select {
		case results <- signResult{signature, err}:
		default:
			log.WithField("fingerprint", s.fingerprint).Warn("Signer called back more than once")
		}
	})

	select {
	case r := <-results:
		if r.err != nil {
			return "", errors.Wrapf(r.err, "signing as %s", s.fingerprint)
		}
		return r.signature, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Publisher is a signatory that can export its armored public key.
type Publisher interface {
	Signatory
	PublicKey() (string, error)
}

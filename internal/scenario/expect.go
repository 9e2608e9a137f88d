package scenario

import (
	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
)

// ExpectedHTTPCode requires status code.
func ExpectedHTTPCode(code int) attest.Check {
	return attest.ExpectedHTTPCode(code)
}

// ExpectedPubkey requires a public key with fingerprint.
func ExpectedPubkey(fingerprint string) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedPubkey(fingerprint))
}

// ExpectedMembership requires a membership issued by fingerprint.
func ExpectedMembership(fingerprint string) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedMembership(fingerprint))
}

// ExpectedVoting requires a voting declaration for votingKey.
func ExpectedVoting(votingKey string) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedVoting(votingKey))
}

// ExpectedAmendment requires an amendment with props.
func ExpectedAmendment(props conform.Properties) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedAmendment(props))
}

// ExpectedSignedAmendment requires a signed amendment with props.
func ExpectedSignedAmendment(props conform.Properties) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedSignedAmendment(props))
}

// ExpectedSignedTransaction requires a signed transaction with props.
func ExpectedSignedTransaction(props conform.Properties) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedSignedTransaction(props))
}

// ExpectedMerkle requires a Merkle summary with root and leavesCount leaves.
// A negative leavesCount accepts any count.
func ExpectedMerkle(root string, leavesCount int) attest.Check {
	return attest.SuccessToJSON(conform.ExpectedMerkle(root, leavesCount))
}

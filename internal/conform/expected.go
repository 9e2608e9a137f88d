package conform

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// ExpectedPubkey checks a public key with the given fingerprint.
func ExpectedPubkey(fingerprint string) Validator {
	return func(json gjson.Result) error {
		if err := IsPubKey(json); err != nil {
			return err
		}

		return equalString(json, "", "fingerprint", fingerprint)
	}
}

// ExpectedMembership checks a membership issued by fingerprint.
func ExpectedMembership(fingerprint string) Validator {
	return func(json gjson.Result) error {
		if err := IsMembership(json); err != nil {
			return err
		}

		doc, _ := field(json, "membership")
		return equalString(doc, "membership", "issuer", fingerprint)
	}
}

// ExpectedVoting checks a voting declaration for votingKey.
func ExpectedVoting(votingKey string) Validator {
	return func(json gjson.Result) error {
		if err := IsVoting(json); err != nil {
			return err
		}

		doc, _ := field(json, "voting")
		return equalString(doc, "voting", "issuer", votingKey)
	}
}

// ExpectedAmendment checks an amendment and then props against it.
func ExpectedAmendment(props Properties) Validator {
	return func(json gjson.Result) error {
		if err := IsAmendment(json); err != nil {
			return err
		}

		return CheckProperties(props, json)
	}
}

// ExpectedSignedAmendment checks {signature, amendment} and then props
// against the inner amendment.
func ExpectedSignedAmendment(props Properties) Validator {
	return func(json gjson.Result) error {
		if err := requireObject(json, ""); err != nil {
			return err
		}

		if err := requireKeys(json, "", "signature", "amendment"); err != nil {
			return err
		}

		amendment, _ := field(json, "amendment")
		if err := IsAmendment(amendment); err != nil {
			return within("amendment", err)
		}

		return within("amendment", CheckProperties(props, amendment))
	}
}

// ExpectedSignedTransaction checks {signature, raw, transaction} and then
// props against the inner transaction.
func ExpectedSignedTransaction(props Properties) Validator {
	return func(json gjson.Result) error {
		if err := requireObject(json, ""); err != nil {
			return err
		}

		if err := requireKeys(json, "", "signature", "raw", "transaction"); err != nil {
			return err
		}

		tx, _ := field(json, "transaction")
		if err := IsTransaction(tx); err != nil {
			return within("transaction", err)
		}

		return within("transaction", CheckProperties(props, tx))
	}
}

// ExpectedMerkle checks a simple Merkle summary with the given root. A
// negative leavesCount skips the leaf count check.
func ExpectedMerkle(root string, leavesCount int) Validator {
	return func(json gjson.Result) error {
		if err := IsMerkleSimpleResult(json); err != nil {
			return err
		}

		if err := equalString(json, "", "root", root); err != nil {
			return err
		}

		if leavesCount < 0 {
			return nil
		}

		return CheckProperties(Properties{"leavesCount": Equal(leavesCount)}, json)
	}
}

var contracts = map[string]Validator{
	"pubkey":             IsPubKey,
	"membership":         IsMembership,
	"voting":             IsVoting,
	"amendment":          IsAmendment,
	"signed-amendment":   IsSignedAmendment,
	"transaction":        IsTransaction,
	"signed-transaction": IsSignedTransaction,
	"merkle":             IsMerkleSimpleResult,
	"merkle-leaf":        IsMerkleLeafResult,
	"merkle-leaves":      IsMerkleLeavesResult,
}

// ErrUnknownContract is returned by ByName for names it does not know.
var ErrUnknownContract = errors.New("unknown contract")

// ByName returns the validator registered under name.
func ByName(name string) (Validator, error) {
	v, ok := contracts[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownContract, "%q", name)
	}

	return v, nil
}

// Contracts lists the names accepted by ByName.
func Contracts() []string {
	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

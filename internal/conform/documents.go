package conform

import "github.com/tidwall/gjson"

// IsPubKey checks a public key record as served by the key server.
func IsPubKey(json gjson.Result) error {
	if err := requireObject(json, ""); err != nil {
		return err
	}

	if err := requireKeys(json, "", "email", "name", "fingerprint", "raw"); err != nil {
		return err
	}

	if err := forbidKeys(json, "", "_id"); err != nil {
		return err
	}

	raw, _ := field(json, "raw")
	if !armored(raw) {
		return failf("raw", "expected an armored key block")
	}

	return nil
}

// IsMembership checks a signed membership wrapper.
func IsMembership(json gjson.Result) error {
	return isSignedDocument(json, "membership",
		"version", "currency", "issuer", "membership", "sigDate", "raw")
}

// IsVoting checks a signed voting declaration wrapper.
func IsVoting(json gjson.Result) error {
	return isSignedDocument(json, "voting",
		"version", "currency", "issuer", "sigDate", "raw")
}

// isSignedDocument checks {signature, <name>: {...}} where the inner raw text
// is the bare document, never the armored signed form.
func isSignedDocument(json gjson.Result, name string, fields ...string) error {
	if err := requireObject(json, ""); err != nil {
		return err
	}

	if err := requireKeys(json, "", "signature", name); err != nil {
		return err
	}

	doc, _ := field(json, name)
	if err := requireObject(doc, name); err != nil {
		return err
	}

	if err := requireKeys(doc, name, fields...); err != nil {
		return err
	}

	if err := forbidKeys(doc, name, "_id"); err != nil {
		return err
	}

	raw, _ := field(doc, "raw")
	if armored(raw) {
		return failf(at(name, "raw"), "expected a bare document, got an armored block")
	}

	return nil
}

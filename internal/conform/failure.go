// Package conform checks decoded JSON payloads against the shape contracts of
// the ledger's domain objects: public keys, memberships, voting declarations,
// amendments, transactions and Merkle results.
//
// Every validator is a pure function over a gjson.Result. A violated clause is
// reported as a *Failure; the first violation wins.
package conform

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Validator checks one JSON value against one contract.
type Validator func(json gjson.Result) error

// Failure is a violated contract clause.
type Failure struct {
	// Path is the dotted location of the offending field, empty for the root.
	Path    string
	Message string
}

func (f *Failure) Error() string {
	if f.Path == "" {
		return f.Message
	}

	return fmt.Sprintf("%s: %s", f.Path, f.Message)
}

// IsFailure reports whether err is (or wraps) a contract violation.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

func failf(path, format string, args ...any) error {
	return &Failure{Path: path, Message: fmt.Sprintf(format, args...)}
}

// at joins a parent path and a key.
func at(path, key string) string {
	if path == "" {
		return key
	}

	if key == "" {
		return path
	}

	return path + "." + key
}

// within re-roots a failure raised by a nested validator under prefix.
func within(prefix string, err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return &Failure{Path: at(prefix, f.Path), Message: f.Message}
	}

	return err
}

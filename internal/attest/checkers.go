package attest

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/tidwall/gjson"
)

// Checker is a predicate over one value of a response, with a description of
// what it wanted for failure messages.
type Checker[T any] interface {
	Check(actual T) bool
	Expected() string
}

type isChecker[T comparable] struct {
	want T
}

// Is matches a single value exactly.
func Is[T comparable](want T) isChecker[T] {
	return isChecker[T]{want: want}
}

func (c isChecker[T]) Check(actual T) bool {
	return actual == c.want
}

func (c isChecker[T]) Expected() string {
	return fmt.Sprint(c.want)
}

// nullChecker is special-cased by checkAllJSON, which hands it the raw gjson
// value instead of its string form.
type nullChecker[T any] struct{}

// IsNull matches a JSON field that is null or missing. Outside JSON it never
// matches.
func IsNull[T comparable]() nullChecker[T] {
	return nullChecker[T]{}
}

func (nullChecker[T]) Check(T) bool {
	return false
}

func (nullChecker[T]) Expected() string {
	return "null"
}

type containsChecker struct {
	part string
}

// Contains matches strings holding part.
func Contains(part string) containsChecker {
	return containsChecker{part: part}
}

func (c containsChecker) Check(actual string) bool {
	return strings.Contains(actual, c.part)
}

func (c containsChecker) Expected() string {
	return fmt.Sprintf("containing %q", c.part)
}

type patternChecker struct {
	re   *regexp.Regexp
	name string
}

// Matches matches strings against pattern. It panics on an invalid pattern.
func Matches(pattern string) patternChecker {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("invalid regex pattern %q: %v", pattern, err))
	}

	return patternChecker{re: re, name: fmt.Sprintf("matching pattern %q", pattern)}
}

// Hash matches an uppercase SHA-1 hash, as used for key fingerprints, Merkle
// roots and previousHash links.
func Hash() patternChecker {
	return patternChecker{re: conform.HashPattern, name: "a 40-character uppercase hash"}
}

// Change matches a membership change: "+" or "-" followed by a fingerprint.
func Change() patternChecker {
	return patternChecker{re: conform.ChangePattern, name: "a +/- fingerprint change"}
}

func (c patternChecker) Check(actual string) bool {
	return c.re.MatchString(actual)
}

func (c patternChecker) Expected() string {
	return c.name
}

type oneOfChecker[T comparable] struct {
	options []T
}

// OneOf matches any of options.
func OneOf[T comparable](options ...T) oneOfChecker[T] {
	return oneOfChecker[T]{options: options}
}

func (c oneOfChecker[T]) Check(actual T) bool {
	return slices.Contains(c.options, actual)
}

func (c oneOfChecker[T]) Expected() string {
	parts := make([]string, len(c.options))
	for i, o := range c.options {
		parts[i] = fmt.Sprint(o)
	}

	return "one of " + strings.Join(parts, ", ")
}

type notChecker[T comparable] struct {
	inner Checker[T]
}

// Not inverts inner.
func Not[T comparable](inner Checker[T]) notChecker[T] {
	return notChecker[T]{inner: inner}
}

func (c notChecker[T]) Check(actual T) bool {
	return !c.inner.Check(actual)
}

func (c notChecker[T]) Expected() string {
	return "not " + c.inner.Expected()
}

// checkAll reports whether value passes every checker, calling onFail with
// the first one that does not.
func checkAll[T any](value T, checkers []Checker[T], onFail func(Checker[T], T)) bool {
	for _, c := range checkers {
		if c.Check(value) {
			continue
		}

		if onFail != nil {
			onFail(c, value)
		}

		return false
	}

	return true
}

// JSONFieldChecker applies Checker to the field at gjson path Path.
type JSONFieldChecker struct {
	Path    string
	Checker Checker[string]
}

// checkAllJSON is checkAll over fields of a JSON body. Fields are compared in
// their string form, except for IsNull which looks at the JSON type.
func checkAllJSON(body string, checkers []JSONFieldChecker, onFail func(JSONFieldChecker, any)) bool {
	for _, fc := range checkers {
		v := gjson.Get(body, fc.Path)

		var (
			ok     bool
			actual any
		)
		if _, null := fc.Checker.(nullChecker[string]); null {
			ok, actual = v.Type == gjson.Null, v.Value()
		} else {
			ok, actual = fc.Checker.Check(v.String()), v.String()
		}

		if ok {
			continue
		}

		if onFail != nil {
			onFail(fc, actual)
		}

		return false
	}

	return true
}

package attest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/tidwall/gjson"
)

// eventually checks that the condition becomes true within the given period.
func eventually(ctx context.Context, condition func() bool, timeout, pollInterval time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(pollInterval):
			if condition() {
				return true
			}
		}
	}

	return false
}

// consistently checks that the condition is always true for the given period.
func consistently(ctx context.Context, condition func() bool, timeout, pollInterval time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(pollInterval):
			if !condition() {
				return false
			}
		}
	}

	return true
}

// Assert defines the interface for executing and validating test assertions.
type Assert interface {
	// Assert executes the operation and validates the result.
	Assert(help string)
	// execute executes the operation once and returns whether it meets expectations.
	execute() bool
	// check validates the result and panics with formatted error message on failure.
	check()
	// formatHelp formats help text with proper indentation for error messages.
	formatHelp() string
}

var _ Assert = (*HTTPAssert)(nil)

// AssertBase provides common assertion functionality.
type AssertBase struct {
	help string

	config *Config
}

func (a *AssertBase) formatHelp() string {
	return "\n\n  " + strings.ReplaceAll(a.help, "\n", "\n  ")
}

// keep records a JSON field for later tests once the assertion passes.
type keep struct {
	path string
	key  string
}

// HTTPAssert provides assertions for HTTP response validation.
type HTTPAssert struct {
	AssertBase

	promise  *HTTPPromise
	response Response

	statusCheckers []Checker[int]
	bodyCheckers   []Checker[string]
	jsonCheckers   []JSONFieldChecker
	validators     []conform.Validator
	keeps          []keep
}

// Status adds expected HTTP response status code checkers.
// All checkers must pass.
func (a *HTTPAssert) Status(checkers ...Checker[int]) *HTTPAssert {
	a.statusCheckers = append(a.statusCheckers, checkers...)
	return a
}

// Body adds expected HTTP response body checkers.
// All checkers must pass.
func (a *HTTPAssert) Body(checkers ...Checker[string]) *HTTPAssert {
	a.bodyCheckers = append(a.bodyCheckers, checkers...)
	return a
}

// JSON adds expected checkers for a JSON field at the given gjson path.
// All checkers must pass.
func (a *HTTPAssert) JSON(path string, checkers ...Checker[string]) *HTTPAssert {
	for _, checker := range checkers {
		a.jsonCheckers = append(a.jsonCheckers, JSONFieldChecker{
			Path:    path,
			Checker: checker,
		})
	}

	return a
}

// Conforms adds contract validators applied to the decoded JSON body.
// All validators must pass.
func (a *HTTPAssert) Conforms(validators ...conform.Validator) *HTTPAssert {
	a.validators = append(a.validators, validators...)
	return a
}

// Keep records the JSON field at path under key once the assertion passes,
// for use by later tests through Do.Get.
func (a *HTTPAssert) Keep(path, key string) *HTTPAssert {
	a.keeps = append(a.keeps, keep{path: path, key: key})
	return a
}

func (a *HTTPAssert) Assert(help string) {
	a.help = help

	p := a.promise
	switch p.timing {
	case TimingEventually:
		eventually(p.ctx, a.execute, p.timeout, a.config.RetryPollInterval)
	case TimingConsistently:
		consistently(p.ctx, a.execute, p.timeout, a.config.RetryPollInterval)
	default:
		a.execute()
	}

	a.check()

	for _, k := range a.keeps {
		p.do.Set(k.key, gjson.Get(a.response.Body, k.path).String())
	}
}

func (a *HTTPAssert) execute() bool {
	a.response = a.promise.send()
	if a.response.Err != nil {
		return false
	}

	return checkAll(a.response.Status, a.statusCheckers, nil) &&
		checkAll(a.response.Body, a.bodyCheckers, nil) &&
		checkAllJSON(a.response.Body, a.jsonCheckers, nil) &&
		a.conforms() == nil
}

func (a *HTTPAssert) conforms() error {
	if len(a.validators) == 0 {
		return nil
	}

	json, ok := decode(a.response.Body)
	if !ok {
		return &conform.Failure{Message: "expected JSON body"}
	}

	for _, v := range a.validators {
		if err := v(json); err != nil {
			return err
		}
	}

	return nil
}

func (a *HTTPAssert) check() {
	p := a.promise
	res := a.response

	if res.Err != nil {
		panic(fmt.Sprintf("%s %s\n  An error occurred: %v%s", p.method, res.URL, res.Err, a.formatHelp()))
	}

	checkAll(res.Status, a.statusCheckers, func(m Checker[int], actual int) {
		msg := fmt.Sprintf("%s %s\n  Expected status: %s\n  Actual status: %d %s%s",
			p.method, res.URL, m.Expected(), actual,
			http.StatusText(actual), a.formatHelp())
		panic(msg)
	})

	checkAll(res.Body, a.bodyCheckers, func(m Checker[string], actual string) {
		msg := fmt.Sprintf("%s %s\n  Expected response: %s\n  Actual response: %q%s",
			p.method, res.URL, m.Expected(), actual, a.formatHelp())
		panic(msg)
	})

	checkAllJSON(res.Body, a.jsonCheckers, func(m JSONFieldChecker, actual any) {
		msg := fmt.Sprintf("%s %s\n  Expected JSON field %q: %s\n  Actual value: %v%s",
			p.method, res.URL, m.Path, m.Checker.Expected(), actual, a.formatHelp())
		panic(msg)
	})

	if err := a.conforms(); err != nil {
		msg := fmt.Sprintf("%s %s\n  Malformed response: %v%s",
			p.method, res.URL, err, a.formatHelp())
		panic(msg)
	}
}

package attest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	green     = color.New(color.FgGreen).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	bold      = color.New(color.Bold).SprintFunc()
	checkMark = green("✓")
	crossMark = red("✗")
	skipMark  = yellow("○")
)

// Suite represents a test suite with setup and test functions
type Suite struct {
	setupFn func(*Do)
	tests   []TestFunc
	config  *Config
}

// TestFunc represents a single test case with name and function
type TestFunc struct {
	Name string
	Fn   func(*Do)
}

// New creates a new empty test suite
func New() *Suite {
	return &Suite{tests: make([]TestFunc, 0)}
}

// WithConfig sets the configuration for the test suite
func (s *Suite) WithConfig(config *Config) *Suite {
	s.config = merge(config)
	return s
}

// Setup adds a setup function that runs before all tests
func (s *Suite) Setup(fn func(*Do)) *Suite {
	s.setupFn = fn
	return s
}

// Test adds a test case to the suite
func (s *Suite) Test(name string, fn func(*Do)) *Suite {
	s.tests = append(s.tests, TestFunc{Name: name, Fn: fn})
	return s
}

// Case adds request/check cases to the suite. Each one fires its task, waits
// for the result and then applies its check.
func (s *Suite) Case(cases ...*Case) *Suite {
	for _, c := range cases {
		s.Test(c.Label, func(do *Do) {
			do.Run(c)
		})
	}

	return s
}

// Len returns the number of tests in the suite
func (s *Suite) Len() int {
	return len(s.tests)
}

func formatCaseFailure(res Response, err error) string {
	if res.URL == "" {
		return err.Error()
	}

	msg := fmt.Sprintf("%s %s\n  %v", res.Method, res.URL, err)
	if res.Body != "" {
		msg += fmt.Sprintf("\n  Actual response: %q", truncate(res.Body, 300))
	}

	return msg
}

// Run executes the test suite and returns results
func (s *Suite) Run(ctx context.Context) bool {
	config := s.config
	if config == nil {
		config = DefaultConfig()
	}

	runID := uuid.NewString()
	runLog := log.WithFields(logrus.Fields{"run": runID, "target": config.BaseURL})
	runLog.WithField("tests", len(s.tests)).Debug("Starting suite")
	start := time.Now()

	do := newDo(ctx, config)
	defer do.Done()

	// Run setup function if defined
	var failed bool
	if s.setupFn != nil {
		func() {
			defer func() {
				err := recover()
				if err != nil {
					failed = true

					fmt.Printf("%s %s\n", crossMark, "SETUP")
					fmt.Printf("\n%s\n", err)
				}
			}()

			s.setupFn(do)
		}()
	}

	// Run each test, stopping on first failure or cancellation
	passed := 0
	for _, test := range s.tests {
		if failed && !config.KeepGoing {
			fmt.Printf("%s %s [skipped]\n", skipMark, test.Name)
			continue
		}

		select {
		case <-ctx.Done():
			return false
		default:
		}

		ok := func() (ok bool) {
			defer func() {
				err := recover()
				if err != nil {
					ok = false

					fmt.Printf("%s %s\n", crossMark, test.Name)
					fmt.Printf("\n%s\n\n", indent(fmt.Sprint(err)))
				}
			}()

			test.Fn(do)
			return true
		}()

		if ok {
			passed++
			fmt.Printf("%s %s\n", checkMark, test.Name)
		} else {
			failed = true
		}
	}

	runLog.WithFields(logrus.Fields{
		"passed":  passed,
		"total":   len(s.tests),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("Suite finished")

	if failed {
		fmt.Printf("\n%s %s %d/%d tests passed\n", bold("FAILED"), crossMark, passed, len(s.tests))
	} else {
		fmt.Printf("\n%s %s\n", bold("PASSED"), checkMark)
	}

	return !failed
}

func indent(msg string) string {
	return "  " + strings.ReplaceAll(strings.TrimSpace(msg), "\n", "\n  ")
}

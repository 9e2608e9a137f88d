package attest

import (
	"fmt"
	"net/http"

	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/tidwall/gjson"
)

// Check asserts something about a Response.
type Check func(res Response) error

// SuccessToJSON requires a 200 response with a JSON body and hands the
// decoded body to v. A body that fails to decode is reported as an assertion
// failure, never as a decode error.
func SuccessToJSON(v conform.Validator) Check {
	return func(res Response) error {
		if err := expectStatus(res, http.StatusOK); err != nil {
			return err
		}

		if res.Body == "" {
			return &conform.Failure{Message: "expected a response body, got none"}
		}

		json, ok := decode(res.Body)
		if !ok {
			return &conform.Failure{Message: fmt.Sprintf("expected JSON body, got %q", truncate(res.Body, 120))}
		}

		return v(json)
	}
}

// ExpectedHTTPCode requires the given status code.
func ExpectedHTTPCode(code int) Check {
	return func(res Response) error {
		return expectStatus(res, code)
	}
}

// Pass accepts any response. It backs cases that only wait or run a job.
func Pass(Response) error {
	return nil
}

func expectStatus(res Response, code int) error {
	if res.Err != nil {
		return &conform.Failure{Message: "request failed: " + res.Err.Error()}
	}

	if res.Status != code {
		return &conform.Failure{Message: fmt.Sprintf("expected status %s, got %s", statusLine(code), statusLine(res.Status))}
	}

	return nil
}

func decode(body string) (gjson.Result, bool) {
	if !gjson.Valid(body) {
		return gjson.Result{}, false
	}

	return gjson.Parse(body), true
}

func statusLine(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return fmt.Sprint(code)
	}

	return fmt.Sprintf("%d %s", code, text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}

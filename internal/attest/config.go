package attest

import "time"

// Config holds configuration options for the test framework.
type Config struct {
	// BaseURL is where the node under test serves its HTTP API.
	BaseURL string

	// DefaultRetryTimeout for Eventually and Consistently operations.
	DefaultRetryTimeout time.Duration
	// RetryPollInterval for Eventually and Consistently operations.
	RetryPollInterval time.Duration

	// ExecuteTimeout for HTTP client requests.
	ExecuteTimeout time.Duration

	// KeepGoing runs the remaining tests after one fails. Ledger scenarios
	// build on earlier state, so the default is to stop.
	KeepGoing bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:             "http://127.0.0.1:8081",
		DefaultRetryTimeout: 5 * time.Second,
		RetryPollInterval:   100 * time.Millisecond,
		ExecuteTimeout:      5 * time.Second,
	}
}

// merge overlays the non-zero fields of config on the defaults.
func merge(config *Config) *Config {
	merged := DefaultConfig()
	if config == nil {
		return merged
	}

	if config.BaseURL != "" {
		merged.BaseURL = config.BaseURL
	}

	if config.DefaultRetryTimeout != 0 {
		merged.DefaultRetryTimeout = config.DefaultRetryTimeout
	}

	if config.RetryPollInterval != 0 {
		merged.RetryPollInterval = config.RetryPollInterval
	}

	if config.ExecuteTimeout != 0 {
		merged.ExecuteTimeout = config.ExecuteTimeout
	}

	merged.KeepGoing = config.KeepGoing

	return merged
}

// Package scenarios registers every bundled scenario.
package scenarios

import (
	_ "github.com/st3v3nmw/ledgerprobe/scenarios/community"
)

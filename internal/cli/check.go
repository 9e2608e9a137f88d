package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/tidwall/gjson"
	commands "github.com/urfave/cli/v3"
)

// CheckDocument validates a JSON file against one contract without a node.
func CheckDocument(ctx context.Context, cmd *commands.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("expected a contract and a file\nUsage: ledgerprobe check <contract> <file>\nContracts: %s",
			strings.Join(conform.Contracts(), ", "))
	}

	contract, path := cmd.Args().Get(0), cmd.Args().Get(1)

	validate, err := conform.ByName(contract)
	if err != nil {
		return fmt.Errorf("%w\nContracts: %s", err, strings.Join(conform.Contracts(), ", "))
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !gjson.ValidBytes(bytes) {
		fmt.Printf("%s %s is not valid JSON\n", color.RedString("✗"), path)
		return commands.Exit("", 1)
	}

	if err := validate(gjson.ParseBytes(bytes)); err != nil {
		fmt.Printf("%s %s is not a valid %s\n\n  %v\n", color.RedString("✗"), path, contract, err)
		return commands.Exit("", 1)
	}

	fmt.Printf("%s %s is a valid %s\n", color.GreenString("✓"), path, contract)

	return nil
}

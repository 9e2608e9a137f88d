package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/config"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
	"github.com/st3v3nmw/ledgerprobe/internal/throttle"
	_ "github.com/st3v3nmw/ledgerprobe/scenarios"
	commands "github.com/urfave/cli/v3"
)

func InitScenario(ctx context.Context, cmd *commands.Command) error {
	args := cmd.Args().Slice()
	if len(args) > 1 {
		return fmt.Errorf("too many arguments\nUsage: ledgerprobe init [path]")
	}

	targetPath := "."
	if len(args) == 1 {
		targetPath = args[0]
	}

	// Validate that the scenario exists
	scenarioKey := cmd.String("scenario")
	s, err := registry.GetScenario(scenarioKey)
	if err != nil {
		return fmt.Errorf("unknown scenario: %s", scenarioKey)
	}

	// Create directory if specified
	if targetPath != "." {
		if err := os.MkdirAll(targetPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", targetPath, err)
		}
	}

	// Create README.md
	readmePath := filepath.Join(targetPath, "README.md")
	if err := os.WriteFile(readmePath, []byte(s.README()), 0644); err != nil {
		return fmt.Errorf("failed to create README.md: %w", err)
	}

	// Create ledgerprobe.yaml
	cfg := config.New(scenarioKey, s.StageOrder[0])
	if baseURL := cmd.String("base-url"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	configPath := filepath.Join(targetPath, "ledgerprobe.yaml")
	if err := config.SaveTo(cfg, configPath); err != nil {
		return fmt.Errorf("failed to create ledgerprobe.yaml: %w", err)
	}

	// Output success message
	if targetPath == "." {
		fmt.Println("Created scenario in current directory.")
	} else {
		fmt.Printf("Created scenario in directory: %s\n", targetPath)
	}

	fmt.Println("  README.md         - Scenario overview and stages")
	fmt.Println("  ledgerprobe.yaml  - Node address, keys and progress")
	fmt.Println()
	fmt.Printf("Add your keys to ledgerprobe.yaml, then run 'ledgerprobe run' to test %s.\n", s.StageOrder[0])

	return nil
}

func RunStage(ctx context.Context, cmd *commands.Command) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var stageKey string

	args := cmd.Args().Slice()
	switch cmd.NArg() {
	case 0:
		// Use current stage from config
		stageKey = cfg.Stages.Current
	case 1:
		// ledgerprobe run <stage>
		stageKey = args[0]
	default:
		return fmt.Errorf("too many arguments\nUsage: ledgerprobe run [stage]")
	}

	// Validate
	s, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}

	stage, err := s.GetStage(stageKey)
	if err != nil {
		msg := "\nAvailable stages:\n"
		for _, stage := range s.StageOrder {
			msg += fmt.Sprintf("- %s\n", stage)
		}
		return fmt.Errorf("%w\n%s", err, msg)
	}

	keys, err := ledger.LoadKeyring(cfg.Keys)
	if err != nil {
		return fmt.Errorf("failed to load keys: %w", err)
	}

	// Throttled queues live for the whole run
	memberships := throttle.New("memberships", cfg.MembershipInterval())
	defer memberships.Close()
	votes := throttle.New("votes", cfg.VoteInterval())
	defer votes.Close()

	client := attest.NewClient(cfg.BaseURL, cfg.Timeout())
	env := &registry.Env{
		Tester:   scenario.New(client, ledger.NewModel(cfg.Currency), memberships, votes),
		Keys:     keys,
		Currency: cfg.Currency,
	}

	suite, err := build(stage.Fn, env)
	if err != nil {
		return err
	}

	// Run tests
	fmt.Printf("Running %s: %s\n\n", stageKey, stage.Name)

	passed := suite.
		WithConfig(&attest.Config{
			BaseURL:        cfg.BaseURL,
			ExecuteTimeout: cfg.Timeout(),
			KeepGoing:      cmd.Bool("keep-going"),
		}).
		Run(ctx)

	for _, q := range []*throttle.Queue{memberships, votes} {
		stats := q.Stats()
		log.WithField("queue", stats.Name).
			WithField("started", stats.Started).
			WithField("pending", stats.Pending).
			Debug("Queue usage")
	}

	if !passed {
		return commands.Exit("", 1)
	}

	// Record progress
	cfg.Complete(stageKey)
	next := s.Next(stageKey)
	if stageKey == cfg.Stages.Current && next != "" {
		cfg.Stages.Current = next
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	if next != "" {
		fmt.Printf("\nNext up: %s. Run 'ledgerprobe run' when ready.\n", next)
	} else {
		fmt.Println("\nAll stages of this scenario pass.")
	}

	return nil
}

// build calls a stage function, turning a panic (a missing key, usually)
// into an error.
func build(fn registry.StageFunc, env *registry.Env) (suite *attest.Suite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to prepare stage: %v", r)
		}
	}()

	return fn(env), nil
}

func ShowStatus(ctx context.Context, cmd *commands.Command) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Get scenario from registry
	s, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	// Summary
	fmt.Println(s.Name)
	fmt.Println()

	fmt.Println(s.Summary)
	fmt.Println()

	fmt.Printf("Node: %s (currency %s)\n", cfg.BaseURL, cfg.Currency)
	fmt.Println()

	// Progress
	fmt.Println("Progress:")
	for _, stageKey := range s.StageOrder {
		stage, err := s.GetStage(stageKey)
		if err != nil {
			continue
		}

		// Format stage line
		if slices.Contains(cfg.Stages.Completed, stageKey) {
			fmt.Printf("✓ %-18s - %s\n", stageKey, stage.Name)
		} else if stageKey == cfg.Stages.Current {
			fmt.Printf("→ %-18s - %s\n", stageKey, stage.Name)
		} else {
			fmt.Printf("  %-18s - %s\n", stageKey, stage.Name)
		}
	}
	fmt.Println()

	// Next steps
	fmt.Printf("Run 'ledgerprobe run' to test %s.\n", cfg.Stages.Current)

	return nil
}

func ListScenarios(ctx context.Context, cmd *commands.Command) error {
	fmt.Println("Available scenarios:")
	fmt.Println()

	for _, s := range registry.GetAllScenarios() {
		fmt.Printf("  %-20s - %s (%d stages)\n", s.Key, s.Name, s.Len())
		for _, key := range s.StageOrder {
			fmt.Printf("      %-16s %s\n", key, s.Stages[key].Name)
		}
	}

	fmt.Println()
	fmt.Println("Start with: ledgerprobe init --scenario <scenario-name>")

	return nil
}

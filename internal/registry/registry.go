package registry

import (
	"fmt"
	"slices"

	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

var scenarios = make(map[string]*Scenario)

// Env is what a stage needs to build its suite.
type Env struct {
	Tester   *scenario.Tester
	Keys     *ledger.Keyring
	Currency string
}

// Signatory returns the named key or panics, failing the test that asked.
func (e *Env) Signatory(name string) ledger.Signatory {
	s, err := e.Keys.Get(name)
	if err != nil {
		panic(fmt.Sprintf("%v\nAdd it under keys in ledgerprobe.yaml.", err))
	}

	return s
}

type Scenario struct {
	Key        string
	Name       string
	Concepts   []string
	Summary    string
	Stages     map[string]*Stage
	StageOrder []string
}

type Stage struct {
	Name string
	Fn   StageFunc
}

type StageFunc func(env *Env) *attest.Suite

func (s *Scenario) AddStage(key, name string, fn StageFunc) {
	if s.Stages == nil {
		s.Stages = make(map[string]*Stage)
	}

	s.Stages[key] = &Stage{Name: name, Fn: fn}
	s.StageOrder = append(s.StageOrder, key)
}

func (s *Scenario) GetStage(key string) (*Stage, error) {
	stage, exists := s.Stages[key]
	if !exists {
		return nil, fmt.Errorf("stage %q not found for scenario %s", key, s.Key)
	}

	return stage, nil
}

// Next returns the stage after key, or "" if key is the last one.
func (s *Scenario) Next(key string) string {
	i := slices.Index(s.StageOrder, key)
	if i < 0 || i+1 >= len(s.StageOrder) {
		return ""
	}

	return s.StageOrder[i+1]
}

func (s *Scenario) Len() int {
	return len(s.StageOrder)
}

func (s *Scenario) README() string {
	stages := ""
	for i, key := range s.StageOrder {
		stages += fmt.Sprintf("%d. **%s** - %s\n", i+1, key, s.Stages[key].Name)
	}

	return fmt.Sprintf(`# %s

%s

## Stages

%s
## Getting Started

1. Point _base_url_ in _ledgerprobe.yaml_ at a running node
2. List the armored private keys to sign with under _keys_
3. Run _ledgerprobe run_ to test the current stage
`, s.Name, s.Summary, stages)
}

func RegisterScenario(key string, s *Scenario) {
	if len(s.Stages) == 0 {
		log.Fatalf("Cannot register empty scenario %s.", key)
	}

	s.Key = key
	scenarios[key] = s
}

func GetScenario(key string) (*Scenario, error) {
	s, exists := scenarios[key]
	if !exists {
		return nil, fmt.Errorf("scenario %s not found", key)
	}

	return s, nil
}

// GetAllScenarios returns every registered scenario ordered by key.
func GetAllScenarios() []*Scenario {
	keys := make([]string, 0, len(scenarios))
	for key := range scenarios {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	all := make([]*Scenario, 0, len(keys))
	for _, key := range keys {
		all = append(all, scenarios[key])
	}

	return all
}

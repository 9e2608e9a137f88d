package community

import "github.com/st3v3nmw/ledgerprobe/internal/registry"

// Keys the stages sign with. Each must be listed in ledgerprobe.yaml.
const (
	cat  = "cat"
	tobi = "tobi"
	snow = "snow"
)

func init() {
	scenario := &registry.Scenario{
		Name:     "Web of Trust Community",
		Concepts: []string{"public keys", "memberships", "voters", "amendments", "Merkle trees"},
		Summary: `Drives a ledger node through the life of a small community.
Members upload their keys, join, declare voting keys and vote amendments,
and every answer the node gives is checked against the protocol's formats.`,
	}

	scenario.AddStage("pks", "Public Key Server", PublicKeys)
	scenario.AddStage("membership", "Joining and Leaving the Community", Memberships)
	scenario.AddStage("voting", "Voting Key Declarations", Voters)
	scenario.AddStage("amendments", "Voting Amendments", Amendments)
	scenario.AddStage("merkle", "Merkle Trees of the Current Amendment", MerkleTrees)

	registry.RegisterScenario("community", scenario)
}

package community

import (
	. "github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

func Voters(env *registry.Env) *Suite {
	t := env.Tester
	catKey := env.Signatory(cat)
	tobiKey := env.Signatory(tobi)

	return New().
		Case(
			t.Verify("Cat declares a voting key", t.SetVoter(catKey), scenario.ExpectedVoting(catKey.Fingerprint())),
			t.Verify("Tobi declares a voting key", t.SetVoter(tobiKey), scenario.ExpectedVoting(tobiKey.Fingerprint())),
		).
		Test("Voters Merkle Tree", func(do *Do) {
			do.HTTP("GET", "/registry/community/voters").
				Eventually().T().
				Status(Is(200)).
				Conforms(conform.IsMerkleSimpleResult).
				JSON("leavesCount", Is("2")).
				Assert("/registry/community/voters should hold one leaf per voting declaration.")
		})
}

package community

import (
	. "github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

func Memberships(env *registry.Env) *Suite {
	t := env.Tester
	catKey := env.Signatory(cat)
	tobiKey := env.Signatory(tobi)
	snowKey := env.Signatory(snow)

	return New().
		Case(
			t.Verify("Cat joins", t.Join(catKey), scenario.ExpectedMembership(catKey.Fingerprint())),
			t.Verify("Tobi joins", t.Join(tobiKey), scenario.ExpectedMembership(tobiKey.Fingerprint())),
			t.Verify("Snow joins", t.Join(snowKey), scenario.ExpectedMembership(snowKey.Fingerprint())),
			t.Verify("Cat renews membership", t.Actualize(catKey), scenario.ExpectedMembership(catKey.Fingerprint())),
			t.Verify("Snow leaves", t.Leave(snowKey), scenario.ExpectedMembership(snowKey.Fingerprint())),
		).
		Test("Members Merkle Tree", func(do *Do) {
			do.HTTP("GET", "/registry/community/members").
				Eventually().T().
				Status(Is(200)).
				Conforms(conform.IsMerkleSimpleResult).
				JSON("root", Hash()).
				Assert("/registry/community/members should summarize pending memberships as a Merkle tree.\n" +
					"Every accepted membership document becomes one leaf.")
		})
}

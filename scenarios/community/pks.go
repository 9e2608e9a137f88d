package community

import (
	"fmt"

	. "github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

func PublicKeys(env *registry.Env) *Suite {
	t := env.Tester

	upload := func(name string) func(do *Do) {
		return func(do *Do) {
			s, ok := env.Signatory(name).(ledger.Publisher)
			if !ok {
				panic(fmt.Sprintf("key %q cannot export its public key", name))
			}

			pub, err := s.PublicKey()
			if err != nil {
				panic(fmt.Sprintf("exporting %q's public key: %v", name, err))
			}

			do.Run(t.Verify(
				fmt.Sprintf("Uploading %s's key", name),
				t.PKSAdd(pub),
				scenario.ExpectedPubkey(s.Fingerprint()),
			))
		}
	}

	return New().
		// 1
		Test("Upload Public Keys", func(do *Do) {
			for _, name := range []string{cat, tobi, snow} {
				upload(name)(do)
			}
		}).

		// 2
		Test("Reject Garbage Keys", func(do *Do) {
			do.HTTP("POST", "/pks/add", Form{"keytext": "not a key"}).T().
				Status(OneOf(400, 422)).
				Assert("The key server should reject text that is not an armored public key.\n" +
					"Parse keytext before storing it and answer 400 when it fails.")
		}).

		// 3
		Test("Key Merkle Tree", func(do *Do) {
			do.HTTP("GET", "/pks/all").T().
				Status(Is(200)).
				Conforms(conform.IsMerkleSimpleResult).
				JSON("leavesCount", Is("3")).
				JSON("root", Hash()).
				Assert("/pks/all should summarize every uploaded key as a Merkle tree.\n" +
					"Expect one leaf per key and no leaf data unless asked for.")

			do.HTTP("GET", "/pks/all?leaves=true").T().
				Status(Is(200)).
				Conforms(conform.IsMerkleLeavesResult).
				Assert("/pks/all?leaves=true should list every leaf with its hash and value.")
		})
}

package community

import (
	"time"

	. "github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

func Amendments(env *registry.Env) *Suite {
	t := env.Tester
	catKey := env.Signatory(cat)
	tobiKey := env.Signatory(tobi)

	pending := conform.Properties{
		"currency":     conform.Equal(env.Currency),
		"number":       conform.Equal(0),
		"previousHash": conform.Absent(),
		"membersCount": conform.Equal(2),
		"votersCount":  conform.Equal(2),
	}

	return New().
		Case(
			t.Verify("Pending amendment", t.DoGet("/registry/amendment"), scenario.ExpectedAmendment(pending)),
			t.Verify("Node votes for amendment #0", t.SelfVote(0), scenario.ExpectedSignedAmendment(pending)),
			t.Verify("Cat votes", t.Vote(catKey), scenario.ExpectedSignedAmendment(pending)),
		).
		Test("Vote During Membership Renewal", func(do *Do) {
			// Votes and memberships have separate queues, so neither waits on the other.
			do.Concurrently(
				func() {
					do.Run(t.Verify("Tobi votes", t.Vote(tobiKey), scenario.ExpectedSignedAmendment(pending)))
				},
				func() {
					do.Run(t.Verify("Cat renews membership", t.Actualize(catKey), scenario.ExpectedMembership(catKey.Fingerprint())))
				},
			)
		}).
		Case(
			t.Delay(500*time.Millisecond),
		).
		Test("Amendment Promotion", func(do *Do) {
			do.HTTP("GET", "/hdc/amendments/current").
				Eventually().Within(10*time.Second).T().
				Status(Is(200)).
				Conforms(conform.IsAmendment, conform.ExpectedAmendment(pending)).
				JSON("membersChanges.0", Change()).
				JSON("votersChanges.0", Change()).
				JSON("dividend", IsNull[string]()).
				Assert("Amendment #0 should be promoted once a majority of voters signed it.\n" +
					"Count votes per amendment and promote when more than half agree.")
		}).
		Case(
			t.Verify("Cat votes for the current amendment", t.VoteCurrent(catKey), scenario.ExpectedSignedAmendment(pending)),
		).
		Test("Forged Votes", func(do *Do) {
			do.HTTP("POST", "/hdc/amendments/votes", Form{
				"amendment": "Version: 1\nCurrency: " + env.Currency + "\nNumber: 0\n",
				"signature": "-----BEGIN PGP SIGNATURE-----\nforged\n-----END PGP SIGNATURE-----\n",
			}).T().
				Status(Is(400)).
				Assert("Votes whose signature does not verify should be rejected.\n" +
					"Check the signature against the issuer's key before counting a vote.")
		})
}

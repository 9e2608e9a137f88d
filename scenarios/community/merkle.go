package community

import (
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"

	. "github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/conform"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
)

// amendmentID is how nodes address an amendment: its number and the
// uppercase SHA-1 of its raw text.
func amendmentID(number, raw string) string {
	return fmt.Sprintf("%s-%X", number, sha1.Sum([]byte(raw)))
}

func MerkleTrees(env *registry.Env) *Suite {
	t := env.Tester

	return New().
		Setup(func(do *Do) {
			do.HTTP("GET", "/hdc/amendments/current").T().
				Status(Is(200)).
				Conforms(conform.IsAmendment).
				Keep("number", "number").
				Keep("raw", "raw").
				Keep("membersRoot", "membersRoot").
				Keep("membersCount", "membersCount").
				Assert("A promoted amendment is needed to inspect its trees.\n" +
					"Run the amendments stage first.")
		}).

		// 1
		Test("Members Tree Summary", func(do *Do) {
			id := amendmentID(do.Get("number"), do.Get("raw"))

			count, err := strconv.Atoi(do.Get("membersCount"))
			if err != nil {
				count = -1
			}

			do.Run(t.Verify(
				"Members tree of the current amendment",
				t.DoGet("/hdc/amendments/view/"+id+"/members"),
				scenario.ExpectedMerkle(do.Get("membersRoot"), count),
			))
		}).

		// 2
		Test("Members Tree Leaves", func(do *Do) {
			id := amendmentID(do.Get("number"), do.Get("raw"))

			do.HTTP("GET", "/hdc/amendments/view/"+id+"/members?leaves=true").T().
				Status(Is(200)).
				Conforms(conform.IsMerkleLeavesResult).
				Keep("leaves.0.hash", "leaf").
				Assert("?leaves=true should list every member leaf with its hash and value.")

			do.HTTP("GET", "/hdc/amendments/view/"+id+"/members?leaf="+do.Get("leaf")).T().
				Status(Is(200)).
				Conforms(conform.IsMerkleLeafResult).
				Assert("?leaf=<hash> should return that single leaf.")
		}).

		// 3
		Test("Unknown Amendment", func(do *Do) {
			unknown := "0-" + strings.Repeat("0", 40)

			do.HTTP("GET", "/hdc/amendments/view/"+unknown+"/members").T().
				Status(Is(404)).
				Assert("Trees of an amendment the node never saw should not exist.")
		})
}

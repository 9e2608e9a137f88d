package community

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/st3v3nmw/ledgerprobe/internal/attest"
	"github.com/st3v3nmw/ledgerprobe/internal/ledger"
	"github.com/st3v3nmw/ledgerprobe/internal/registry"
	"github.com/st3v3nmw/ledgerprobe/internal/scenario"
	"github.com/st3v3nmw/ledgerprobe/internal/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fingerprints = map[string]string{
	cat:  "C73882B64B7E72237A2F460CE9CAB76D19A8651E",
	tobi: "2E69197FAB029D8669EF85E82457A1587CA0ED9C",
	snow: "33BBFC0C67078D72AF128B5BA296CC530126F372",
}

// issuer pulls the Issuer line out of a raw document.
func issuer(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if v, ok := strings.CutPrefix(line, "Issuer: "); ok {
			return v
		}
	}

	return ""
}

// genesis is amendment #0 of a community with cat and tobi as members and
// voters.
func genesis() map[string]any {
	return map[string]any{
		"version":        1,
		"currency":       "beta_brousouf",
		"generated":      1398895200,
		"number":         0,
		"votersRoot":     fingerprints[tobi],
		"votersCount":    2,
		"votersChanges":  []string{"+" + fingerprints[cat], "+" + fingerprints[tobi]},
		"membersRoot":    fingerprints[cat],
		"membersCount":   2,
		"membersChanges": []string{"+" + fingerprints[cat], "+" + fingerprints[tobi]},
		"raw":            "Version: 1\nCurrency: beta_brousouf\nNumber: 0\n",
	}
}

// fakeNode answers document submissions the way a healthy node would.
func fakeNode(voters int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()

		var body any
		switch r.URL.Path {
		case "/registry/amendment", "/hdc/amendments/current":
			body = genesis()
		case "/registry/amendment/0/vote":
			body = map[string]any{"signature": "-----BEGIN PGP SIGNATURE-----", "amendment": genesis()}
		case "/hdc/amendments/votes":
			if strings.Contains(r.PostForm.Get("signature"), "forged") {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			body = map[string]any{"signature": r.PostForm.Get("signature"), "amendment": genesis()}
		case "/registry/community/members":
			if r.Method == "GET" {
				body = map[string]any{"depth": 1, "nodesCount": 3, "leavesCount": 2, "root": fingerprints[cat]}
				break
			}

			raw := r.PostForm.Get("membership")
			body = map[string]any{
				"signature": r.PostForm.Get("signature"),
				"membership": map[string]any{
					"version": 1, "currency": "beta_brousouf", "issuer": issuer(raw),
					"membership": "IN", "sigDate": 1380000000, "raw": raw,
				},
			}
		case "/registry/community/voters":
			if r.Method == "GET" {
				body = map[string]any{"depth": 1, "nodesCount": 3, "leavesCount": voters, "root": fingerprints[tobi]}
				break
			}

			raw := r.PostForm.Get("voting")
			body = map[string]any{
				"signature": r.PostForm.Get("signature"),
				"voting": map[string]any{
					"version": 1, "currency": "beta_brousouf", "issuer": issuer(raw),
					"sigDate": 1380000000, "raw": raw,
				},
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		json.NewEncoder(w).Encode(body)
	}
}

func newEnv(t *testing.T, handler http.Handler) (*registry.Env, *attest.Config) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	memberships := throttle.New("memberships", 5*time.Millisecond)
	votes := throttle.New("votes", 5*time.Millisecond)
	t.Cleanup(memberships.Close)
	t.Cleanup(votes.Close)

	keys := ledger.NewKeyring()
	for name, fpr := range fingerprints {
		keys.Add(name, ledger.NewSyncSignatory(fpr, func(string) (string, error) {
			return "-----BEGIN PGP SIGNATURE-----", nil
		}))
	}

	client := attest.NewClient(server.URL, time.Second)
	tester := scenario.New(client, ledger.NewModel("beta_brousouf"), memberships, votes)

	config := &attest.Config{
		BaseURL:             server.URL,
		DefaultRetryTimeout: 500 * time.Millisecond,
		RetryPollInterval:   10 * time.Millisecond,
	}

	return &registry.Env{Tester: tester, Keys: keys, Currency: "beta_brousouf"}, config
}

func TestStages(t *testing.T) {
	tests := []struct {
		name       string
		stage      registry.StageFunc
		voters     int
		shouldPass bool
	}{
		{name: "memberships", stage: Memberships, voters: 2, shouldPass: true},
		{name: "voters", stage: Voters, voters: 2, shouldPass: true},
		{name: "voters tree missing a leaf", stage: Voters, voters: 1, shouldPass: false},
		{name: "amendments", stage: Amendments, voters: 2, shouldPass: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, config := newEnv(t, fakeNode(tt.voters))

			passed := tt.stage(env).WithConfig(config).Run(context.Background())
			assert.Equal(t, tt.shouldPass, passed)
		})
	}
}

func TestAmendmentsRenewWhileVoting(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	node := fakeNode(2)
	env, config := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()

		node(w, r)
	}))

	require.True(t, Amendments(env).WithConfig(config).Run(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, "POST /registry/community/members")
	assert.Contains(t, seen, "POST /hdc/amendments/votes")
}

func TestAmendmentsBadVoteReceipt(t *testing.T) {
	node := fakeNode(2)
	env, config := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hdc/amendments/votes" {
			// Vote receipts without the amendment that was voted for.
			r.ParseForm()
			w.Write([]byte(`{"signature":"sig","amendment":{}}`))
			return
		}

		node(w, r)
	}))

	assert.False(t, Amendments(env).WithConfig(config).Run(context.Background()))
}

func TestStageNeedsKeys(t *testing.T) {
	env, _ := newEnv(t, fakeNode(2))
	env.Keys = ledger.NewKeyring()

	assert.Panics(t, func() { Memberships(env) })
}

func TestAmendmentID(t *testing.T) {
	assert.Equal(t, "0-DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", amendmentID("0", ""))
}

func TestRegistered(t *testing.T) {
	s, err := registry.GetScenario("community")
	require.NoError(t, err)
	assert.Equal(t, []string{"pks", "membership", "voting", "amendments", "merkle"}, s.StageOrder)
}

package conform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstTransaction() map[string]any {
	return map[string]any{
		"version":   1,
		"currency":  "beta_brousouf",
		"sender":    hashA,
		"number":    0,
		"recipient": hashB,
		"coins":     []string{hashA + "-1-2"},
		"comment":   "",
	}
}

func TestIsTransaction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		path   string
	}{
		{
			name:   "first transaction",
			mutate: func(tx map[string]any) {},
		},
		{
			name:   "coin with transaction reference",
			mutate: func(tx map[string]any) { tx["coins"] = []string{hashA + "-12-3:" + hashB + "-7"} },
		},
		{
			name:   "malformed coin",
			mutate: func(tx map[string]any) { tx["coins"] = []string{"bad"} },
			path:   "coins",
		},
		{
			name:   "coin with lowercase issuer",
			mutate: func(tx map[string]any) { tx["coins"] = []string{"abcdefabcdefabcdefabcdefabcdefabcdefabcd-1-2"} },
			path:   "coins",
		},
		{
			name:   "no coins",
			mutate: func(tx map[string]any) { tx["coins"] = []string{} },
		},
		{
			name:   "second transaction without previousHash",
			mutate: func(tx map[string]any) { tx["number"] = 1 },
			path:   "previousHash",
		},
		{
			name: "second transaction with previousHash",
			mutate: func(tx map[string]any) {
				tx["number"] = 1
				tx["previousHash"] = hash09
			},
		},
		{
			name:   "legacy type field",
			mutate: func(tx map[string]any) { tx["type"] = "TRANSFER" },
			path:   "type",
		},
		{
			name:   "legacy amounts field",
			mutate: func(tx map[string]any) { tx["amounts"] = []int{1} },
			path:   "amounts",
		},
		{
			name:   "null type is tolerated",
			mutate: func(tx map[string]any) { tx["type"] = nil },
		},
		{
			name:   "missing comment",
			mutate: func(tx map[string]any) { delete(tx, "comment") },
			path:   "comment",
		},
		{
			name:   "version zero",
			mutate: func(tx map[string]any) { tx["version"] = 0 },
			path:   "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := firstTransaction()
			tt.mutate(tx)

			err := IsTransaction(parse(t, tx))
			if tt.path == "" {
				assert.NoError(t, err)
				return
			}

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.path, f.Path)
		})
	}
}

func TestIsTransactionClauseOrder(t *testing.T) {
	// Both a bad version and a legacy type: numbers are checked before strings.
	tx := firstTransaction()
	tx["version"] = 0
	tx["type"] = "TRANSFER"

	var f *Failure
	require.ErrorAs(t, IsTransaction(parse(t, tx)), &f)
	assert.Equal(t, "version", f.Path)

	tx["version"] = 1
	require.ErrorAs(t, IsTransaction(parse(t, tx)), &f)
	assert.Equal(t, "type", f.Path)
}

func TestExpectedSignedTransaction(t *testing.T) {
	signed := parse(t, map[string]any{
		"signature":   "-----BEGIN PGP SIGNATURE-----",
		"raw":         "Version: 1\n",
		"transaction": firstTransaction(),
	})

	assert.NoError(t, IsSignedTransaction(signed))
	assert.NoError(t, ExpectedSignedTransaction(Properties{
		"sender": Equal(hashA),
		"coins":  Equal([]string{hashA + "-1-2"}),
	})(signed))

	var f *Failure
	err := ExpectedSignedTransaction(Properties{"recipient": Equal(hashA)})(signed)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "transaction.recipient", f.Path)

	err = IsSignedTransaction(parse(t, map[string]any{"signature": "s", "transaction": firstTransaction()}))
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "raw", f.Path)
}

package conform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const armoredKey = "-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nmQENBFHHC/EBCADWTLSN7EGP\n-----END PGP PUBLIC KEY BLOCK-----\n"

func TestIsPubKey(t *testing.T) {
	valid := map[string]any{
		"email":       "cat@example.org",
		"name":        "LoL Cat",
		"fingerprint": "C73882B64B7E72237A2F460CE9CAB76D19A8651E",
		"raw":         armoredKey,
	}
	assert.NoError(t, IsPubKey(parse(t, valid)))
	assert.NoError(t, ExpectedPubkey("C73882B64B7E72237A2F460CE9CAB76D19A8651E")(parse(t, valid)))
	assert.Error(t, ExpectedPubkey(hashA)(parse(t, valid)))

	withID := map[string]any{"_id": "5322d1ab"}
	for k, v := range valid {
		withID[k] = v
	}
	assert.Error(t, IsPubKey(parse(t, withID)))

	bare := map[string]any{}
	for k, v := range valid {
		bare[k] = v
	}
	bare["raw"] = "mQENBFHHC/EBCADWTLSN7EGP"
	assert.Error(t, IsPubKey(parse(t, bare)))

	delete(bare, "email")
	var f *Failure
	require.ErrorAs(t, IsPubKey(parse(t, bare)), &f)
	assert.Equal(t, "email", f.Path)
}

func TestIsMembership(t *testing.T) {
	doc := func() map[string]any {
		return map[string]any{
			"signature": "-----BEGIN PGP SIGNATURE-----\n",
			"membership": map[string]any{
				"version":    1,
				"currency":   "beta_brousouf",
				"issuer":     hashA,
				"membership": "IN",
				"sigDate":    1398895200,
				"raw":        "Version: 1\nCurrency: beta_brousouf\nIssuer: " + hashA + "\n",
			},
		}
	}

	assert.NoError(t, IsMembership(parse(t, doc())))
	assert.NoError(t, ExpectedMembership(hashA)(parse(t, doc())))

	var f *Failure
	require.ErrorAs(t, ExpectedMembership(hashB)(parse(t, doc())), &f)
	assert.Equal(t, "membership.issuer", f.Path)

	signedRaw := doc()
	signedRaw["membership"].(map[string]any)["raw"] = "-----BEGIN PGP SIGNED MESSAGE-----\n"
	require.ErrorAs(t, IsMembership(parse(t, signedRaw)), &f)
	assert.Equal(t, "membership.raw", f.Path)

	leaked := doc()
	leaked["membership"].(map[string]any)["_id"] = "5322d1ab"
	require.ErrorAs(t, IsMembership(parse(t, leaked)), &f)
	assert.Equal(t, "membership._id", f.Path)

	unsigned := doc()
	delete(unsigned, "signature")
	require.ErrorAs(t, IsMembership(parse(t, unsigned)), &f)
	assert.Equal(t, "signature", f.Path)
}

func TestIsVoting(t *testing.T) {
	doc := map[string]any{
		"signature": "sig",
		"voting": map[string]any{
			"version":  1,
			"currency": "beta_brousouf",
			"issuer":   hashB,
			"sigDate":  1398895200,
			"raw":      "Version: 1\n",
		},
	}

	assert.NoError(t, IsVoting(parse(t, doc)))
	assert.NoError(t, ExpectedVoting(hashB)(parse(t, doc)))
	assert.Error(t, ExpectedVoting(hashA)(parse(t, doc)))

	// A membership document is not a voting declaration.
	assert.Error(t, IsVoting(gjson.Parse(`{"signature":"s","membership":{}}`)))
}

func TestByName(t *testing.T) {
	for _, name := range Contracts() {
		v, err := ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, v, name)
	}

	_, err := ByName("block")
	assert.ErrorIs(t, err, ErrUnknownContract)
}

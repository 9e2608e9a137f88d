package ledger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

// writeKey generates a throwaway private key and stores it armored under dir.
func writeKey(t *testing.T, dir, name string) (string, *openpgp.Entity) {
	t.Helper()

	entity, err := openpgp.NewEntity(name, "", name+"@example.org", nil)
	require.NoError(t, err)

	path := filepath.Join(dir, name+".asc")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := armor.Encode(f, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	return path, entity
}

func TestPGPSignatory(t *testing.T) {
	path, entity := writeKey(t, t.TempDir(), "cat")

	s, err := LoadPGPSignatory(path)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-F0-9]{40}$`, s.Fingerprint())

	raw := NewModel("beta_brousouf").Membership(s.Fingerprint(), MembershipIn).Raw()
	sig, err := s.Sign(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "-----BEGIN PGP SIGNATURE-----"))

	signer, err := openpgp.CheckArmoredDetachedSignature(openpgp.EntityList{entity}, strings.NewReader(raw), strings.NewReader(sig))
	require.NoError(t, err)
	assert.Equal(t, entity.PrimaryKey.KeyId, signer.PrimaryKey.KeyId)

	pub, err := s.PublicKey()
	require.NoError(t, err)
	assert.Contains(t, pub, "-----BEGIN PGP PUBLIC KEY BLOCK-----")
}

func TestLoadPGPSignatoryErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPGPSignatory(filepath.Join(dir, "missing.asc"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.asc")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0o600))
	_, err = LoadPGPSignatory(garbage)
	assert.Error(t, err)
}

func TestKeyring(t *testing.T) {
	dir := t.TempDir()
	catPath, _ := writeKey(t, dir, "cat")
	tobiPath, _ := writeKey(t, dir, "tobi")

	k, err := LoadKeyring(map[string]string{"tobi": tobiPath, "cat": catPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "tobi"}, k.Names())
	assert.Equal(t, 2, k.Len())

	cat, err := k.Get("cat")
	require.NoError(t, err)
	assert.Len(t, cat.Fingerprint(), 40)

	_, err = k.Get("snow")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = LoadKeyring(map[string]string{"snow": filepath.Join(dir, "snow.asc")})
	assert.Error(t, err)
}

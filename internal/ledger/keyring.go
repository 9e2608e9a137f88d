package ledger

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/st3v3nmw/ledgerprobe/pkg/threadsafe"
)

// ErrUnknownKey is returned when a keyring has no signatory by that name.
var ErrUnknownKey = errors.New("unknown key")

// Keyring maps names used by scenarios ("cat", "tobi", ...) to signatories.
type Keyring struct {
	keys *threadsafe.Map[string, Signatory]
}

// NewKeyring creates an empty keyring.
func NewKeyring() *Keyring {
	return &Keyring{keys: threadsafe.NewMap[string, Signatory]()}
}

// LoadKeyring reads one armored private key per name.
func LoadKeyring(paths map[string]string) (*Keyring, error) {
	k := NewKeyring()
	for name, path := range paths {
		s, err := LoadPGPSignatory(path)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", name)
		}

		k.Add(name, s)
		log.WithField("name", name).WithField("fingerprint", s.Fingerprint()).Debug("Loaded key")
	}

	return k, nil
}

// Add registers s under name, replacing any previous entry.
func (k *Keyring) Add(name string, s Signatory) {
	k.keys.Set(name, s)
}

// Get returns the signatory registered under name.
func (k *Keyring) Get(name string) (Signatory, error) {
	s, ok := k.keys.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKey, "%q", name)
	}

	return s, nil
}

// Names lists registered names in sorted order.
func (k *Keyring) Names() []string {
	names := k.keys.Keys()
	slices.Sort(names)
	return names
}

// Len returns the number of registered signatories.
func (k *Keyring) Len() int {
	return k.keys.Len()
}

package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

// PGPSignatory signs with an OpenPGP private key. Signatures are armored
// detached text signatures, the form ledger nodes verify.
type PGPSignatory struct {
	entity      *openpgp.Entity
	fingerprint string
}

// ReadPGPSignatory loads the first entity of an armored private key ring.
func ReadPGPSignatory(r io.Reader) (*PGPSignatory, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading armored key")
	}

	if len(entities) == 0 {
		return nil, errors.New("key ring is empty")
	}

	entity := entities[0]
	if entity.PrivateKey == nil {
		return nil, errors.New("key ring holds no private key")
	}

	if entity.PrivateKey.Encrypted {
		return nil, errors.New("private key is passphrase protected")
	}

	return &PGPSignatory{
		entity:      entity,
		fingerprint: fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint),
	}, nil
}

// LoadPGPSignatory reads an armored private key from path.
func LoadPGPSignatory(path string) (*PGPSignatory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening key %s", path)
	}
	defer f.Close()

	s, err := ReadPGPSignatory(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading key %s", path)
	}

	return s, nil
}

func (s *PGPSignatory) Fingerprint() string {
	return s.fingerprint
}

// PublicKey returns the armored public key, as uploaded to /pks/add.
func (s *PGPSignatory) PublicKey() (string, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return "", errors.Wrap(err, "opening armor")
	}

	if err := s.entity.Serialize(w); err != nil {
		return "", errors.Wrap(err, "serializing public key")
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing armor")
	}

	return buf.String(), nil
}

func (s *PGPSignatory) Sign(ctx context.Context, raw string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSignText(&buf, s.entity, strings.NewReader(raw), nil); err != nil {
		return "", errors.Wrapf(err, "signing as %s", s.fingerprint)
	}

	log.WithField("fingerprint", s.fingerprint).Debug("Signed document")

	return buf.String(), nil
}

package ledger

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType names the kind of signed document.
type DocumentType string

const (
	TypeMembership DocumentType = "MEMBERSHIP"
	TypeVoting     DocumentType = "VOTING"
)

// MembershipState is the state a membership document requests.
type MembershipState string

const (
	MembershipIn  MembershipState = "IN"
	MembershipOut MembershipState = "OUT"
)

// Canonical is an unsigned document in the form that gets signed.
type Canonical struct {
	Version    int
	Currency   string
	Issuer     string
	Type       DocumentType
	Date       time.Time
	Membership MembershipState
}

// Raw renders the document text. Every line ends with a newline; the
// Membership line only appears in membership documents.
func (c Canonical) Raw() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Version: %d\n", c.Version)
	fmt.Fprintf(&b, "Currency: %s\n", c.Currency)
	fmt.Fprintf(&b, "Issuer: %s\n", c.Issuer)
	fmt.Fprintf(&b, "Date: %d\n", c.Date.Unix())
	if c.Type == TypeMembership {
		fmt.Fprintf(&b, "Membership: %s\n", c.Membership)
	}

	return b.String()
}

// Model builds documents for one currency.
type Model struct {
	Version  int
	Currency string

	// Now stamps document dates; defaults to time.Now.
	Now func() time.Time
}

// NewModel creates a version 1 model for currency.
func NewModel(currency string) *Model {
	return &Model{Version: 1, Currency: currency, Now: time.Now}
}

func (m *Model) document(issuer string, t DocumentType) Canonical {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	return Canonical{
		Version:  m.Version,
		Currency: m.Currency,
		Issuer:   issuer,
		Type:     t,
		Date:     now(),
	}
}

// Membership builds a membership document requesting state.
func (m *Model) Membership(issuer string, state MembershipState) Canonical {
	doc := m.document(issuer, TypeMembership)
	doc.Membership = state
	return doc
}

// Voting builds a voting key declaration.
func (m *Model) Voting(issuer string) Canonical {
	return m.document(issuer, TypeVoting)
}

package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModelRaw(t *testing.T) {
	m := NewModel("beta_brousouf")
	m.Now = func() time.Time { return time.Unix(1380000000, 0) }

	tests := []struct {
		name string
		doc  Canonical
		want string
	}{
		{
			name: "membership in",
			doc:  m.Membership(catFingerprint, MembershipIn),
			want: "Version: 1\nCurrency: beta_brousouf\nIssuer: " + catFingerprint + "\nDate: 1380000000\nMembership: IN\n",
		},
		{
			name: "membership out",
			doc:  m.Membership(catFingerprint, MembershipOut),
			want: "Version: 1\nCurrency: beta_brousouf\nIssuer: " + catFingerprint + "\nDate: 1380000000\nMembership: OUT\n",
		},
		{
			name: "voting",
			doc:  m.Voting(catFingerprint),
			want: "Version: 1\nCurrency: beta_brousouf\nIssuer: " + catFingerprint + "\nDate: 1380000000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Raw())
		})
	}
}

func TestModelDefaultsClock(t *testing.T) {
	m := &Model{Version: 1, Currency: "beta_brousouf"}

	before := time.Now().Unix()
	doc := m.Voting(catFingerprint)

	assert.Equal(t, TypeVoting, doc.Type)
	assert.GreaterOrEqual(t, doc.Date.Unix(), before)
}

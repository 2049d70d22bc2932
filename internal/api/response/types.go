package response

import (
	"github.com/CuteLittleSky/LimboAuth/internal/model"
)

// Record represents a credential record in API responses. The stored hash
// and TOTP secret are never exposed, only whether they are set.
type Record struct {
	Identifier    string `json:"identifier"`
	Nickname      string `json:"nickname"`
	IdentityKind  string `json:"identity_kind"`
	HasPassword   bool   `json:"has_password"`
	TotpEnabled   bool   `json:"totp_enabled"`
	IP            string `json:"ip,omitempty"`
	LoginIP       string `json:"login_ip,omitempty"`
	RegisteredAt  int64  `json:"registered_at,omitempty"`
	LastLoginAt   int64  `json:"last_login_at,omitempty"`
	TokenIssuedAt int64  `json:"token_issued_at,omitempty"`
}

// RecordFromModel converts a model.CredentialRecord to a response Record
func RecordFromModel(r *model.CredentialRecord) Record {
	return Record{
		Identifier:    r.Identifier,
		Nickname:      r.DisplayName(),
		IdentityKind:  string(r.IdentityKind),
		HasPassword:   r.HasPassword(),
		TotpEnabled:   r.TotpEnabled(),
		IP:            r.IP,
		LoginIP:       r.LoginIP,
		RegisteredAt:  r.RegisteredAt,
		LastLoginAt:   r.LastLoginAt,
		TokenIssuedAt: r.TokenIssuedAt,
	}
}

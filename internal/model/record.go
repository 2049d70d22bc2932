package model

import (
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// IdentityKind records how a credential record's identifier was last
// established. It drives reconciliation policy on later logins.
type IdentityKind string

const (
	// IdentityVerifiedJava means the identifier came from a completed
	// premium (online-mode) handshake
	IdentityVerifiedJava IdentityKind = "java_online"
	// IdentityUnverifiedJava means the identifier was derived for an
	// offline-mode login and carries no cryptographic weight
	IdentityUnverifiedJava IdentityKind = "java_offline"
	// IdentityBridged means the identifier was asserted by the bedrock
	// translation layer
	IdentityBridged IdentityKind = "bedrock"
)

// UnsetMillis is the sentinel returned for timestamps that were never set.
// Stored records decoded from older rows may carry a zero in place of a
// real epoch-millisecond value; accessors normalize that to UnsetMillis so
// callers never branch on zero-vs-missing.
const UnsetMillis int64 = math.MinInt64

// CredentialRecord is the persisted identity row for one known player.
// The identifier is the primary key and is immutable once chosen, except
// by deliberate reconciliation.
type CredentialRecord struct {
	Identifier        string       `json:"identifier"`
	Nickname          string       `json:"nickname"`
	LowercaseNickname string       `json:"lowercase_nickname"`
	Hash              string       `json:"hash"` // empty = no password set
	IdentityKind      IdentityKind `json:"identity_kind"`
	TotpToken         string       `json:"totp_token"` // empty = 2FA disabled
	IP                string       `json:"ip"`
	LoginIP           string       `json:"login_ip"`
	RegisteredAt      int64        `json:"registered_at"`   // epoch millis
	LastLoginAt       int64        `json:"last_login_at"`   // epoch millis
	TokenIssuedAt     int64        `json:"token_issued_at"` // epoch millis
}

// NewCredentialRecord creates a record for a freshly registered player.
func NewCredentialRecord(nickname, identifier, ip string, kind IdentityKind, now time.Time) *CredentialRecord {
	r := &CredentialRecord{
		Identifier:    identifier,
		IdentityKind:  kind,
		IP:            ip,
		LoginIP:       ip,
		RegisteredAt:  now.UnixMilli(),
		LastLoginAt:   now.UnixMilli(),
		TokenIssuedAt: now.UnixMilli(),
	}
	r.SetNickname(nickname)
	return r
}

// SetNickname updates the display name, keeping the lowercase lookup field
// in sync. The two fields must never be updated independently.
func (r *CredentialRecord) SetNickname(nickname string) *CredentialRecord {
	r.Nickname = nickname
	r.LowercaseNickname = strings.ToLower(nickname)
	return r
}

// DisplayName returns the case-preserving nickname, falling back to the
// lowercase form for records migrated without one.
func (r *CredentialRecord) DisplayName() string {
	if r.Nickname == "" {
		return r.LowercaseNickname
	}
	return r.Nickname
}

// SetPassword replaces the stored hash with a bcrypt hash of the raw
// password and stamps TokenIssuedAt, invalidating anything keyed to the
// previous issuance time.
func (r *CredentialRecord) SetPassword(rawPassword string, cost int, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), cost)
	if err != nil {
		return err
	}
	r.Hash = string(hash)
	r.TokenIssuedAt = now.UnixMilli()
	return nil
}

// SetHash stores a precomputed hash without hashing. An empty string is a
// valid input meaning "no password set". TokenIssuedAt is stamped exactly
// as SetPassword does.
func (r *CredentialRecord) SetHash(hash string, now time.Time) *CredentialRecord {
	r.Hash = hash
	r.TokenIssuedAt = now.UnixMilli()
	return r
}

// CheckPassword compares a raw password against the stored hash.
func (r *CredentialRecord) CheckPassword(rawPassword string) bool {
	if r.Hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(r.Hash), []byte(rawPassword)) == nil
}

// HasPassword reports whether a password is set for this record.
func (r *CredentialRecord) HasPassword() bool {
	return r.Hash != ""
}

// TotpEnabled reports whether a two-factor token is stored.
func (r *CredentialRecord) TotpEnabled() bool {
	return r.TotpToken != ""
}

// RegisteredAtMillis returns the registration time, or UnsetMillis if the
// record predates the field.
func (r *CredentialRecord) RegisteredAtMillis() int64 {
	return normalizeMillis(r.RegisteredAt)
}

// LastLoginAtMillis returns the last login time, or UnsetMillis.
func (r *CredentialRecord) LastLoginAtMillis() int64 {
	return normalizeMillis(r.LastLoginAt)
}

// TokenIssuedAtMillis returns the credential issuance time, or UnsetMillis.
func (r *CredentialRecord) TokenIssuedAtMillis() int64 {
	return normalizeMillis(r.TokenIssuedAt)
}

func normalizeMillis(v int64) int64 {
	if v == 0 {
		return UnsetMillis
	}
	return v
}

package model

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// Profile is the client-asserted identity delivered once the proxy has
// finished its login handshake. Reconciliation may rewrite Name and UUID
// before the session is established.
type Profile struct {
	Name       string
	UUID       uuid.UUID
	OnlineMode bool
	Bedrock    bool
}

// WithName returns a copy of the profile with the given name.
func (p Profile) WithName(name string) Profile {
	p.Name = name
	return p
}

// WithUUID returns a copy of the profile with the given UUID.
func (p Profile) WithUUID(id uuid.UUID) Profile {
	p.UUID = id
	return p
}

// OfflineUUID derives the offline-mode UUID for a username. This is the
// vanilla derivation (a version-3 UUID over "OfflinePlayer:"+name without
// a namespace), so the same name always yields the same UUID and stays
// compatible with identifiers minted by offline-mode servers.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, _ := uuid.FromBytes(sum[:])
	return id
}

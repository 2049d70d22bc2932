package bedrock

import "github.com/google/uuid"

// Oracle answers whether a UUID belongs to the bedrock translation layer's
// identity namespace rather than to a Java account.
type Oracle interface {
	IsBridgedIdentifier(id uuid.UUID) bool
}

// NamespaceOracle implements Oracle using the translation layer's UUID
// convention: bridged identifiers carry the player's XUID in the low 64
// bits and leave the high 64 bits zero, a shape no Java UUID (version 3
// or 4) can take.
type NamespaceOracle struct{}

// New creates a new NamespaceOracle
func New() *NamespaceOracle {
	return &NamespaceOracle{}
}

// IsBridgedIdentifier reports whether the UUID sits in the bridged namespace
func (o *NamespaceOracle) IsBridgedIdentifier(id uuid.UUID) bool {
	for _, b := range id[:8] {
		if b != 0 {
			return false
		}
	}
	return id != uuid.Nil
}

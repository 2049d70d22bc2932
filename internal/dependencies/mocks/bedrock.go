package mocks

import (
	"github.com/google/uuid"

	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/bedrock"
)

// MockOracle is a mock implementation of the bedrock Oracle for testing
type MockOracle struct {
	// Bridged is the set of UUIDs reported as bridged identifiers
	Bridged map[uuid.UUID]bool
}

// Ensure MockOracle implements Oracle
var _ bedrock.Oracle = (*MockOracle)(nil)

// NewMockOracle creates a MockOracle with no bridged identifiers
func NewMockOracle() *MockOracle {
	return &MockOracle{Bridged: make(map[uuid.UUID]bool)}
}

// Add marks a UUID as a bridged identifier
func (o *MockOracle) Add(id uuid.UUID) {
	o.Bridged[id] = true
}

// IsBridgedIdentifier reports whether the UUID was marked bridged
func (o *MockOracle) IsBridgedIdentifier(id uuid.UUID) bool {
	return o.Bridged[id]
}

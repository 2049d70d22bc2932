package bedrock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsBridgedIdentifier(t *testing.T) {
	oracle := New()

	assert.True(t, oracle.IsBridgedIdentifier(uuid.MustParse("00000000-0000-0000-0009-01f64f6ae2a3")))
	assert.False(t, oracle.IsBridgedIdentifier(uuid.Nil))
	assert.False(t, oracle.IsBridgedIdentifier(uuid.New()))
	assert.False(t, oracle.IsBridgedIdentifier(uuid.MustParse("b50ad385-829d-3141-a216-7e7d7539ba7f")))
}

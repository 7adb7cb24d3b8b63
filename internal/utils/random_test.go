package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		id, err := GenerateSessionID()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, SessionIDPrefix))
		assert.Len(t, id, len(SessionIDPrefix)+SessionIDRandomLength)
		for _, r := range strings.TrimPrefix(id, SessionIDPrefix) {
			assert.True(t, strings.ContainsRune(alphanumeric, r))
		}
		assert.False(t, seen[id])
		seen[id] = true
	}
}

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)
		assert.Len(t, code, codeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q in %s", c, code)
		}
		seen[code] = true
	}
	// 200 draws from a 36^6 space colliding down to a handful would mean the
	// generator is badly broken.
	assert.Greater(t, len(seen), 190)
}

package nanoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust(t *testing.T) {
	id := Must()
	assert.Len(t, id, defaultSize)
	assert.NotEqual(t, id, Must())

	assert.Len(t, Must(8), 8)
}

func TestString(t *testing.T) {
	id := String(32)
	assert.Len(t, id, 32)
	for _, r := range id {
		assert.Contains(t, numberLowerUpper, string(r))
	}
}

func TestAlpha(t *testing.T) {
	id := Alpha()
	for _, r := range id {
		assert.Contains(t, lowerUpper, string(r))
	}
}

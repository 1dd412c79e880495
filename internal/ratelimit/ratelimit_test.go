package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowRespectsBurst(t *testing.T) {
	kl := New(1, 2)

	passed := 0
	for range 5 {
		if kl.Allow("station-1") {
			passed++
		}
	}
	assert.Equal(t, 2, passed)
}

func TestKeysAreIndependent(t *testing.T) {
	kl := New(1, 1)

	assert.True(t, kl.Allow("station-1"))
	assert.False(t, kl.Allow("station-1"))

	// A drained bucket for one station never affects another.
	assert.True(t, kl.Allow("station-2"))
}

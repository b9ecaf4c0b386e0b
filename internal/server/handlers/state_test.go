package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateRegistry_SingleUse(t *testing.T) {
	r := newStateRegistry()

	r.Add("abc")
	assert.True(t, r.Consume("abc"), "fresh state should be redeemable")
	assert.False(t, r.Consume("abc"), "state must be single-use")
}

func TestStateRegistry_Unknown(t *testing.T) {
	r := newStateRegistry()
	assert.False(t, r.Consume("never-issued"))
}

func TestStateRegistry_Expired(t *testing.T) {
	r := newStateRegistry()

	issued := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return issued }
	r.Add("old")

	r.now = func() time.Time { return issued.Add(stateTTL + time.Second) }
	assert.False(t, r.Consume("old"), "expired state must not be redeemable")
}

func TestStateRegistry_SweepsExpiredOnAdd(t *testing.T) {
	r := newStateRegistry()

	issued := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return issued }
	r.Add("old")

	r.now = func() time.Time { return issued.Add(stateTTL + time.Second) }
	r.Add("fresh")

	r.mu.Lock()
	_, oldKept := r.states["old"]
	r.mu.Unlock()

	assert.False(t, oldKept, "expired states should be swept")
	assert.True(t, r.Consume("fresh"))
}

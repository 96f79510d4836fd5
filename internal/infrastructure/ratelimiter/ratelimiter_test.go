package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesBurst(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         3,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client-1"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("client-1"))
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         1,
	})

	require.True(t, rl.Allow("client-1"))
	require.False(t, rl.Allow("client-1"))

	assert.True(t, rl.Allow("client-2"))
}

func TestRemaining(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         5,
	})

	assert.Equal(t, 5, rl.Remaining("client-1"))

	require.True(t, rl.Allow("client-1"))
	assert.Equal(t, 4, rl.Remaining("client-1"))
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		SourceHeaderKey:  "X-Forwarded-For",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", rl.GetSourceKey(req))

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, bare.RemoteAddr, rl.GetSourceKey(bare))
}

func TestDefaults(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 7})

	assert.Equal(t, 7, rl.GetMaxBurst())
}

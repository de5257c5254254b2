package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("KM_STRING", "value")
	t.Setenv("KM_INT", "42")
	t.Setenv("KM_BAD_INT", "forty-two")
	t.Setenv("KM_BOOL", "false")
	t.Setenv("KM_DURATION", "1500ms")

	assert.Equal(t, "value", GetString("KM_STRING", "fallback"))
	assert.Equal(t, "fallback", GetString("KM_MISSING", "fallback"))
	assert.Equal(t, 42, GetInt("KM_INT", 7))
	assert.Equal(t, 7, GetInt("KM_BAD_INT", 7))
	assert.False(t, GetBool("KM_BOOL", true))
	assert.True(t, GetBool("KM_MISSING", true))
	assert.Equal(t, 1500*time.Millisecond, GetDuration("KM_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDuration("KM_MISSING", time.Second))
}

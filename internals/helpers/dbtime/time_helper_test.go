package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInJakarta(t *testing.T) {
	utc := time.Date(2026, 7, 7, 17, 30, 0, 0, time.UTC)
	got := InJakarta(utc)
	assert.Equal(t, 8, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.True(t, got.Equal(utc))

	assert.True(t, InJakarta(time.Time{}).IsZero())
	assert.Same(t, Jakarta(), Jakarta())
}

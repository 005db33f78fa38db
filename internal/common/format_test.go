package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "2,350", FormatNumber(2350))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-42,000", FormatNumber(-42000))
}

func TestFormatDust(t *testing.T) {
	assert.Equal(t, "150 dream dust", FormatDust(150))
	assert.Equal(t, "2,350 dream dust", FormatDust(2350))
}

func TestFormatDuration(t *testing.T) {
	t.Run("hours and minutes", func(t *testing.T) {
		assert.Equal(t, "2h 13m", FormatDuration(2*time.Hour+13*time.Minute+40*time.Second))
	})

	t.Run("minutes and seconds below an hour", func(t *testing.T) {
		assert.Equal(t, "4m 9s", FormatDuration(4*time.Minute+9*time.Second))
	})

	t.Run("seconds only", func(t *testing.T) {
		assert.Equal(t, "42s", FormatDuration(42*time.Second))
	})

	t.Run("zero minutes still shown next to hours", func(t *testing.T) {
		assert.Equal(t, "3h 0m", FormatDuration(3*time.Hour))
	})

	t.Run("negative clamps to zero", func(t *testing.T) {
		assert.Equal(t, "0s", FormatDuration(-time.Second))
	})
}

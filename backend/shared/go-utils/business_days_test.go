package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBusinessDay(t *testing.T) {
	// Saturday rolls to Monday.
	sat := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC), NextBusinessDay(sat))

	// Christmas 2025 is a Thursday.
	xmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsUSFedHoliday(xmas))
	assert.Equal(t, time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), NextBusinessDay(xmas))

	tue := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, tue, NextBusinessDay(tue))
	assert.True(t, IsBusinessDay(tue))
}

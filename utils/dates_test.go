package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	d, err := ParseDate("2026-03-11", kolkata)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), d)

	// 20:00 UTC is already the next day in Kolkata.
	d, err = ParseDate("2026-03-11T20:00:00Z", kolkata)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-12", FormatDate(d))

	_, err = ParseDate("11-03-2026", kolkata)
	assert.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	late := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), CalendarDate(late, kolkata))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), CalendarDate(late, time.UTC))
}

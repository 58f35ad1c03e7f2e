package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_DaysUntil(t *testing.T) {
	testCases := []struct {
		name     string
		from, to string
		expected int
	}{
		{name: "one night", from: "2024-06-01", to: "2024-06-02", expected: 1},
		{name: "same day", from: "2024-06-01", to: "2024-06-01", expected: 0},
		{name: "inverted", from: "2024-06-02", to: "2024-06-01", expected: -1},
		{name: "across month end", from: "2024-01-30", to: "2024-02-02", expected: 3},
		{name: "across leap day", from: "2024-02-28", to: "2024-03-01", expected: 2},
		// US spring-forward is 2024-03-10; civil dates are unaffected.
		{name: "across DST change", from: "2024-03-09", to: "2024-03-12", expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MustParseDate(tc.from).DaysUntil(MustParseDate(tc.to)))
		})
	}
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:30 in New York is already the next day in UTC.
	late := time.Date(2024, 11, 3, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-11-03", DateOf(late).String())
}

func TestDate_JSONAndScan(t *testing.T) {
	d := MustParseDate("2024-07-05")

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-05"`, string(b))

	var decoded Date
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, d.Equal(decoded))

	var scanned Date
	require.NoError(t, scanned.Scan("2024-07-05T00:00:00Z"))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.Scan(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, json.Unmarshal([]byte(`"07/05/2024"`), &decoded))
}

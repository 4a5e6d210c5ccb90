package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDueDate(t *testing.T) {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		current   time.Time
		frequency Frequency
		want      time.Time
	}{
		{
			name:      "weekly adds 7 days",
			current:   base,
			frequency: Weekly,
			want:      time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "biweekly adds 14 days",
			current:   base,
			frequency: Biweekly,
			want:      time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly adds one calendar month",
			current:   base,
			frequency: Monthly,
			want:      time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly adds one calendar year",
			current:   base,
			frequency: Yearly,
			want:      time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly from Jan 31 normalizes per AddDate",
			current:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			frequency: Monthly,
			want:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly from Feb 29 normalizes per AddDate",
			current:   time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC),
			frequency: Yearly,
			want:      time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.current, tt.frequency)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDueDate_StrictlyIncreasing(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, frequency := range []Frequency{Weekly, Biweekly, Monthly, Yearly} {
		first, err := NextDueDate(start, frequency)
		assert.NoError(t, err)
		assert.True(t, first.After(start), "%s: first step must be after start", frequency)

		second, err := NextDueDate(first, frequency)
		assert.NoError(t, err)
		assert.True(t, second.After(first), "%s: second step must be after first", frequency)
	}
}

func TestNextDueDate_UnknownFrequency(t *testing.T) {
	_, err := NextDueDate(time.Now(), "daily")
	assert.Error(t, err)
}

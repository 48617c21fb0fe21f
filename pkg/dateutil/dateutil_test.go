package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestAgeCalculation tests the age calculation function with various scenarios
func TestAgeCalculation(t *testing.T) {
	tests := []struct {
		name        string
		birthDate   time.Time
		atDate      time.Time
		expectedAge int
	}{
		{"Exact birthday", date(1995, 2, 25), date(2025, 2, 25), 30},
		{"Day before birthday", date(1995, 2, 25), date(2025, 2, 24), 29},
		{"Day after birthday", date(1995, 2, 25), date(2025, 2, 26), 30},
		{"Earlier month and day", date(2000, 2, 12), date(2025, 4, 15), 25},
		{"Later month", date(2000, 6, 12), date(2025, 4, 15), 24},
		{"Same day of birth", date(2024, 7, 1), date(2024, 7, 1), 0},
		{"Leap day birth before anniversary", date(2000, 2, 29), date(2021, 2, 28), 20},
		{"Leap day birth after anniversary", date(2000, 2, 29), date(2021, 3, 1), 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedAge, Age(tt.birthDate, tt.atDate))
		})
	}
}

func TestAgeChecked(t *testing.T) {
	age, err := AgeChecked(date(1988, 11, 17), date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 35, age)

	_, err = AgeChecked(date(2024, 1, 2), date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrBirthAfterDate)
}

func TestMonthAge(t *testing.T) {
	tests := []struct {
		name      string
		birthDate time.Time
		atDate    time.Time
		expected  int
	}{
		{"Same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"Day short of a month", date(2024, 1, 15), date(2024, 2, 14), 0},
		{"Full month", date(2024, 1, 15), date(2024, 2, 15), 1},
		{"Across year end", date(2023, 11, 20), date(2024, 3, 25), 4},
		{"Eleven months", date(2023, 5, 31), date(2024, 5, 1), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthAge(tt.birthDate, tt.atDate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := MonthAge(date(2024, 2, 1), date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrBirthAfterDate)
}

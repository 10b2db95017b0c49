package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyHours_ToDomain(t *testing.T) {
	schedule, err := WeeklyHours{
		"MONDAY": {Start: "09:00", End: "18:00"},
		"friday": {Start: "10:00", End: "14:00"},
		"sunday": nil,
	}.ToDomain()
	require.NoError(t, err)

	require.NotNil(t, schedule.For(time.Monday))
	assert.Equal(t, "18:00", schedule.For(time.Monday).End.String())
	assert.Equal(t, "10:00", schedule.For(time.Friday).Start.String())
	assert.Nil(t, schedule.For(time.Sunday))
}

func TestWeeklyHours_ToDomain_DuplicateWeekday(t *testing.T) {
	tests := map[string]WeeklyHours{
		"two windows":      {"Monday": {Start: "09:00", End: "18:00"}, "monday": {Start: "10:00", End: "12:00"}},
		"window and null":  {"monday": {Start: "09:00", End: "18:00"}, "MONDAY": nil},
		"both closed keys": {"Sunday": nil, "sunday": nil},
	}

	for name, hours := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := hours.ToDomain()
			assert.ErrorIs(t, err, ErrDuplicateWeekday)
		})
	}
}

package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, 29, d.Day())

	for _, s := range []string{"2023-02-29", "2024-13-01", "15-02-2024", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidMonth(t *testing.T) {
	m, ok := IsValidMonth("2024-02")
	require.True(t, ok)
	assert.Equal(t, 2, int(m.Month()))

	_, ok = IsValidMonth("2024-2-1")
	assert.False(t, ok)
}

func TestIsValidTimeOfDay(t *testing.T) {
	for _, s := range []string{"00:00", "08:15", "23:59"} {
		assert.True(t, IsValidTimeOfDay(s), s)
	}
	for _, s := range []string{"24:00", "8:15", "08:60", "0815", ""} {
		assert.False(t, IsValidTimeOfDay(s), s)
	}
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2024-01-15T10:30:00+07:00")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15T10:30:00.123Z")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15 10:30")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("start_date", "start_date is required")
	errs.Add("reason", "reason is required")

	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "start_date: start_date is required; reason: reason is required", err.Error())

	var target ValidationErrors
	require.True(t, errors.As(err, &target))
	assert.Equal(t, map[string]string{
		"start_date": "start_date is required",
		"reason":     "reason is required",
	}, target.ToMap())
}

func TestIsInSlice(t *testing.T) {
	assert.True(t, IsInSlice("PAID", []string{"PAID", "UNPAID"}))
	assert.False(t, IsInSlice("SICK", []string{"PAID", "UNPAID"}))
}

package shift

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("13:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 13, Minute: 30}, tod)
	assert.Equal(t, 810, tod.Minutes())
	assert.Equal(t, "13:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestTimeOfDayJSON(t *testing.T) {
	var payload struct {
		At TimeOfDay `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"08:05"}`), &payload))
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 5}, payload.At)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"08:05"}`, string(out))
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	day := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	got := MustTimeOfDay("08:00").On(day, loc)
	assert.Equal(t, time.Date(2024, 2, 15, 8, 0, 0, 0, loc), got)
}

func standardShift() WorkShift {
	return WorkShift{
		Name:           "Regular",
		Type:           ShiftTypeNormal,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MorningStart:   MustTimeOfDay("08:00"),
		MorningEnd:     MustTimeOfDay("12:00"),
		AfternoonStart: MustTimeOfDay("13:30"),
		AfternoonEnd:   MustTimeOfDay("17:30"),
	}
}

func TestWorkShift_Boundaries(t *testing.T) {
	s := standardShift()
	require.NoError(t, s.CheckBoundaries())
	assert.Equal(t, 240, s.MorningMinutes())
	assert.Equal(t, 240, s.AfternoonMinutes())

	s.AfternoonStart = MustTimeOfDay("11:00")
	assert.ErrorIs(t, s.CheckBoundaries(), ErrInvalidShiftBoundaries)
}

func TestWorkShift_Covers(t *testing.T) {
	s := standardShift()
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	s.EndDate = &end

	assert.False(t, s.Covers(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.Covers(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.Covers(end))
	assert.False(t, s.Covers(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreateShiftRequest_Validate(t *testing.T) {
	req := CreateShiftRequest{
		Name:           "Regular",
		StartDate:      "2024-01-01",
		MorningStart:   "08:00",
		MorningEnd:     "12:00",
		AfternoonStart: "13:30",
		AfternoonEnd:   "17:30",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, string(ShiftTypeNormal), req.Type)

	bad := req
	bad.Type = "SPLIT"
	bad.MorningEnd = "12"
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
	assert.Contains(t, err.Error(), "morning_end")
}

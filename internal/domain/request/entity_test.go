package request

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.Slug())
		require.NoError(t, err)
		assert.Equal(t, k, got)

		got, err = ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("sick-leave")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestConflictTableIsSymmetric(t *testing.T) {
	for _, a := range Kinds {
		for _, b := range ConflictingKinds(a) {
			assert.Contains(t, ConflictingKinds(b), a, "%s conflicts with %s but not the reverse", a, b)
		}
		assert.Contains(t, ConflictingKinds(a), a, "%s must conflict with itself", a)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	r := Request{
		Kind: KindDayOff,
		DayOff: &DayOff{
			Duration:  DurationMorning,
			LeaveType: leave.LeaveTypePaid,
			TotalDays: decimal.NewFromFloat(0.5),
		},
	}
	data, err := r.MarshalPayload()
	require.NoError(t, err)

	back := Request{Kind: KindDayOff}
	require.NoError(t, back.UnmarshalPayload(data))
	require.NotNil(t, back.DayOff)
	assert.Equal(t, DurationMorning, back.DayOff.Duration)
	assert.True(t, back.DayOff.TotalDays.Equal(decimal.NewFromFloat(0.5)))
}

func TestMarshalPayload_Missing(t *testing.T) {
	for _, k := range Kinds {
		data, err := Request{Kind: k}.MarshalPayload()
		assert.ErrorIs(t, err, ErrInvalidPayload, "%s", k)
		assert.Nil(t, data)
	}

	_, err := Request{Kind: "BOGUS"}.MarshalPayload()
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestUnmarshalPayload_RejectsNull(t *testing.T) {
	for _, data := range []string{"null", " null\n", ""} {
		r := Request{Kind: KindOvertime}
		err := r.UnmarshalPayload([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidPayload, "%q", data)
		assert.Nil(t, r.Overtime)
	}

	r := Request{Kind: "BOGUS"}
	assert.ErrorIs(t, r.UnmarshalPayload([]byte(`{}`)), ErrUnknownKind)
}

func TestRequestDates(t *testing.T) {
	r := Request{
		StartDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC),
	}
	assert.Len(t, r.Dates(), 3)
}

func TestCreateRequest_Validate(t *testing.T) {
	req := CreateRequest{UserID: "u1", Kind: KindDayOff, StartDate: "2024-02-16", EndDate: "2024-02-15", Title: "Trip"}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")

	req.EndDate = ""
	require.NoError(t, req.Validate())
	start, end := req.Range()
	assert.Equal(t, start, end)
}

func TestListRequest_ToFilter(t *testing.T) {
	lr := ListRequest{Kind: "day-off", Status: "PENDING", Limit: 500}
	f, err := lr.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, KindDayOff, *f.Kind)
	assert.Equal(t, StatusPending, *f.Status)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	_, err = (&ListRequest{Status: "DONE"}).ToFilter()
	assert.Error(t, err)
}

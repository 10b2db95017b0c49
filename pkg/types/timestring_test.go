package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "09:30", want: 570},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "no padding", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "seconds", input: "10:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("17:00")

	end, err := start.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "18:00", end.String())

	midnight, err := MustTimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, "24:00", midnight.String())

	_, err = MustTimeString("23:30").AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("10:00")))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("11:15"))
	assert.Equal(t, "11:15", ts.String())

	require.NoError(t, ts.Scan([]byte("08:05:00")))
	assert.Equal(t, "08:05", ts.String())

	require.NoError(t, ts.Scan(time.Date(2025, 3, 1, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, "14:45", ts.String())

	assert.Error(t, ts.Scan(nil))
	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.UnmarshalJSON([]byte(`"12:00"`)))

	data, err := ts.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"12:00"`, string(data))

	assert.Error(t, ts.UnmarshalJSON([]byte(`"noon"`)))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("16:20").OnDate(date)
	assert.Equal(t, time.Date(2025, 6, 2, 16, 20, 0, 0, time.UTC), got)
}

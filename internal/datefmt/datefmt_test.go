package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	at := time.Date(2024, 3, 15, 14, 30, 25, 0, time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		layout string
		want   string
	}{
		{"date time", at, DateTime, "2024-03-15 14:30"},
		{"date", at, Date, "2024-03-15"},
		{"time", at, Time, "14:30"},
		{"with seconds", at, DateTimeWithSeconds, "2024-03-15 14:30:25"},
		{"pads single digits", time.Date(2024, 1, 5, 9, 5, 0, 0, time.UTC), DateTime, "2024-01-05 09:05"},
		{"custom layout", at, "yyyy/MM/dd HH:mm:ss", "2024/03/15 14:30:25"},
		{"unknown tokens unchanged", at, "yyyy-MM-dd at XXX", "2024-03-15 at XXX"},
		{"zero time", time.Time{}, DateTime, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.t, tt.layout))
		})
	}
}

func TestFormat_UsesTimeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-03-16 01:30", Format(at, DateTime))
}

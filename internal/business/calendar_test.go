package business

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForWeekday(t *testing.T) {
	hours := Hours{
		Monday:   &DayHours{Open: "09:00", Close: "18:00"},
		Saturday: &DayHours{Open: "10:00", Close: "16:00"},
	}

	monday := hours.ForWeekday(time.Monday)
	require.NotNil(t, monday)
	assert.Equal(t, "09:00", monday.Open)
	assert.Equal(t, "18:00", monday.Close)

	assert.Nil(t, hours.ForWeekday(time.Sunday), "Sunday is closed")

	var nilHours *Hours
	assert.Nil(t, nilHours.ForWeekday(time.Monday), "nil hours report closed")
}

func TestDefaultCalendar(t *testing.T) {
	cal := DefaultCalendar("biz_1")
	assert.Equal(t, "biz_1", cal.BusinessID)
	assert.Equal(t, "America/New_York", cal.Timezone)
	assert.Nil(t, cal.Hours.Sunday, "default calendar is closed Sunday")
	assert.NotNil(t, cal.Hours.Saturday)

	_, err := cal.Location()
	require.NoError(t, err)
}

func TestLocationInvalidTimezone(t *testing.T) {
	cal := &Calendar{Timezone: "Mars/Olympus_Mons"}
	_, err := cal.Location()
	assert.Error(t, err)
}

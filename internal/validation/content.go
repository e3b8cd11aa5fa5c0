package validation

import (
	"fmt"
	"strings"
	"time"

	"pulsepost/internal/models"
)

var validTones = map[string]struct{}{
	models.ToneProfessional: {},
	models.ToneCasual:       {},
	models.ToneHumorous:     {},
	models.ToneInspiring:    {},
}

var validLengths = map[string]struct{}{
	models.LengthShort:  {},
	models.LengthMedium: {},
	models.LengthLong:   {},
}

var validFrequencies = map[string]struct{}{
	models.FrequencyDaily:      {},
	models.FrequencyTwiceDaily: {},
	models.FrequencyWeekly:     {},
}

// ValidateStyle checks content style fields before they are persisted.
func ValidateStyle(style *models.ContentStyle) error {
	topic := strings.TrimSpace(style.Topic)
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	if len(topic) > 200 {
		return fmt.Errorf("topic must not exceed 200 characters")
	}

	if _, ok := validTones[style.Tone]; !ok {
		return fmt.Errorf("tone must be one of: professional, casual, humorous, inspiring")
	}

	if _, ok := validLengths[style.Length]; !ok {
		return fmt.Errorf("length must be one of: short, medium, long")
	}

	return nil
}

// ValidateSchedule checks schedule fields, including HH:MM time format and
// that the timezone is a valid IANA name.
func ValidateSchedule(schedule *models.Schedule) error {
	if _, ok := validFrequencies[schedule.Frequency]; !ok {
		return fmt.Errorf("frequency must be one of: daily, twice_daily, weekly")
	}

	if _, err := time.Parse("15:04", schedule.TimeOfDay); err != nil {
		return fmt.Errorf("time_of_day must be in HH:MM format")
	}

	if schedule.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(schedule.Timezone); err != nil {
		return fmt.Errorf("timezone must be a valid IANA timezone name")
	}

	return nil
}

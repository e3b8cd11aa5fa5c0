package validation

import (
	"testing"

	"pulsepost/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		style   models.ContentStyle
		wantErr bool
	}{
		{
			name:    "valid style",
			style:   models.ContentStyle{Topic: "golang tips", Tone: models.ToneCasual, Length: models.LengthShort},
			wantErr: false,
		},
		{
			name:    "empty topic",
			style:   models.ContentStyle{Topic: "   ", Tone: models.ToneProfessional, Length: models.LengthMedium},
			wantErr: true,
		},
		{
			name:    "unknown tone",
			style:   models.ContentStyle{Topic: "golang", Tone: "sarcastic", Length: models.LengthMedium},
			wantErr: true,
		},
		{
			name:    "unknown length",
			style:   models.ContentStyle{Topic: "golang", Tone: models.ToneProfessional, Length: "gigantic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStyle(&tt.style)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule models.Schedule
		wantErr  bool
	}{
		{
			name:     "valid schedule",
			schedule: models.Schedule{Frequency: models.FrequencyDaily, TimeOfDay: "09:30", Timezone: "America/New_York"},
			wantErr:  false,
		},
		{
			name:     "bad frequency",
			schedule: models.Schedule{Frequency: "hourly", TimeOfDay: "09:30", Timezone: "UTC"},
			wantErr:  true,
		},
		{
			name:     "bad time format",
			schedule: models.Schedule{Frequency: models.FrequencyDaily, TimeOfDay: "9:30am", Timezone: "UTC"},
			wantErr:  true,
		},
		{
			name:     "bad timezone",
			schedule: models.Schedule{Frequency: models.FrequencyDaily, TimeOfDay: "09:30", Timezone: "Mars/Olympus"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSchedule(&tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

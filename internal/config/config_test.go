package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("CLINIC_AUTH_JWT_SECRET", "0123456789abcdef-secret")
	t.Setenv("CLINIC_SCHEDULE_CLINIC_CLOSE", "20:30")
	t.Setenv("CLINIC_SERVER_PORT", "8088")

	cfg, err := Load("")

	assert.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "08:00", cfg.Schedule.ClinicOpen)
	assert.Equal(t, "20:30", cfg.Schedule.ClinicClose)
	assert.Equal(t, 3.0, cfg.Schedule.MinDurationHours)
	assert.Equal(t, 3, cfg.Schedule.IDMaxAttempts)
	assert.Equal(t, 366, cfg.Schedule.MaxTimeOffDays)
	assert.Equal(t, 3*time.Second, cfg.Kafka.OutboxPollInterval)
	assert.Equal(t, "clinic.schedule.notifications.v1", cfg.Kafka.NotificationTopic)
	assert.Equal(t, 10, cfg.Kafka.OutboxMaxRetries)
	assert.Equal(t, 7*24*time.Hour, cfg.Kafka.OutboxRetention)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("CLINIC_AUTH_JWT_SECRET", "short")

	_, err := Load("")

	assert.Error(t, err)
}

func TestScheduleConfig_Validate(t *testing.T) {
	valid := ScheduleConfig{
		ClinicOpen:       "08:00",
		ClinicClose:      "21:00",
		NightShiftStart:  "18:00",
		BreakStart:       "12:00",
		BreakEnd:         "13:00",
		MinDurationHours: 3,
		MaxDurationHours: 8,
		IDMaxAttempts:    3,
	}
	assert.NoError(t, valid.Validate())

	badTime := valid
	badTime.BreakEnd = "1pm"
	assert.Error(t, badTime.Validate())

	badBounds := valid
	badBounds.MaxDurationHours = 2
	assert.Error(t, badBounds.Validate())

	badSpan := valid
	badSpan.MaxTimeOffDays = -1
	assert.Error(t, badSpan.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, Name: "pdcms", User: "u", Password: "p", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@db:5432/pdcms?sslmode=disable", c.DSN())
}

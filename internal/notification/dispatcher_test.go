package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeemock "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func TestDispatcher_Dispatch(t *testing.T) {
	event := events.ScheduleEvent{
		EventType:   events.RegistrationCreated,
		AggregateID: "REG000001",
		EmployeeID:  "emp-1",
		WorkShiftID: "WKS_MORNING_01",
		StartDate:   "2025-03-03",
		EndDate:     "2025-06-30",
	}

	tests := []struct {
		name       string
		setup      func(d *employeemock.MockDirectory)
		mailErr    error
		wantErr    error
		wantMailed bool
	}{
		{
			name: "sends to employee email",
			setup: func(d *employeemock.MockDirectory) {
				d.EXPECT().FindByID(gomock.Any(), "emp-1").
					Return(&employee.Employee{FullName: "Lan Nguyen", Email: "lan@clinic.vn"}, nil)
			},
			wantMailed: true,
		},
		{
			name: "missing employee is undeliverable",
			setup: func(d *employeemock.MockDirectory) {
				d.EXPECT().FindByID(gomock.Any(), "emp-1").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: notification.ErrUndeliverable,
		},
		{
			name: "employee without email is undeliverable",
			setup: func(d *employeemock.MockDirectory) {
				d.EXPECT().FindByID(gomock.Any(), "emp-1").
					Return(&employee.Employee{FullName: "Lan Nguyen"}, nil)
			},
			wantErr: notification.ErrUndeliverable,
		},
		{
			name: "mailer failure is returned",
			setup: func(d *employeemock.MockDirectory) {
				d.EXPECT().FindByID(gomock.Any(), "emp-1").
					Return(&employee.Employee{FullName: "Lan Nguyen", Email: "lan@clinic.vn"}, nil)
			},
			mailErr:    notification.ErrMailerUnavailable,
			wantErr:    notification.ErrMailerUnavailable,
			wantMailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dir := employeemock.NewMockDirectory(ctrl)
			tt.setup(dir)
			mailer := &recordingMailer{err: tt.mailErr}

			err := notification.NewDispatcher(dir, mailer, zap.NewNop()).Dispatch(context.Background(), event)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantMailed {
				assert.Equal(t, "lan@clinic.vn", mailer.to)
				assert.Equal(t, "New shift registration", mailer.subject)
				assert.Contains(t, mailer.body, "Hello Lan Nguyen")
				assert.Contains(t, mailer.body, "Dates: 2025-03-03 to 2025-06-30")
				assert.Contains(t, mailer.body, "WKS_MORNING_01")
			} else {
				assert.Empty(t, mailer.to)
			}
		})
	}
}

func TestDispatcher_EventWithoutEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := employeemock.NewMockDirectory(ctrl)

	err := notification.NewDispatcher(dir, &recordingMailer{}, zap.NewNop()).
		Dispatch(context.Background(), events.ScheduleEvent{EventType: events.OvertimeRequested})

	assert.ErrorIs(t, err, notification.ErrUndeliverable)
}

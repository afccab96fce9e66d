package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"

	"go.uber.org/zap"
)

// ErrUndeliverable marks events that can never be delivered; the consumer
// commits them instead of retrying.
var ErrUndeliverable = errors.New("notification undeliverable")

// Dispatcher turns a schedule event into an email to the affected employee.
type Dispatcher struct {
	employees employee.Directory
	mailer    Mailer
	logger    *zap.Logger
}

func NewDispatcher(employees employee.Directory, mailer Mailer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		employees: employees,
		mailer:    mailer,
		logger:    logger.Named("notification.dispatcher"),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event events.ScheduleEvent) error {
	if event.EmployeeID == "" {
		return fmt.Errorf("%w: event %s has no employee_id", ErrUndeliverable, event.AggregateID)
	}

	empl, err := d.employees.FindByID(ctx, event.EmployeeID)
	if err != nil {
		err = employee.MapLookupError(err)
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) || errors.Is(err, employeeerrors.ErrInvalidEmployeeID) {
			return fmt.Errorf("%w: employee %s: %v", ErrUndeliverable, event.EmployeeID, err)
		}
		return err
	}
	if strings.TrimSpace(empl.Email) == "" {
		return fmt.Errorf("%w: employee %s has no email", ErrUndeliverable, event.EmployeeID)
	}

	subject, body := render(event, empl.FullName)
	if err := d.mailer.Send(ctx, empl.Email, subject, body); err != nil {
		return err
	}

	d.logger.Info("schedule notification emailed",
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("employee_id", event.EmployeeID),
	)
	return nil
}

func render(event events.ScheduleEvent, name string) (string, string) {
	var subject string
	switch event.EventType {
	case events.RegistrationCreated:
		subject = "New shift registration"
	case events.TimeOffRequested:
		subject = "Time-off request submitted"
	case events.OvertimeRequested:
		subject = "Overtime request submitted"
	default:
		subject = "Schedule update"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	if event.Summary != "" {
		fmt.Fprintf(&b, "%s.\n", event.Summary)
	}
	if event.WorkShiftID != "" {
		fmt.Fprintf(&b, "Shift: %s\n", event.WorkShiftID)
	}
	switch {
	case event.StartDate != "" && event.EndDate != "" && event.StartDate != event.EndDate:
		fmt.Fprintf(&b, "Dates: %s to %s\n", event.StartDate, event.EndDate)
	case event.StartDate != "":
		fmt.Fprintf(&b, "Date: %s\n", event.StartDate)
	}
	fmt.Fprintf(&b, "Reference: %s\n", event.AggregateID)
	return subject, b.String()
}

package registration_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	employeeMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	notificationMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/notification/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/registration"
	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"
	registrationMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	counterMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/counter/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/optional"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"
	workshiftMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   registration.Service
	repo      *registrationMock.MockRepository
	employees *employeeMock.MockDirectory
	shifts    *workshiftMock.MockRepository
	counter   *counterMock.MockRepository
	notifier  *notificationMock.MockNotifier
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      registrationMock.NewMockRepository(ctrl),
		employees: employeeMock.NewMockDirectory(ctrl),
		shifts:    workshiftMock.NewMockRepository(ctrl),
		counter:   counterMock.NewMockRepository(ctrl),
		notifier:  notificationMock.NewMockNotifier(ctrl),
	}
	deps.service = registration.NewService(db, deps.repo, deps.employees, deps.shifts, deps.counter, deps.notifier)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *serviceDeps) expectEmployee(id uuid.UUID, empType employee.EmploymentType) {
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees)
	d.employees.EXPECT().
		LockByID(gomock.Any(), id.String()).
		Return(&employee.Employee{ID: id, EmploymentType: empType, IsActive: true}, nil)
}

func (d *serviceDeps) expectActiveShift(id string) {
	d.shifts.EXPECT().WithTx(gomock.Any()).Return(d.shifts)
	d.shifts.EXPECT().
		FindByID(gomock.Any(), id).
		Return(&workshift.WorkShift{ID: id, IsActive: true}, nil)
}

func mustDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func existingReg(id string, emp uuid.UUID, slot, from string, to *time.Time, days ...registration.Weekday) registration.Registration {
	r := registration.Registration{
		ID:            id,
		EmployeeID:    emp,
		WorkShiftID:   slot,
		EffectiveFrom: mustDate(from),
		EffectiveTo:   to,
		IsActive:      true,
	}
	for _, d := range days {
		r.Days = append(r.Days, registration.RegistrationDay{RegistrationID: id, DayOfWeek: d})
	}
	return r
}

func TestRegistrationService_Create(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("success - persists registration and days then notifies", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.expectEmployee(emp, employee.EmploymentFullTime)
		deps.expectActiveShift("WKS_MORNING_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindActiveByEmployee(ctx, emp.String()).Return(nil, nil)
		deps.counter.EXPECT().GetNextValue(ctx, "registration").Return(int64(7), nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *registration.Registration) error {
				assert.Equal(t, "REG000007", r.ID)
				assert.True(t, r.IsActive)
				assert.Nil(t, r.EffectiveTo)
				return nil
			})
		deps.repo.EXPECT().
			ReplaceDays(ctx, "REG000007", []registration.Weekday{registration.Monday, registration.Wednesday}).
			Return(nil)
		deps.notifier.EXPECT().
			Notify(ctx, gomock.Any()).
			Do(func(ctx context.Context, e events.ScheduleEvent) {
				assert.Equal(t, events.RegistrationCreated, e.EventType)
				assert.Equal(t, "REG000007", e.AggregateID)
				assert.Equal(t, emp.String(), e.EmployeeID)
			})

		resp, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-01-01",
			Days:          []string{"WED", "monday"},
		})

		require.NoError(t, err)
		assert.Equal(t, "REG000007", resp.RegistrationID)
		assert.Equal(t, []string{"MONDAY", "WEDNESDAY"}, resp.DaysOfWeek)
		assert.Nil(t, resp.EffectiveTo)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failed - overlapping weekday on unbounded ranges", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emp, employee.EmploymentFullTime)
		deps.expectActiveShift("WKS_AFTERNOON_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindActiveByEmployee(ctx, emp.String()).
			Return([]registration.Registration{
				existingReg("REG000001", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday, registration.Wednesday),
			}, nil)

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_AFTERNOON_01",
			EffectiveFrom: "2025-02-01",
			Days:          []string{"WEDNESDAY", "FRIDAY"},
		})

		require.ErrorIs(t, err, registrationerrors.ErrRegistrationConflict)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		details := appErr.Details.(map[string]any)
		assert.Equal(t, "REG000001", details["registration_id"])
		assert.Equal(t, "WKS_MORNING_01", details["slot_id"])
		assert.Equal(t, []string{"WEDNESDAY"}, details["days"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failed - uppercase employee id still finds the overlap", func(t *testing.T) {
		deps := setupServiceTest(t)
		upper := strings.ToUpper(emp.String())

		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().
			LockByID(gomock.Any(), upper).
			Return(&employee.Employee{ID: emp, EmploymentType: employee.EmploymentFullTime, IsActive: true}, nil)
		deps.expectActiveShift("WKS_AFTERNOON_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindActiveByEmployee(ctx, emp.String()).
			Return([]registration.Registration{
				existingReg("REG000001", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday),
			}, nil)

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    upper,
			SlotID:        "WKS_AFTERNOON_01",
			EffectiveFrom: "2025-02-01",
			Days:          []string{"MONDAY"},
		})

		assert.ErrorIs(t, err, registrationerrors.ErrRegistrationConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - disjoint ranges on the same weekday", func(t *testing.T) {
		deps := setupServiceTest(t)

		jan31 := mustDate("2025-01-31")
		expectTx(t, deps.sqlMock, true)
		deps.expectEmployee(emp, employee.EmploymentPartTimeFixed)
		deps.expectActiveShift("WKS_MORNING_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindActiveByEmployee(ctx, emp.String()).
			Return([]registration.Registration{
				existingReg("REG000001", emp, "WKS_MORNING_01", "2025-01-01", &jan31, registration.Monday),
			}, nil)
		deps.counter.EXPECT().GetNextValue(ctx, "registration").Return(int64(2), nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().ReplaceDays(ctx, "REG000002", gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, gomock.Any())

		resp, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-02-01",
			Days:          []string{"MONDAY"},
		})

		require.NoError(t, err)
		assert.Equal(t, "REG000002", resp.RegistrationID)
	})

	t.Run("failed - flexible part-time uses daily assignment", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emp, employee.EmploymentPartTimeFlex)

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-01-01",
			Days:          []string{"MONDAY"},
		})

		assert.ErrorIs(t, err, registrationerrors.ErrNotFullTimeEmployee)
	})

	t.Run("failed - unknown employment type", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emp, employee.EmploymentType("CONTRACTOR"))

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-01-01",
			Days:          []string{"MONDAY"},
		})

		assert.ErrorIs(t, err, registrationerrors.ErrInvalidEmployeeType)
	})

	t.Run("failed - inactive employee", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().
			LockByID(gomock.Any(), emp.String()).
			Return(&employee.Employee{ID: emp, EmploymentType: employee.EmploymentFullTime}, nil)

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-01-01",
			Days:          []string{"MONDAY"},
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("failed - inactive shift", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emp, employee.EmploymentFullTime)
		deps.shifts.EXPECT().WithTx(gomock.Any()).Return(deps.shifts)
		deps.shifts.EXPECT().
			FindByID(gomock.Any(), "WKS_NIGHT_01").
			Return(&workshift.WorkShift{ID: "WKS_NIGHT_01"}, nil)

		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_NIGHT_01",
			EffectiveFrom: "2025-01-01",
			Days:          []string{"MONDAY"},
		})

		assert.ErrorIs(t, err, workshifterrors.ErrWorkShiftNotFound)
	})

	t.Run("rejected before any database work", func(t *testing.T) {
		cases := map[string]registration.CreateRegistrationRequest{
			"empty days":     {EmployeeID: emp.String(), SlotID: "WKS_MORNING_01", EffectiveFrom: "2025-01-01"},
			"duplicate days": {EmployeeID: emp.String(), SlotID: "WKS_MORNING_01", EffectiveFrom: "2025-01-01", Days: []string{"MON", "monday"}},
			"unknown day":    {EmployeeID: emp.String(), SlotID: "WKS_MORNING_01", EffectiveFrom: "2025-01-01", Days: []string{"FUNDAY"}},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				deps := setupServiceTest(t)

				_, err := deps.service.Create(ctx, req)

				assert.ErrorIs(t, err, registrationerrors.ErrInvalidDays)
				assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			})
		}

		deps := setupServiceTest(t)
		to := "2024-12-31"
		_, err := deps.service.Create(ctx, registration.CreateRegistrationRequest{
			EmployeeID:    emp.String(),
			SlotID:        "WKS_MORNING_01",
			EffectiveFrom: "2025-01-01",
			EffectiveTo:   &to,
			Days:          []string{"MONDAY"},
		})
		assert.ErrorIs(t, err, registrationerrors.ErrInvalidDateRange)
	})
}

func TestRegistrationService_Update(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("success - clears end date and replaces days", func(t *testing.T) {
		deps := setupServiceTest(t)

		jan31 := mustDate("2025-01-31")
		current := existingReg("REG000003", emp, "WKS_MORNING_01", "2025-01-01", &jan31, registration.Monday)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG000003").Return(&current, nil)
		deps.expectEmployee(emp, employee.EmploymentFullTime)
		deps.expectActiveShift("WKS_MORNING_01")
		deps.repo.EXPECT().
			FindActiveByEmployee(ctx, emp.String()).
			Return([]registration.Registration{current}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *registration.Registration) error {
				assert.Nil(t, r.EffectiveTo)
				return nil
			})
		deps.repo.EXPECT().
			ReplaceDays(ctx, "REG000003", []registration.Weekday{registration.Tuesday, registration.Thursday}).
			Return(nil)

		resp, err := deps.service.Update(ctx, "REG000003", registration.UpdateRegistrationRequest{
			EffectiveTo: optional.Null[string](),
			Days:        optional.Of([]string{"THU", "TUE"}),
		})

		require.NoError(t, err)
		assert.Nil(t, resp.EffectiveTo)
		assert.Equal(t, []string{"TUESDAY", "THURSDAY"}, resp.DaysOfWeek)
	})

	t.Run("failed - conflict with another registration", func(t *testing.T) {
		deps := setupServiceTest(t)

		current := existingReg("REG000003", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)
		other := existingReg("REG000004", emp, "WKS_AFTERNOON_01", "2025-01-01", nil, registration.Friday)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG000003").Return(&current, nil)
		deps.expectEmployee(emp, employee.EmploymentFullTime)
		deps.expectActiveShift("WKS_MORNING_01")
		deps.repo.EXPECT().
			FindActiveByEmployee(ctx, emp.String()).
			Return([]registration.Registration{current, other}, nil)

		_, err := deps.service.Update(ctx, "REG000003", registration.UpdateRegistrationRequest{
			Days: optional.Of([]string{"MONDAY", "FRIDAY"}),
		})

		assert.ErrorIs(t, err, registrationerrors.ErrRegistrationConflict)
	})

	t.Run("failed - inactive registration", func(t *testing.T) {
		deps := setupServiceTest(t)

		current := existingReg("REG000003", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)
		current.IsActive = false

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG000003").Return(&current, nil)

		_, err := deps.service.Update(ctx, "REG000003", registration.UpdateRegistrationRequest{})

		assert.ErrorIs(t, err, registrationerrors.ErrRegistrationNotFound)
	})
}

func TestRegistrationService_Deactivate(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		current := existingReg("REG000005", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG000005").Return(&current, nil)
		deps.repo.EXPECT().SetActive(ctx, "REG000005", false).Return(nil)

		assert.NoError(t, deps.service.Deactivate(ctx, "REG000005"))
	})

	t.Run("already inactive is a no-op", func(t *testing.T) {
		deps := setupServiceTest(t)

		current := existingReg("REG000005", emp, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)
		current.IsActive = false
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG000005").Return(&current, nil)

		assert.NoError(t, deps.service.Deactivate(ctx, "REG000005"))
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, "REG999999").Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, deps.service.Deactivate(ctx, "REG999999"), registrationerrors.ErrRegistrationNotFound)
	})
}

func TestRegistrationService_ReadScope(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	other := uuid.New()

	t.Run("read own lists only the actor", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().
			FindAll(ctx, actor.String()).
			Return([]registration.Registration{existingReg("REG000001", actor, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)}, nil)

		resp, err := deps.service.GetAll(ctx, actor.String(), false)

		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("read all lists everyone", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().FindAll(ctx, "").Return(nil, nil)

		_, err := deps.service.GetAll(ctx, actor.String(), true)

		assert.NoError(t, err)
	})

	t.Run("listing another employee without read all is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.ListForEmployee(ctx, actor.String(), other.String(), false)

		assert.ErrorIs(t, err, registrationerrors.ErrRegistrationForbidden)
	})

	t.Run("get another employee's registration without read all is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)

		r := existingReg("REG000009", other, "WKS_MORNING_01", "2025-01-01", nil, registration.Monday)
		deps.repo.EXPECT().FindByID(ctx, "REG000009").Return(&r, nil)

		_, err := deps.service.GetByID(ctx, actor.String(), false, "REG000009")

		assert.ErrorIs(t, err, registrationerrors.ErrRegistrationForbidden)
	})
}

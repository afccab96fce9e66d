package overtime_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift"
	employeeshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift/errors"
	employeeshiftMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	notificationMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/notification/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime"
	overtimeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime/errors"
	overtimeMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime/mock"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"
	workshiftMock "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   overtime.Service
	repo      *overtimeMock.MockRepository
	employees *employeeMock.MockDirectory
	shifts    *workshiftMock.MockRepository
	schedule  *employeeshiftMock.MockLookup
	dated     *employeeshiftMock.MockRepository
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
		repo:      overtimeMock.NewMockRepository(ctrl),
		employees: employeeMock.NewMockDirectory(ctrl),
		shifts:    workshiftMock.NewMockRepository(ctrl),
		schedule:  employeeshiftMock.NewMockLookup(ctrl),
		dated:     employeeshiftMock.NewMockRepository(ctrl),
		notifier:  notificationMock.NewMockNotifier(ctrl),
	}
	deps.service = overtime.NewService(
		db, deps.repo, deps.employees, deps.shifts, deps.schedule, deps.dated, deps.notifier,
		overtime.Options{Now: func() time.Time { return fixedNow }},
	)
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

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// expectEligible covers the employee lock and the active slot.
func (d *serviceDeps) expectEligible(emp uuid.UUID, slot string) {
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees)
	d.employees.EXPECT().
		LockByID(gomock.Any(), emp.String()).
		Return(&employee.Employee{ID: emp, EmploymentType: employee.EmploymentFullTime, IsActive: true}, nil)
	d.shifts.EXPECT().WithTx(gomock.Any()).Return(d.shifts)
	d.shifts.EXPECT().FindByID(gomock.Any(), slot).Return(&workshift.WorkShift{ID: slot, IsActive: true}, nil)
}

func (d *serviceDeps) expectSchedule(emp uuid.UUID, date, slot string, scheduled bool) {
	d.schedule.EXPECT().WithTx(gomock.Any()).Return(d.schedule)
	d.schedule.EXPECT().HasShiftOn(gomock.Any(), emp.String(), day(date), slot).Return(scheduled, nil)
}

func TestOvertimeService_Create(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()
	req := overtime.CreateOvertimeRequest{WorkDate: "2025-03-08", SlotID: "WKS_NIGHT_01", Reason: "patient backlog"}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), day("2025-03-08"), "WKS_NIGHT_01").Return(false, nil)
		deps.expectSchedule(emp, "2025-03-08", "WKS_NIGHT_01", false)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().
			Notify(ctx, gomock.Any()).
			Do(func(ctx context.Context, e events.ScheduleEvent) {
				assert.Equal(t, events.OvertimeRequested, e.EventType)
				assert.Equal(t, "2025-03-08", e.StartDate)
			})

		resp, err := deps.service.Create(ctx, emp.String(), false, req)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "WKS_NIGHT_01", resp.SlotID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate while pending, accepted again after rejection", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), day("2025-03-08"), "WKS_NIGHT_01").Return(true, nil)

		_, err := deps.service.Create(ctx, emp.String(), false, req)
		assert.ErrorIs(t, err, overtimeerrors.ErrDuplicateOvertimeRequest)

		expectTx(t, deps.sqlMock, true)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), day("2025-03-08"), "WKS_NIGHT_01").Return(false, nil)
		deps.expectSchedule(emp, "2025-03-08", "WKS_NIGHT_01", false)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Notify(ctx, gomock.Any())

		_, err = deps.service.Create(ctx, emp.String(), false, req)
		require.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unique index violation maps to duplicate", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), gomock.Any(), "WKS_NIGHT_01").Return(false, nil)
		deps.expectSchedule(emp, "2025-03-08", "WKS_NIGHT_01", false)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_overtime_active"})

		_, err := deps.service.Create(ctx, emp.String(), false, req)

		assert.ErrorIs(t, err, overtimeerrors.ErrDuplicateOvertimeRequest)
	})

	t.Run("already scheduled for that shift", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), day("2025-03-08"), "WKS_NIGHT_01").Return(false, nil)
		deps.expectSchedule(emp, "2025-03-08", "WKS_NIGHT_01", true)

		_, err := deps.service.Create(ctx, emp.String(), false, req)

		assert.ErrorIs(t, err, employeeshifterrors.ErrAlreadyScheduled)
	})

	t.Run("duplicate of an approved request wins over its overtime shift", func(t *testing.T) {
		deps := setupServiceTest(t)

		// The approved request already materialized a SCHEDULED shift, so the
		// schedule lookup would answer true; the duplicate check must run first.
		expectTx(t, deps.sqlMock, false)
		deps.expectEligible(emp, "WKS_NIGHT_01")
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ExistsOpen(ctx, emp.String(), day("2025-03-08"), "WKS_NIGHT_01").Return(true, nil)
		deps.schedule.EXPECT().HasShiftOn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
		deps.schedule.EXPECT().WithTx(gomock.Any()).Return(deps.schedule).AnyTimes()

		_, err := deps.service.Create(ctx, emp.String(), false, req)

		assert.ErrorIs(t, err, overtimeerrors.ErrDuplicateOvertimeRequest)
		assert.NotErrorIs(t, err, employeeshifterrors.ErrAlreadyScheduled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("inactive shift", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().LockByID(gomock.Any(), emp.String()).Return(&employee.Employee{ID: emp, IsActive: true}, nil)
		deps.shifts.EXPECT().WithTx(gomock.Any()).Return(deps.shifts)
		deps.shifts.EXPECT().FindByID(gomock.Any(), "WKS_NIGHT_01").Return(&workshift.WorkShift{ID: "WKS_NIGHT_01"}, nil)

		_, err := deps.service.Create(ctx, emp.String(), false, req)

		assert.ErrorIs(t, err, workshifterrors.ErrWorkShiftNotFound)
	})

	t.Run("past date never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, emp.String(), false, overtime.CreateOvertimeRequest{WorkDate: "2025-03-02", SlotID: "WKS_NIGHT_01"})

		assert.ErrorIs(t, err, overtimeerrors.ErrPastDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("other employee without manage_all", func(t *testing.T) {
		deps := setupServiceTest(t)
		other := req
		other.EmployeeID = uuid.NewString()

		_, err := deps.service.Create(ctx, emp.String(), false, other)

		assert.ErrorIs(t, err, overtimeerrors.ErrOvertimeForbidden)
	})
}

func pending(emp uuid.UUID) *overtime.OvertimeRequest {
	return &overtime.OvertimeRequest{
		ID:          uuid.New(),
		EmployeeID:  emp,
		WorkDate:    day("2025-03-08"),
		WorkShiftID: "WKS_NIGHT_01",
		Status:      overtime.StatusPending,
		RequestedBy: emp,
	}
}

func TestOvertimeService_Approve(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()
	approver := uuid.New()

	t.Run("creates an overtime shift in the same transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := pending(emp)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockByID(ctx, req.ID.String()).Return(req, nil)
		deps.schedule.EXPECT().WithTx(gomock.Any()).Return(deps.schedule)
		deps.schedule.EXPECT().HasShiftOn(ctx, emp.String(), req.WorkDate, "WKS_NIGHT_01").Return(false, nil)
		deps.dated.EXPECT().WithTx(gomock.Any()).Return(deps.dated)
		deps.dated.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, es *employeeshift.EmployeeShift) error {
				assert.Equal(t, employeeshift.SourceOvertime, es.Source)
				assert.Equal(t, employeeshift.StatusScheduled, es.Status)
				assert.Equal(t, emp, es.EmployeeID)
				assert.Equal(t, "WKS_NIGHT_01", es.WorkShiftID)
				return nil
			})
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Approve(ctx, approver.String(), req.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("shift insert failure rolls back the approval", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := pending(emp)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockByID(ctx, req.ID.String()).Return(req, nil)
		deps.schedule.EXPECT().WithTx(gomock.Any()).Return(deps.schedule)
		deps.schedule.EXPECT().HasShiftOn(ctx, emp.String(), req.WorkDate, "WKS_NIGHT_01").Return(false, nil)
		deps.dated.EXPECT().WithTx(gomock.Any()).Return(deps.dated)
		deps.dated.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_shift_scheduled"})

		_, err := deps.service.Approve(ctx, approver.String(), req.ID.String())

		assert.ErrorIs(t, err, employeeshifterrors.ErrAlreadyScheduled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("terminal request cannot be approved", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := pending(emp)
		req.Status = overtime.StatusCancelled

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockByID(ctx, req.ID.String()).Return(req, nil)

		_, err := deps.service.Approve(ctx, approver.String(), req.ID.String())

		assert.ErrorIs(t, err, overtimeerrors.ErrInvalidStatusTransition)
	})
}

func TestOvertimeService_RejectAndCancel(t *testing.T) {
	ctx := context.Background()
	emp := uuid.New()

	t.Run("reject", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := pending(emp)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockByID(ctx, req.ID.String()).Return(req, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Reject(ctx, uuid.NewString(), req.ID.String(), "budget")

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
	})

	t.Run("manager cancels on behalf", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := pending(emp)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockByID(ctx, req.ID.String()).Return(req, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Cancel(ctx, uuid.NewString(), true, req.ID.String(), "")

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Nil(t, resp.CancellationReason)
	})

	t.Run("not found id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Cancel(ctx, emp.String(), false, "not-a-uuid", "")

		assert.ErrorIs(t, err, overtimeerrors.ErrOvertimeNotFound)
	})
}

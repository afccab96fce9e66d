package employeeshift

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	employeeshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift/errors"
	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout       = "2006-01-02"
	defaultListDays  = 30
	maxListRangeDays = 366
)

//go:generate mockgen -source=employeeshift_service.go -destination=mock/employeeshift_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, actorID string, req AssignShiftRequest) (EmployeeShiftResponse, error)
	Cancel(ctx context.Context, id string) error
	ListForEmployee(ctx context.Context, actorID, employeeID string, canReadAll bool, filter ListFilter) ([]EmployeeShiftResponse, error)
}

type Options struct {
	Now func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Directory
	shifts    workshift.Repository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Directory,
	shifts workshift.Repository,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employeeshift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeeshift.service")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		shifts:    shifts,
		now:       opts.Now,
		logger:    l,
	}
}

func (s *service) Assign(ctx context.Context, actorID string, req AssignShiftRequest) (EmployeeShiftResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("assign shift requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("work_date", req.WorkDate),
		zap.String("slot_id", req.SlotID),
	)

	workDate, err := time.Parse(dateLayout, req.WorkDate)
	if err != nil {
		return EmployeeShiftResponse{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"work_date": req.WorkDate})
	}
	if workDate.Before(dateOnly(s.now())) {
		return EmployeeShiftResponse{}, employeeshifterrors.ErrPastDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign shift begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeShiftResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.employees.WithTx(tx).LockByID(ctx, req.EmployeeID)
	if err != nil {
		return EmployeeShiftResponse{}, employee.MapLookupError(err)
	}
	if !empl.IsActive {
		return EmployeeShiftResponse{}, employeeerrors.ErrEmployeeInactive
	}
	switch {
	case !empl.EmploymentType.Valid():
		return EmployeeShiftResponse{}, registrationerrors.ErrInvalidEmployeeType
	case empl.EmploymentType != employee.EmploymentPartTimeFlex:
		return EmployeeShiftResponse{}, employeeshifterrors.ErrNotPartTimeEmployee.WithDetails(map[string]any{
			"employment_type": string(empl.EmploymentType),
		})
	}

	shift, err := s.shifts.WithTx(tx).FindByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeShiftResponse{}, workshifterrors.ErrWorkShiftNotFound
		}
		return EmployeeShiftResponse{}, err
	}
	if !shift.IsActive {
		return EmployeeShiftResponse{}, workshifterrors.ErrWorkShiftNotFound
	}

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.ExistsScheduled(ctx, req.EmployeeID, workDate, req.SlotID)
	if err != nil {
		s.logger.Error("assign shift check existing failed", zap.Error(err))
		return EmployeeShiftResponse{}, err
	}
	if exists {
		return EmployeeShiftResponse{}, employeeshifterrors.ErrAlreadyScheduled
	}

	es := &EmployeeShift{
		ID:          uuid.New(),
		EmployeeID:  empl.ID,
		WorkDate:    workDate,
		WorkShiftID: req.SlotID,
		Source:      SourceDailyAssignment,
		Status:      StatusScheduled,
		CreatedBy:   parseUUIDPtr(actorID),
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		es.Notes = &notes
	}
	if err := qtx.Create(ctx, es); err != nil {
		s.logger.Error("assign shift persist failed", zap.Error(err))
		return EmployeeShiftResponse{}, MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("assign shift commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeShiftResponse{}, err
	}

	s.logger.Info("assign shift success",
		zap.String("request_id", rid),
		zap.String("employee_shift_id", es.ID.String()),
	)
	return mapToResponse(*es), nil
}

// Cancel marks a dated shift CANCELLED. Cancelling twice is a no-op.
func (s *service) Cancel(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeshifterrors.ErrEmployeeShiftNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel shift begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	es, err := qtx.FindByID(ctx, id)
	if err != nil {
		return MapRepositoryError(err)
	}
	if es.Status == StatusCancelled {
		return nil
	}
	if err := qtx.SetStatus(ctx, id, StatusCancelled); err != nil {
		s.logger.Error("cancel shift failed", zap.String("employee_shift_id", id), zap.Error(err))
		return MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel shift commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("cancel shift success", zap.String("employee_shift_id", id))
	return nil
}

func (s *service) ListForEmployee(ctx context.Context, actorID, employeeID string, canReadAll bool, filter ListFilter) ([]EmployeeShiftResponse, error) {
	if !canReadAll && employeeID != actorID {
		return nil, employeeshifterrors.ErrEmployeeShiftForbidden
	}

	from, to, err := s.listRange(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByEmployee(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("list employee shifts failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	res := make([]EmployeeShiftResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) listRange(filter ListFilter) (time.Time, time.Time, error) {
	from := dateOnly(s.now())
	if filter.From != "" {
		t, err := time.Parse(dateLayout, filter.From)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"from": filter.From})
		}
		from = t
	}
	to := from.AddDate(0, 0, defaultListDays)
	if filter.To != "" {
		t, err := time.Parse(dateLayout, filter.To)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"to": filter.To})
		}
		to = t
	}
	if to.Before(from) || to.Sub(from) > maxListRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, employeeshifterrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func parseUUIDPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(es EmployeeShift) EmployeeShiftResponse {
	resp := EmployeeShiftResponse{
		ID:         es.ID.String(),
		EmployeeID: es.EmployeeID.String(),
		WorkDate:   es.WorkDate.Format(dateLayout),
		SlotID:     es.WorkShiftID,
		Source:     string(es.Source),
		Status:     string(es.Status),
	}
	if es.Notes != nil {
		resp.Notes = *es.Notes
	}
	return resp
}

package overtime

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift"
	employeeshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"
	overtimeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, canManageAll bool, req CreateOvertimeRequest) (OvertimeResponse, error)
	Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (OvertimeResponse, error)
	Cancel(ctx context.Context, actorID string, canManageAll bool, id, reason string) (OvertimeResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error)
}

type Options struct {
	Now func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Directory
	shifts    workshift.Repository
	schedule  employeeshift.Lookup
	dated     employeeshift.Repository
	notifier  notification.Notifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Directory,
	shifts workshift.Repository,
	schedule employeeshift.Lookup,
	dated employeeshift.Repository,
	notifier notification.Notifier,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		shifts:    shifts,
		schedule:  schedule,
		dated:     dated,
		notifier:  notifier,
		now:       opts.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, canManageAll bool, req CreateOvertimeRequest) (OvertimeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actorID
	}
	s.logger.Debug("create overtime requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
		zap.String("work_date", req.WorkDate),
		zap.String("slot_id", req.SlotID),
	)

	requestedBy, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, apperror.ErrUnauthorized
	}
	if employeeID != actorID && !canManageAll {
		return OvertimeResponse{}, overtimeerrors.ErrOvertimeForbidden
	}

	workDate, err := time.Parse(dateLayout, req.WorkDate)
	if err != nil {
		return OvertimeResponse{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"work_date": req.WorkDate})
	}
	if workDate.Before(dateOnly(s.now())) {
		return OvertimeResponse{}, overtimeerrors.ErrPastDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create overtime begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.employees.WithTx(tx).LockByID(ctx, employeeID)
	if err != nil {
		return OvertimeResponse{}, employee.MapLookupError(err)
	}
	if !empl.IsActive {
		return OvertimeResponse{}, employeeerrors.ErrEmployeeInactive
	}

	if err := s.checkSlot(ctx, tx, req.SlotID); err != nil {
		return OvertimeResponse{}, err
	}

	qtx := s.repo.WithTx(tx)
	dup, err := qtx.ExistsOpen(ctx, employeeID, workDate, req.SlotID)
	if err != nil {
		s.logger.Error("create overtime duplicate check failed", zap.String("request_id", rid), zap.Error(err))
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if dup {
		s.logger.Warn("create overtime duplicate detected",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.String("work_date", req.WorkDate),
			zap.String("slot_id", req.SlotID),
		)
		return OvertimeResponse{}, overtimeerrors.ErrDuplicateOvertimeRequest
	}

	scheduled, err := s.schedule.WithTx(tx).HasShiftOn(ctx, employeeID, workDate, req.SlotID)
	if err != nil {
		s.logger.Error("create overtime schedule lookup failed", zap.String("request_id", rid), zap.Error(err))
		return OvertimeResponse{}, err
	}
	if scheduled {
		return OvertimeResponse{}, employeeshifterrors.ErrAlreadyScheduled.WithDetails(map[string]any{
			"work_date": req.WorkDate,
			"slot_id":   req.SlotID,
		})
	}

	r := &OvertimeRequest{
		ID:          uuid.New(),
		EmployeeID:  empl.ID,
		WorkDate:    workDate,
		WorkShiftID: req.SlotID,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
		RequestedBy: requestedBy,
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("create overtime persist failed", zap.String("request_id", rid), zap.Error(err))
		return OvertimeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create overtime commit failed", zap.String("request_id", rid), zap.Error(err))
		return OvertimeResponse{}, err
	}

	s.logger.Info("create overtime success",
		zap.String("request_id", rid),
		zap.String("overtime_id", r.ID.String()),
	)

	s.notifier.Notify(ctx, events.ScheduleEvent{
		EventType:     events.OvertimeRequested,
		AggregateType: "overtime_request",
		AggregateID:   r.ID.String(),
		EmployeeID:    employeeID,
		WorkShiftID:   req.SlotID,
		StartDate:     req.WorkDate,
		EndDate:       req.WorkDate,
		Summary:       "overtime requested",
	})

	return mapToResponse(*r), nil
}

func (s *service) checkSlot(ctx context.Context, tx *sql.Tx, slotID string) error {
	shift, err := s.shifts.WithTx(tx).FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workshifterrors.ErrWorkShiftNotFound
		}
		return err
	}
	if !shift.IsActive {
		return workshifterrors.ErrWorkShiftNotFound
	}
	return nil
}

// Approve also materializes the overtime as a dated OVERTIME shift.
func (s *service) Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error) {
	approver, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, apperror.ErrUnauthorized
	}
	return s.transition(ctx, id, StatusApproved, func(tx *sql.Tx, r *OvertimeRequest) error {
		scheduled, err := s.schedule.WithTx(tx).HasShiftOn(ctx, r.EmployeeID.String(), r.WorkDate, r.WorkShiftID)
		if err != nil {
			return err
		}
		if scheduled {
			return employeeshifterrors.ErrAlreadyScheduled
		}

		notes := "overtime request " + r.ID.String()
		es := &employeeshift.EmployeeShift{
			ID:          uuid.New(),
			EmployeeID:  r.EmployeeID,
			WorkDate:    r.WorkDate,
			WorkShiftID: r.WorkShiftID,
			Source:      employeeshift.SourceOvertime,
			Status:      employeeshift.StatusScheduled,
			Notes:       &notes,
			CreatedBy:   &approver,
		}
		if err := s.dated.WithTx(tx).Create(ctx, es); err != nil {
			s.logger.Error("approve overtime create shift failed", zap.String("overtime_id", id), zap.Error(err))
			return employeeshift.MapRepositoryError(err)
		}

		now := s.now().UTC()
		r.ApprovedBy = &approver
		r.ApprovedAt = &now
		return nil
	})
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (OvertimeResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return OvertimeResponse{}, overtimeerrors.ErrRejectionReasonRequired
	}
	approver, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, apperror.ErrUnauthorized
	}
	return s.transition(ctx, id, StatusRejected, func(_ *sql.Tx, r *OvertimeRequest) error {
		now := s.now().UTC()
		r.ApprovedBy = &approver
		r.ApprovedAt = &now
		r.RejectionReason = &reason
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, actorID string, canManageAll bool, id, reason string) (OvertimeResponse, error) {
	return s.transition(ctx, id, StatusCancelled, func(_ *sql.Tx, r *OvertimeRequest) error {
		if !canManageAll && r.EmployeeID.String() != actorID {
			return overtimeerrors.ErrOvertimeForbidden
		}
		if reason = strings.TrimSpace(reason); reason != "" {
			r.CancellationReason = &reason
		}
		return nil
	})
}

func (s *service) transition(ctx context.Context, id string, to Status, apply func(*sql.Tx, *OvertimeRequest) error) (OvertimeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("transition overtime requested",
		zap.String("overtime_id", id),
		zap.String("target_status", string(to)),
	)
	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transition overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.LockByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if !r.Status.CanTransition(to) {
		log.Warn("transition overtime invalid",
			zap.String("overtime_id", id),
			zap.String("from_status", string(r.Status)),
			zap.String("to_status", string(to)),
		)
		return OvertimeResponse{}, overtimeerrors.ErrInvalidStatusTransition.WithDetails(map[string]any{
			"from": string(r.Status),
			"to":   string(to),
		})
	}

	if err := apply(tx, r); err != nil {
		return OvertimeResponse{}, err
	}
	r.Status = to

	if err := qtx.Update(ctx, r); err != nil {
		log.Error("transition overtime persist failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		log.Error("transition overtime commit failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}

	log.Info("transition overtime success",
		zap.String("overtime_id", id),
		zap.String("status", string(to)),
	)
	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]OvertimeResponse, error) {
	employeeID := ""
	if !canReadAll {
		employeeID = actorID
	}
	rows, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		s.logger.Error("list overtime failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	res := make([]OvertimeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrOvertimeNotFound
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && r.EmployeeID.String() != actorID {
		return OvertimeResponse{}, overtimeerrors.ErrOvertimeForbidden
	}
	return mapToResponse(*r), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapToResponse(r OvertimeRequest) OvertimeResponse {
	resp := OvertimeResponse{
		ID:                 r.ID.String(),
		EmployeeID:         r.EmployeeID.String(),
		WorkDate:           r.WorkDate.Format(dateLayout),
		SlotID:             r.WorkShiftID,
		Reason:             r.Reason,
		Status:             string(r.Status),
		RequestedBy:        r.RequestedBy.String(),
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
	}
	if r.ApprovedBy != nil {
		v := r.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if r.ApprovedAt != nil {
		v := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

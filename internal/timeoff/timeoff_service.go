package timeoff

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employeeshift"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"
	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=timeoff_service.go -destination=mock/timeoff_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, canManageAll bool, req CreateTimeOffRequest) (TimeOffResponse, error)
	Approve(ctx context.Context, actorID, id string) (TimeOffResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (TimeOffResponse, error)
	Cancel(ctx context.Context, actorID string, canManageAll bool, id, reason string) (TimeOffResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]TimeOffResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (TimeOffResponse, error)
	GetBalances(ctx context.Context, actorID string, canReadAll bool, employeeID string, year int) ([]LeaveBalanceResponse, error)
}

// DefaultMaxSpanDays bounds a single request; the scheduled-day walk runs
// under the employee row lock.
const DefaultMaxSpanDays = 366

type Options struct {
	// MaxSpanDays is the longest inclusive range one request may cover.
	MaxSpanDays int
	Now         func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Directory
	schedule  employeeshift.Lookup
	notifier  notification.Notifier
	maxSpan   int
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Directory,
	schedule employeeshift.Lookup,
	notifier notification.Notifier,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timeoff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeoff.service")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxSpanDays < 1 {
		opts.MaxSpanDays = DefaultMaxSpanDays
	}
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		schedule:  schedule,
		notifier:  notifier,
		maxSpan:   opts.MaxSpanDays,
		now:       opts.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, canManageAll bool, req CreateTimeOffRequest) (TimeOffResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actorID
	}
	s.logger.Debug("create time off requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("slot_id", req.SlotID),
	)

	requestedBy, err := uuid.Parse(actorID)
	if err != nil {
		return TimeOffResponse{}, apperror.ErrUnauthorized
	}
	if employeeID != actorID && !canManageAll {
		return TimeOffResponse{}, timeofferrors.ErrTimeOffForbidden
	}

	span, err := parseSpan(req, s.maxSpan)
	if err != nil {
		s.logger.Warn("create time off validation failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create time off begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.employees.WithTx(tx).LockByID(ctx, employeeID)
	if err != nil {
		return TimeOffResponse{}, employee.MapLookupError(err)
	}
	if !empl.IsActive {
		return TimeOffResponse{}, employeeerrors.ErrEmployeeInactive
	}

	scheduled, err := s.schedule.WithTx(tx).ScheduledDays(ctx, employeeID, span.Start, span.End, span.SlotID)
	if err != nil {
		s.logger.Error("create time off schedule lookup failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, err
	}
	if len(scheduled) == 0 {
		s.logger.Warn("create time off without scheduled shift",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
		)
		return TimeOffResponse{}, timeofferrors.ErrShiftNotFoundForLeave.WithDetails(map[string]any{
			"employee_id": employeeID,
			"start_date":  req.StartDate,
			"end_date":    req.EndDate,
			"slot_id":     req.SlotID,
		})
	}

	qtx := s.repo.WithTx(tx)
	open, err := qtx.FindOpenOverlapping(ctx, employeeID, span.Start, span.End)
	if err != nil {
		s.logger.Error("create time off overlap query failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	if conflicts := Conflicts(open, span); len(conflicts) > 0 {
		ids := make([]string, len(conflicts))
		for i, c := range conflicts {
			ids[i] = c.ID.String()
		}
		s.logger.Warn("create time off conflict detected",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Strings("conflicting_ids", ids),
		)
		return TimeOffResponse{}, timeofferrors.ErrConflictingRequest.WithDetails(map[string]any{
			"conflicting_ids": ids,
			"start_date":      conflicts[0].StartDate.Format(dateLayout),
			"end_date":        conflicts[0].EndDate.Format(dateLayout),
			"slot_id":         conflicts[0].slot(),
		})
	}

	r := &TimeOffRequest{
		ID:          uuid.New(),
		EmployeeID:  empl.ID,
		TimeOffType: Type(req.TimeOffType),
		StartDate:   span.Start,
		EndDate:     span.End,
		TotalDays:   TotalDays(span, len(scheduled)),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
		RequestedBy: requestedBy,
	}
	if span.SlotID != "" {
		slot := span.SlotID
		r.WorkShiftID = &slot
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("create time off persist failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create time off commit failed", zap.String("request_id", rid), zap.Error(err))
		return TimeOffResponse{}, err
	}

	s.logger.Info("create time off success",
		zap.String("request_id", rid),
		zap.String("time_off_id", r.ID.String()),
		zap.String("total_days", r.TotalDays.String()),
	)

	s.notifier.Notify(ctx, events.ScheduleEvent{
		EventType:     events.TimeOffRequested,
		AggregateType: "time_off_request",
		AggregateID:   r.ID.String(),
		EmployeeID:    employeeID,
		WorkShiftID:   span.SlotID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Summary:       string(r.TimeOffType) + " time off requested",
	})

	return mapToResponse(*r), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (TimeOffResponse, error) {
	approver, err := uuid.Parse(actorID)
	if err != nil {
		return TimeOffResponse{}, apperror.ErrUnauthorized
	}
	return s.transition(ctx, id, StatusApproved, func(qtx Repository, r *TimeOffRequest) error {
		if r.TimeOffType.TracksBalance() {
			if err := s.consumeBalance(ctx, qtx, r); err != nil {
				return err
			}
		}
		now := s.now().UTC()
		r.ApprovedBy = &approver
		r.ApprovedAt = &now
		return nil
	})
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (TimeOffResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return TimeOffResponse{}, timeofferrors.ErrRejectionReasonRequired
	}
	approver, err := uuid.Parse(actorID)
	if err != nil {
		return TimeOffResponse{}, apperror.ErrUnauthorized
	}
	return s.transition(ctx, id, StatusRejected, func(_ Repository, r *TimeOffRequest) error {
		now := s.now().UTC()
		r.ApprovedBy = &approver
		r.ApprovedAt = &now
		r.RejectionReason = &reason
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, actorID string, canManageAll bool, id, reason string) (TimeOffResponse, error) {
	return s.transition(ctx, id, StatusCancelled, func(_ Repository, r *TimeOffRequest) error {
		if !canManageAll && r.EmployeeID.String() != actorID {
			return timeofferrors.ErrTimeOffForbidden
		}
		if reason = strings.TrimSpace(reason); reason != "" {
			r.CancellationReason = &reason
		}
		return nil
	})
}

// transition locks the request, checks the status move, runs apply and
// saves, all in one transaction.
func (s *service) transition(ctx context.Context, id string, to Status, apply func(Repository, *TimeOffRequest) error) (TimeOffResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("transition time off requested",
		zap.String("time_off_id", id),
		zap.String("target_status", string(to)),
	)
	if _, err := uuid.Parse(id); err != nil {
		return TimeOffResponse{}, timeofferrors.ErrTimeOffNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transition time off begin tx failed", zap.Error(err))
		return TimeOffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.LockByID(ctx, id)
	if err != nil {
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	if !r.Status.CanTransition(to) {
		log.Warn("transition time off invalid",
			zap.String("time_off_id", id),
			zap.String("from_status", string(r.Status)),
			zap.String("to_status", string(to)),
		)
		return TimeOffResponse{}, timeofferrors.ErrInvalidStatusTransition.WithDetails(map[string]any{
			"from": string(r.Status),
			"to":   string(to),
		})
	}

	if err := apply(qtx, r); err != nil {
		return TimeOffResponse{}, err
	}
	r.Status = to

	if err := qtx.Update(ctx, r); err != nil {
		log.Error("transition time off persist failed",
			zap.String("time_off_id", id),
			zap.String("target_status", string(to)),
			zap.Error(err),
		)
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		log.Error("transition time off commit failed", zap.String("time_off_id", id), zap.Error(err))
		return TimeOffResponse{}, err
	}

	log.Info("transition time off success",
		zap.String("time_off_id", id),
		zap.String("status", string(to)),
	)
	return mapToResponse(*r), nil
}

func (s *service) consumeBalance(ctx context.Context, qtx Repository, r *TimeOffRequest) error {
	year := r.StartDate.Year()
	b, err := qtx.LockBalance(ctx, r.EmployeeID.String(), r.TimeOffType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timeofferrors.ErrLeaveBalanceNotFound.WithDetails(map[string]any{
				"employee_id":   r.EmployeeID.String(),
				"time_off_type": string(r.TimeOffType),
				"year":          year,
			})
		}
		return err
	}

	next, err := Consume(*b, r.TotalDays)
	if err != nil {
		s.logger.Warn("leave balance rejected approval",
			zap.String("time_off_id", r.ID.String()),
			zap.String("remaining", b.Remaining.String()),
			zap.String("requested", r.TotalDays.String()),
			zap.Error(err),
		)
		return err
	}
	if err := qtx.UpdateBalance(ctx, &next); err != nil {
		s.logger.Error("update leave balance failed", zap.String("time_off_id", r.ID.String()), zap.Error(err))
		return mapRepositoryError(err)
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]TimeOffResponse, error) {
	employeeID := ""
	if !canReadAll {
		employeeID = actorID
	}
	rows, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		s.logger.Error("list time off failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	res := make([]TimeOffResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (TimeOffResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimeOffResponse{}, timeofferrors.ErrTimeOffNotFound
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && r.EmployeeID.String() != actorID {
		return TimeOffResponse{}, timeofferrors.ErrTimeOffForbidden
	}
	return mapToResponse(*r), nil
}

func (s *service) GetBalances(ctx context.Context, actorID string, canReadAll bool, employeeID string, year int) ([]LeaveBalanceResponse, error) {
	if employeeID == "" {
		employeeID = actorID
	}
	if !canReadAll && employeeID != actorID {
		return nil, timeofferrors.ErrTimeOffForbidden
	}
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1000 || year > 9999 {
		return nil, timeofferrors.ErrInvalidYear
	}

	rows, err := s.repo.FindBalances(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("list leave balances failed", zap.Error(err))
		return nil, err
	}
	res := make([]LeaveBalanceResponse, len(rows))
	for i, b := range rows {
		res[i] = LeaveBalanceResponse{
			EmployeeID:   b.EmployeeID.String(),
			TimeOffType:  string(b.TimeOffType),
			Year:         b.Year,
			TotalAllowed: b.TotalAllowed.StringFixed(1),
			Used:         b.Used.StringFixed(1),
			Remaining:    b.Remaining.StringFixed(1),
		}
	}
	return res, nil
}

func parseSpan(req CreateTimeOffRequest, maxDays int) (Span, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return Span{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"start_date": req.StartDate})
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return Span{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"end_date": req.EndDate})
	}
	if start.After(end) {
		return Span{}, timeofferrors.ErrInvalidDateRange
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxDays {
		return Span{}, timeofferrors.ErrDateRangeTooLong.WithDetails(map[string]any{
			"days":     days,
			"max_days": maxDays,
		})
	}
	slot := strings.TrimSpace(req.SlotID)
	if slot != "" && !start.Equal(end) {
		return Span{}, timeofferrors.ErrHalfDayRange
	}
	return Span{Start: start, End: end, SlotID: slot}, nil
}

func mapToResponse(r TimeOffRequest) TimeOffResponse {
	resp := TimeOffResponse{
		ID:                 r.ID.String(),
		EmployeeID:         r.EmployeeID.String(),
		TimeOffType:        string(r.TimeOffType),
		StartDate:          r.StartDate.Format(dateLayout),
		EndDate:            r.EndDate.Format(dateLayout),
		SlotID:             r.WorkShiftID,
		TotalDays:          r.TotalDays.StringFixed(1),
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

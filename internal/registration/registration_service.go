package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/employee"
	employeeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/employee/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/events"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/notification"
	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/counter"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=registration_service.go -destination=mock/registration_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRegistrationRequest) (RegistrationResponse, error)
	Update(ctx context.Context, id string, req UpdateRegistrationRequest) (RegistrationResponse, error)
	Deactivate(ctx context.Context, id string) error
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (RegistrationResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]RegistrationResponse, error)
	ListForEmployee(ctx context.Context, actorID, employeeID string, canReadAll bool) ([]RegistrationResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Directory
	shifts    workshift.Repository
	counter   counter.Repository
	notifier  notification.Notifier
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Directory,
	shifts workshift.Repository,
	counter counter.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("registration.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registration.service")
	}
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		shifts:    shifts,
		counter:   counter,
		notifier:  notifier,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req CreateRegistrationRequest) (RegistrationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create registration requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("slot_id", req.SlotID),
		zap.Strings("days", req.Days),
	)

	days, err := parseDays(req.Days)
	if err != nil {
		return RegistrationResponse{}, err
	}
	from, to, err := parseRange(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return RegistrationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create registration begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RegistrationResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.checkEmployee(ctx, tx, req.EmployeeID)
	if err != nil {
		return RegistrationResponse{}, err
	}
	if err := s.checkSlot(ctx, tx, req.SlotID); err != nil {
		return RegistrationResponse{}, err
	}

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindActiveByEmployee(ctx, empl.ID.String())
	if err != nil {
		s.logger.Error("create registration load existing failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	proposal := Proposal{
		EmployeeID:    empl.ID,
		SlotID:        req.SlotID,
		Days:          days,
		EffectiveFrom: from,
		EffectiveTo:   to,
	}
	if conflicts := FindConflicts(existing, proposal); len(conflicts) > 0 {
		s.logger.Warn("create registration conflict",
			zap.String("employee_id", req.EmployeeID),
			zap.String("conflicting_registration", conflicts[0].RegistrationID),
		)
		return RegistrationResponse{}, conflictError(conflicts)
	}

	next, err := s.counter.GetNextValue(ctx, counter.TypeRegistration)
	if err != nil {
		s.logger.Error("create registration generate id failed", zap.Error(err))
		return RegistrationResponse{}, err
	}

	reg := &Registration{
		ID:            fmt.Sprintf("REG%06d", next),
		EmployeeID:    empl.ID,
		WorkShiftID:   req.SlotID,
		EffectiveFrom: from,
		EffectiveTo:   to,
		IsActive:      true,
	}
	if err := qtx.Create(ctx, reg); err != nil {
		s.logger.Error("create registration persist failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceDays(ctx, reg.ID, days); err != nil {
		s.logger.Error("create registration persist days failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create registration commit failed", zap.String("request_id", rid), zap.Error(err))
		return RegistrationResponse{}, err
	}

	reg.Days = toDayRows(reg.ID, days)
	s.notifier.Notify(ctx, events.ScheduleEvent{
		EventType:     events.RegistrationCreated,
		RequestID:     rid,
		AggregateType: "registration",
		AggregateID:   reg.ID,
		EmployeeID:    reg.EmployeeID.String(),
		WorkShiftID:   reg.WorkShiftID,
		StartDate:     from.Format(dateLayout),
		EndDate:       formatDatePtr(to),
		Summary:       "Recurring shift on " + joinDays(days),
	})

	s.logger.Info("create registration success",
		zap.String("request_id", rid),
		zap.String("registration_id", reg.ID),
	)
	return mapToResponse(*reg), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRegistrationRequest) (RegistrationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update registration requested",
		zap.String("request_id", rid),
		zap.String("registration_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update registration begin tx failed", zap.Error(err))
		return RegistrationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	reg, err := qtx.FindByID(ctx, id)
	if err != nil {
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	if reg.Lifecycle() != LifecycleActive {
		return RegistrationResponse{}, registrationerrors.ErrRegistrationNotFound
	}

	employeeID := reg.EmployeeID.String()
	if _, err := s.checkEmployee(ctx, tx, employeeID); err != nil {
		return RegistrationResponse{}, err
	}

	days, err := mergeUpdate(reg, req)
	if err != nil {
		return RegistrationResponse{}, err
	}
	if err := s.checkSlot(ctx, tx, reg.WorkShiftID); err != nil {
		return RegistrationResponse{}, err
	}

	existing, err := qtx.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("update registration load existing failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	proposal := Proposal{
		EmployeeID:            reg.EmployeeID,
		SlotID:                reg.WorkShiftID,
		Days:                  days,
		EffectiveFrom:         reg.EffectiveFrom,
		EffectiveTo:           reg.EffectiveTo,
		ExcludeRegistrationID: reg.ID,
	}
	if conflicts := FindConflicts(existing, proposal); len(conflicts) > 0 {
		s.logger.Warn("update registration conflict",
			zap.String("registration_id", id),
			zap.String("conflicting_registration", conflicts[0].RegistrationID),
		)
		return RegistrationResponse{}, conflictError(conflicts)
	}

	if err := qtx.Update(ctx, reg); err != nil {
		s.logger.Error("update registration persist failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceDays(ctx, reg.ID, days); err != nil {
		s.logger.Error("update registration replace days failed", zap.Error(err))
		return RegistrationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update registration commit failed", zap.Error(err))
		return RegistrationResponse{}, err
	}

	reg.Days = toDayRows(reg.ID, days)
	s.logger.Info("update registration success", zap.String("registration_id", id))
	return mapToResponse(*reg), nil
}

// Deactivate retires a registration. Its day rows stay for history and
// deactivating an inactive registration is a no-op.
func (s *service) Deactivate(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate registration begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	reg, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if reg.Lifecycle() == LifecycleInactive {
		s.logger.Debug("registration already inactive", zap.String("registration_id", id))
		return nil
	}

	if err := qtx.SetActive(ctx, id, false); err != nil {
		s.logger.Error("deactivate registration failed", zap.String("registration_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate registration commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("deactivate registration success", zap.String("registration_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (RegistrationResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RegistrationResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && reg.EmployeeID.String() != actorID {
		return RegistrationResponse{}, registrationerrors.ErrRegistrationForbidden
	}
	return mapToResponse(*reg), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]RegistrationResponse, error) {
	employeeID := ""
	if !canReadAll {
		employeeID = actorID
	}
	regs, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		s.logger.Error("get all registrations failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(regs), nil
}

func (s *service) ListForEmployee(ctx context.Context, actorID, employeeID string, canReadAll bool) ([]RegistrationResponse, error) {
	if !canReadAll && employeeID != actorID {
		s.logger.Warn("list registrations for other employee denied",
			zap.String("actor_id", actorID),
			zap.String("employee_id", employeeID),
		)
		return nil, registrationerrors.ErrRegistrationForbidden
	}
	regs, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		s.logger.Error("list registrations for employee failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(regs), nil
}

// checkEmployee locks the employee row for the rest of tx, so concurrent
// writes for the same employee serialize on the conflict check.
func (s *service) checkEmployee(ctx context.Context, tx *sql.Tx, employeeID string) (*employee.Employee, error) {
	empl, err := s.employees.WithTx(tx).LockByID(ctx, employeeID)
	if err != nil {
		return nil, employee.MapLookupError(err)
	}
	if !empl.IsActive {
		return nil, employeeerrors.ErrEmployeeInactive
	}
	switch {
	case !empl.EmploymentType.Valid():
		return nil, registrationerrors.ErrInvalidEmployeeType.WithDetails(map[string]any{
			"employment_type": string(empl.EmploymentType),
		})
	case !empl.EmploymentType.UsesRecurringRegistration():
		return nil, registrationerrors.ErrNotFullTimeEmployee.WithDetails(map[string]any{
			"employment_type": string(empl.EmploymentType),
		})
	}
	return empl, nil
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

func mergeUpdate(reg *Registration, req UpdateRegistrationRequest) ([]Weekday, error) {
	if req.SlotID.Set {
		if req.SlotID.Null || strings.TrimSpace(req.SlotID.Value) == "" {
			return nil, apperror.RequiredField("slot_id")
		}
		reg.WorkShiftID = req.SlotID.Value
	}
	if req.EffectiveFrom.Set {
		if req.EffectiveFrom.Null {
			return nil, apperror.RequiredField("effective_from")
		}
		from, err := parseDate(req.EffectiveFrom.Value)
		if err != nil {
			return nil, err
		}
		reg.EffectiveFrom = from
	}
	if req.EffectiveTo.Set {
		if req.EffectiveTo.Null {
			reg.EffectiveTo = nil
		} else {
			to, err := parseDate(req.EffectiveTo.Value)
			if err != nil {
				return nil, err
			}
			reg.EffectiveTo = &to
		}
	}
	if reg.EffectiveTo != nil && reg.EffectiveTo.Before(reg.EffectiveFrom) {
		return nil, registrationerrors.ErrInvalidDateRange
	}

	days := reg.Weekdays()
	if req.Days.Set {
		if req.Days.Null {
			return nil, registrationerrors.ErrInvalidDays
		}
		parsed, err := parseDays(req.Days.Value)
		if err != nil {
			return nil, err
		}
		days = parsed
	}
	return days, nil
}

func parseDays(raw []string) ([]Weekday, error) {
	if len(raw) == 0 {
		return nil, registrationerrors.ErrInvalidDays
	}
	seen := make(map[Weekday]struct{}, len(raw))
	days := make([]Weekday, 0, len(raw))
	for _, r := range raw {
		d, err := ParseWeekday(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d]; dup {
			return nil, registrationerrors.ErrInvalidDays.WithMessage(
				"duplicate weekday "+string(d),
				map[string]any{"day": string(d)},
			)
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return sortWeekdays(days), nil
}

func parseRange(fromRaw string, toRaw *string) (time.Time, *time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, err
	}
	if toRaw == nil || *toRaw == "" {
		return from, nil, nil
	}
	to, err := parseDate(*toRaw)
	if err != nil {
		return time.Time{}, nil, err
	}
	if to.Before(from) {
		return time.Time{}, nil, registrationerrors.ErrInvalidDateRange.WithDetails(map[string]any{
			"effective_from": fromRaw,
			"effective_to":   *toRaw,
		})
	}
	return from, &to, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperror.ErrInvalidDateFormat.WithDetails(map[string]any{"value": s})
	}
	return t, nil
}

func conflictError(conflicts []Conflict) error {
	c := conflicts[0]
	ids := make([]string, len(conflicts))
	for i, cf := range conflicts {
		ids[i] = cf.RegistrationID
	}
	return registrationerrors.ErrRegistrationConflict.WithMessage(
		fmt.Sprintf("Registration conflicts with %s (%s) on %s", c.RegistrationID, c.SlotID, joinDays(c.Days)),
		map[string]any{
			"registration_id": c.RegistrationID,
			"slot_id":         c.SlotID,
			"days":            daysToStrings(c.Days),
			"effective_from":  c.EffectiveFrom.Format(dateLayout),
			"effective_to":    formatDatePtr(c.EffectiveTo),
			"conflicting_ids": ids,
		},
	)
}

func toDayRows(id string, days []Weekday) []RegistrationDay {
	rows := make([]RegistrationDay, len(days))
	for i, d := range days {
		rows[i] = RegistrationDay{RegistrationID: id, DayOfWeek: d}
	}
	return rows
}

func daysToStrings(days []Weekday) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}

func joinDays(days []Weekday) string {
	return strings.Join(daysToStrings(days), ", ")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func mapToResponse(reg Registration) RegistrationResponse {
	resp := RegistrationResponse{
		RegistrationID: reg.ID,
		EmployeeID:     reg.EmployeeID.String(),
		SlotID:         reg.WorkShiftID,
		EffectiveFrom:  reg.EffectiveFrom.Format(dateLayout),
		IsActive:       reg.IsActive,
		DaysOfWeek:     daysToStrings(reg.Weekdays()),
	}
	if reg.EffectiveTo != nil {
		to := reg.EffectiveTo.Format(dateLayout)
		resp.EffectiveTo = &to
	}
	return resp
}

func mapToListResponse(regs []Registration) []RegistrationResponse {
	res := make([]RegistrationResponse, len(regs))
	for i, r := range regs {
		res[i] = mapToResponse(r)
	}
	return res
}

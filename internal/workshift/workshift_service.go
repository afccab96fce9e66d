package workshift

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/contextutil"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const WorkShiftListKeyPrefix = "work_shifts:list:"

// GetWorkShiftListKey names the cached list for an active filter (nil = all).
func GetWorkShiftListKey(active *bool) string {
	switch {
	case active == nil:
		return WorkShiftListKeyPrefix + "all"
	case *active:
		return WorkShiftListKeyPrefix + "active"
	default:
		return WorkShiftListKeyPrefix + "inactive"
	}
}

func allListKeys() []string {
	t, f := true, false
	return []string{GetWorkShiftListKey(nil), GetWorkShiftListKey(&t), GetWorkShiftListKey(&f)}
}

//go:generate mockgen -source=workshift_service.go -destination=mock/workshift_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateWorkShiftRequest) (WorkShiftResponse, error)
	Update(ctx context.Context, id string, req UpdateWorkShiftRequest) (WorkShiftResponse, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]WorkShiftResponse, error)
	GetByID(ctx context.Context, id string) (WorkShiftResponse, error)
}

// Options tunes the catalog. Zero values fall back to the clinic defaults.
type Options struct {
	Rules         Rules
	MaxIDAttempts int
	CacheTTL      time.Duration
	Now           func() time.Time
}

type service struct {
	db          *sql.DB
	repo        Repository
	rdb         *redis.Client
	sf          *singleflight.Group
	ids         IDGenerator
	rules       Rules
	maxAttempts int
	cacheTTL    time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("workshift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workshift.service")
	}
	if opts.Rules == (Rules{}) {
		opts.Rules = DefaultRules()
	}
	if opts.MaxIDAttempts < 1 {
		opts.MaxIDAttempts = 3
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:          db,
		repo:        repo,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		rules:       opts.Rules,
		maxAttempts: opts.MaxIDAttempts,
		cacheTTL:    opts.CacheTTL,
		now:         opts.Now,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, req CreateWorkShiftRequest) (WorkShiftResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create work shift requested",
		zap.String("request_id", rid),
		zap.String("shift_name", req.ShiftName),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
		zap.String("category", req.Category),
	)

	name := strings.TrimSpace(req.ShiftName)
	if name == "" {
		return WorkShiftResponse{}, workshifterrors.ErrShiftNameRequired
	}
	start, err := ParseTimeOfDay(req.StartTime)
	if err != nil {
		return WorkShiftResponse{}, err
	}
	end, err := ParseTimeOfDay(req.EndTime)
	if err != nil {
		return WorkShiftResponse{}, err
	}
	category := ParseCategory(req.Category)

	if err := s.rules.Validate(start, end, category); err != nil {
		s.logger.Warn("create work shift rejected by rules", zap.String("request_id", rid), zap.Error(err))
		return WorkShiftResponse{}, err
	}

	var ws *WorkShift
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		ws, err = s.createOnce(ctx, name, start, end, category)
		if err == nil {
			break
		}
		if !errors.Is(err, workshifterrors.ErrIDGenerationConflict) {
			return WorkShiftResponse{}, err
		}
		s.logger.Warn("work shift id collided, retrying",
			zap.String("request_id", rid),
			zap.Int("attempt", attempt),
			zap.Int("max", s.maxAttempts),
		)
	}
	if err != nil {
		s.logger.Error("create work shift exhausted id attempts", zap.String("request_id", rid), zap.Error(err))
		return WorkShiftResponse{}, err
	}

	s.invalidateLists(ctx)

	s.logger.Info("create work shift success",
		zap.String("request_id", rid),
		zap.String("work_shift_id", ws.ID),
	)
	return s.mapToResponse(*ws), nil
}

// createOnce generates an id and inserts in one transaction so a lost race
// surfaces as ErrIDGenerationConflict and can be retried from scratch.
func (s *service) createOnce(ctx context.Context, name string, start, end TimeOfDay, category Category) (*WorkShift, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create work shift begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	id, err := s.ids.Generate(ctx, qtx, start, category)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	now := s.now().UTC()
	ws := &WorkShift{
		ID:        id,
		ShiftName: name,
		StartTime: start,
		EndTime:   end,
		Category:  category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := qtx.Create(ctx, ws); err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapRepositoryError(err)
	}
	return ws, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateWorkShiftRequest) (WorkShiftResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update work shift requested",
		zap.String("request_id", rid),
		zap.String("work_shift_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update work shift begin tx failed", zap.Error(err))
		return WorkShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ws, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return WorkShiftResponse{}, mapRepositoryError(err)
	}
	if !ws.IsActive {
		return WorkShiftResponse{}, workshifterrors.ErrWorkShiftNotFound.WithDetails(map[string]any{"id": id, "is_active": false})
	}

	merged, err := mergeUpdate(*ws, req)
	if err != nil {
		return WorkShiftResponse{}, err
	}

	if encoded, ok := CategoryFromID(ws.ID); ok && merged.Category != encoded {
		return WorkShiftResponse{}, workshifterrors.ErrCategoryChangeForbidden.WithDetails(map[string]any{
			"id":                 ws.ID,
			"current_category":   encoded,
			"requested_category": merged.Category,
		})
	}

	if req.StartTime.Set || req.EndTime.Set || req.Category.Set {
		if err := s.rules.Validate(merged.StartTime, merged.EndTime, merged.Category); err != nil {
			s.logger.Warn("update work shift rejected by rules",
				zap.String("work_shift_id", id),
				zap.Error(err),
			)
			return WorkShiftResponse{}, err
		}
	}

	merged.UpdatedAt = s.now().UTC()
	if err := qtx.Update(ctx, &merged); err != nil {
		s.logger.Error("update work shift persist failed", zap.Error(err))
		return WorkShiftResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update work shift commit failed", zap.Error(err))
		return WorkShiftResponse{}, err
	}

	s.invalidateLists(ctx)

	s.logger.Info("update work shift success", zap.String("work_shift_id", id))
	return s.mapToResponse(merged), nil
}

func mergeUpdate(ws WorkShift, req UpdateWorkShiftRequest) (WorkShift, error) {
	if req.ShiftName.Set {
		name := strings.TrimSpace(req.ShiftName.Value)
		if req.ShiftName.Null || name == "" {
			return ws, workshifterrors.ErrShiftNameRequired
		}
		ws.ShiftName = name
	}
	if req.StartTime.Set {
		if req.StartTime.Null {
			return ws, apperror.RequiredField("start_time")
		}
		start, err := ParseTimeOfDay(req.StartTime.Value)
		if err != nil {
			return ws, err
		}
		ws.StartTime = start
	}
	if req.EndTime.Set {
		if req.EndTime.Null {
			return ws, apperror.RequiredField("end_time")
		}
		end, err := ParseTimeOfDay(req.EndTime.Value)
		if err != nil {
			return ws, err
		}
		ws.EndTime = end
	}
	if req.Category.Set {
		if req.Category.Null {
			return ws, apperror.RequiredField("category")
		}
		category := ParseCategory(req.Category.Value)
		if !category.Valid() {
			return ws, workshifterrors.ErrInvalidCategory.WithMessage(
				"category must be NORMAL or NIGHT",
				map[string]any{"category": req.Category.Value},
			)
		}
		ws.Category = category
	}
	return ws, nil
}

// Deactivate is idempotent: retiring an already inactive shift succeeds.
func (s *service) Deactivate(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("deactivate work shift requested",
		zap.String("request_id", rid),
		zap.String("work_shift_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate work shift begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ws, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !ws.IsActive {
		s.logger.Info("deactivate work shift noop, already inactive", zap.String("work_shift_id", id))
		return nil
	}

	registrations, err := qtx.CountActiveRegistrations(ctx, id)
	if err != nil {
		s.logger.Error("deactivate work shift count registrations failed", zap.Error(err))
		return err
	}
	today := truncateToDate(s.now())
	upcoming, err := qtx.CountUpcomingEmployeeShifts(ctx, id, today)
	if err != nil {
		s.logger.Error("deactivate work shift count schedules failed", zap.Error(err))
		return err
	}
	if registrations > 0 || upcoming > 0 {
		s.logger.Warn("deactivate work shift blocked",
			zap.String("work_shift_id", id),
			zap.Int64("active_registrations", registrations),
			zap.Int64("upcoming_shifts", upcoming),
		)
		return workshifterrors.ErrWorkShiftInUse.WithDetails(map[string]any{
			"id":                   id,
			"active_registrations": registrations,
			"upcoming_shifts":      upcoming,
		})
	}

	if err := qtx.SetActive(ctx, id, false); err != nil {
		s.logger.Error("deactivate work shift persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate work shift commit failed", zap.Error(err))
		return err
	}

	s.invalidateLists(ctx)

	s.logger.Info("deactivate work shift success", zap.String("work_shift_id", id))
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]WorkShiftResponse, error) {
	cacheKey := GetWorkShiftListKey(filter.Active)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []WorkShiftResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		shifts, err := s.repo.FindAll(ctx, filter.Active)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]WorkShiftResponse, len(shifts))
		for i, ws := range shifts {
			resp[i] = s.mapToResponse(ws)
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, data, s.cacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("list work shifts failed", zap.Error(err))
		return nil, err
	}

	return v.([]WorkShiftResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (WorkShiftResponse, error) {
	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return WorkShiftResponse{}, mapRepositoryError(err)
	}
	return s.mapToResponse(*ws), nil
}

func (s *service) invalidateLists(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	keys := allListKeys()
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate work shift cache",
			zap.Error(err),
			zap.Strings("keys", keys),
		)
	}
}

func (s *service) mapToResponse(ws WorkShift) WorkShiftResponse {
	return WorkShiftResponse{
		ID:            ws.ID,
		ShiftName:     ws.ShiftName,
		StartTime:     ws.StartTime.String(),
		EndTime:       ws.EndTime.String(),
		Category:      string(ws.Category),
		IsActive:      ws.IsActive,
		DurationHours: s.rules.DurationHours(ws.StartTime, ws.EndTime),
		CreatedAt:     ws.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     ws.UpdatedAt.Format(time.RFC3339),
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

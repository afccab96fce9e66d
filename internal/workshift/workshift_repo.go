package workshift

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=workshift_repo.go -destination=mock/workshift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, ws *WorkShift) error
	Update(ctx context.Context, ws *WorkShift) error
	SetActive(ctx context.Context, id string, active bool) error
	FindByID(ctx context.Context, id string) (*WorkShift, error)
	FindByIDForUpdate(ctx context.Context, id string) (*WorkShift, error)
	FindAll(ctx context.Context, active *bool) ([]WorkShift, error)
	ListIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	CountActiveRegistrations(ctx context.Context, workShiftID string) (int64, error)
	CountUpcomingEmployeeShifts(ctx context.Context, workShiftID string, from time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, ws *WorkShift) error {
	return r.conn(ctx).Create(ws).Error
}

func (r *repository) Update(ctx context.Context, ws *WorkShift) error {
	return r.conn(ctx).
		Model(&WorkShift{}).
		Where("id = ?", ws.ID).
		Updates(map[string]any{
			"shift_name": ws.ShiftName,
			"start_time": ws.StartTime,
			"end_time":   ws.EndTime,
			"category":   ws.Category,
			"updated_at": ws.UpdatedAt,
		}).Error
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	return r.conn(ctx).
		Model(&WorkShift{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkShift, error) {
	var ws WorkShift
	err := r.conn(ctx).First(&ws, "id = ?", id).Error
	return &ws, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*WorkShift, error) {
	var ws WorkShift
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ws, "id = ?", id).Error
	return &ws, err
}

func (r *repository) FindAll(ctx context.Context, active *bool) ([]WorkShift, error) {
	var shifts []WorkShift
	db := r.conn(ctx).Order("start_time ASC, id ASC")
	if active != nil {
		db = db.Where("is_active = ?", *active)
	}
	err := db.Find(&shifts).Error
	return shifts, err
}

func (r *repository) ListIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&WorkShift{}).
		Where("id LIKE ?", prefix+"_%").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&WorkShift{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) CountActiveRegistrations(ctx context.Context, workShiftID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("employee_shift_registrations").
		Where("work_shift_id = ?", workShiftID).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUpcomingEmployeeShifts(ctx context.Context, workShiftID string, from time.Time) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Table("employee_shifts").
		Where("work_shift_id = ?", workShiftID).
		Where("work_date >= ?", from).
		Where("status = ?", "SCHEDULED").
		Count(&count).Error
	return count, err
}

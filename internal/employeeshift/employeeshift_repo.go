package employeeshift

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employeeshift_repo.go -destination=mock/employeeshift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, es *EmployeeShift) error
	FindByID(ctx context.Context, id string) (*EmployeeShift, error)
	SetStatus(ctx context.Context, id string, status Status) error
	ExistsScheduled(ctx context.Context, employeeID string, date time.Time, slotID string) (bool, error)
	// FindScheduled returns SCHEDULED rows in [from, to]; an empty slotID matches every slot.
	FindScheduled(ctx context.Context, employeeID string, from, to time.Time, slotID string) ([]EmployeeShift, error)
	FindByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]EmployeeShift, error)
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

func (r *repository) Create(ctx context.Context, es *EmployeeShift) error {
	return r.conn(ctx).Create(es).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeShift, error) {
	var es EmployeeShift
	err := r.conn(ctx).First(&es, "id = ?", id).Error
	return &es, err
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) error {
	res := r.conn(ctx).
		Model(&EmployeeShift{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ExistsScheduled(ctx context.Context, employeeID string, date time.Time, slotID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&EmployeeShift{}).
		Scopes(scope.ByEmployee(employeeID), scope.StatusIn(string(StatusScheduled))).
		Where("work_date = ? AND work_shift_id = ?", date, slotID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindScheduled(ctx context.Context, employeeID string, from, to time.Time, slotID string) ([]EmployeeShift, error) {
	var rows []EmployeeShift
	q := r.conn(ctx).
		Scopes(scope.ByEmployee(employeeID), scope.StatusIn(string(StatusScheduled))).
		Where("work_date BETWEEN ? AND ?", from, to)
	if slotID != "" {
		q = q.Where("work_shift_id = ?", slotID)
	}
	err := q.Order("work_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]EmployeeShift, error) {
	var rows []EmployeeShift
	err := r.conn(ctx).
		Scopes(scope.ByEmployee(employeeID)).
		Where("work_date BETWEEN ? AND ?", from, to).
		Order("work_date ASC, work_shift_id ASC").
		Find(&rows).Error
	return rows, err
}

package overtime

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *OvertimeRequest) error
	Update(ctx context.Context, r *OvertimeRequest) error
	FindByID(ctx context.Context, id string) (*OvertimeRequest, error)
	LockByID(ctx context.Context, id string) (*OvertimeRequest, error)
	// ExistsOpen reports a PENDING or APPROVED request for the same employee, date and shift.
	ExistsOpen(ctx context.Context, employeeID string, workDate time.Time, slotID string) (bool, error)
	FindAll(ctx context.Context, employeeID string) ([]OvertimeRequest, error)
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

func (r *repository) Create(ctx context.Context, req *OvertimeRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) Update(ctx context.Context, req *OvertimeRequest) error {
	return r.conn(ctx).Save(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*OvertimeRequest, error) {
	var req OvertimeRequest
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) LockByID(ctx context.Context, id string) (*OvertimeRequest, error) {
	var req OvertimeRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) ExistsOpen(ctx context.Context, employeeID string, workDate time.Time, slotID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&OvertimeRequest{}).
		Scopes(scope.ByEmployee(employeeID), scope.StatusIn(openStatuses...)).
		Where("work_date = ? AND work_shift_id = ?", workDate, slotID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, employeeID string) ([]OvertimeRequest, error) {
	var rows []OvertimeRequest
	q := r.conn(ctx)
	if employeeID != "" {
		q = q.Scopes(scope.ByEmployee(employeeID))
	}
	err := q.Order("work_date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

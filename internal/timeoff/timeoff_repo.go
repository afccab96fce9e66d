package timeoff

import (
	"context"
	"database/sql"
	"time"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=timeoff_repo.go -destination=mock/timeoff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *TimeOffRequest) error
	Update(ctx context.Context, r *TimeOffRequest) error
	FindByID(ctx context.Context, id string) (*TimeOffRequest, error)
	// LockByID reads the request with SELECT ... FOR UPDATE.
	LockByID(ctx context.Context, id string) (*TimeOffRequest, error)
	// FindOpenOverlapping returns PENDING and APPROVED requests intersecting [from, to].
	FindOpenOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]TimeOffRequest, error)
	// FindAll lists every request, or only employeeID's when it is not empty.
	FindAll(ctx context.Context, employeeID string) ([]TimeOffRequest, error)

	LockBalance(ctx context.Context, employeeID string, t Type, year int) (*LeaveBalance, error)
	UpdateBalance(ctx context.Context, b *LeaveBalance) error
	FindBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
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

func (r *repository) Create(ctx context.Context, req *TimeOffRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) Update(ctx context.Context, req *TimeOffRequest) error {
	return r.conn(ctx).Save(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TimeOffRequest, error) {
	var req TimeOffRequest
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) LockByID(ctx context.Context, id string) (*TimeOffRequest, error) {
	var req TimeOffRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindOpenOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]TimeOffRequest, error) {
	var rows []TimeOffRequest
	err := r.conn(ctx).
		Scopes(
			scope.ByEmployee(employeeID),
			scope.StatusIn(nonTerminalStatuses...),
			scope.DatesOverlap(from, to),
		).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, employeeID string) ([]TimeOffRequest, error) {
	var rows []TimeOffRequest
	q := r.conn(ctx)
	if employeeID != "" {
		q = q.Scopes(scope.ByEmployee(employeeID))
	}
	err := q.Order("start_date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) LockBalance(ctx context.Context, employeeID string, t Type, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(scope.ByEmployee(employeeID)).
		Where("time_off_type = ? AND year = ?", t, year).
		First(&b).Error
	return &b, err
}

func (r *repository) UpdateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"used":       b.Used,
			"remaining":  b.Remaining,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FindBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.conn(ctx).
		Scopes(scope.ByEmployee(employeeID)).
		Where("year = ?", year).
		Order("time_off_type ASC").
		Find(&rows).Error
	return rows, err
}

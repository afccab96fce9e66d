package employee

import (
	"context"
	"database/sql"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	SetActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "employee_number", "full_name", "employment_type", "is_active").
		Scopes(scope.ActiveOnly).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type Directory interface {
	WithTx(tx *sql.Tx) Directory
	FindByID(ctx context.Context, id string) (*Employee, error)
	// LockByID reads the employee row FOR UPDATE. Writers that check then
	// insert per-employee state take this lock first so they serialize per
	// employee while other employees proceed.
	LockByID(ctx context.Context, id string) (*Employee, error)
}

type directory struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) WithTx(tx *sql.Tx) Directory {
	return &directory{db: d.db, tx: tx}
}

func (d *directory) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := dbtx.Bind(ctx, d.db, d.tx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (d *directory) LockByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := dbtx.Bind(ctx, d.db, d.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

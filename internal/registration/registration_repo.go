package registration

import (
	"context"
	"database/sql"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/dbtx"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=registration_repo.go -destination=mock/registration_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, reg *Registration) error
	Update(ctx context.Context, reg *Registration) error
	ReplaceDays(ctx context.Context, registrationID string, days []Weekday) error
	SetActive(ctx context.Context, id string, active bool) error
	FindByID(ctx context.Context, id string) (*Registration, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]Registration, error)
	// FindAll lists registrations newest first; an empty employeeID lists everyone.
	FindAll(ctx context.Context, employeeID string) ([]Registration, error)
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

func (r *repository) Create(ctx context.Context, reg *Registration) error {
	return r.conn(ctx).Omit(clause.Associations).Create(reg).Error
}

func (r *repository) Update(ctx context.Context, reg *Registration) error {
	return r.conn(ctx).Omit(clause.Associations).Save(reg).Error
}

func (r *repository) ReplaceDays(ctx context.Context, registrationID string, days []Weekday) error {
	db := r.conn(ctx)
	if err := db.Where("registration_id = ?", registrationID).Delete(&RegistrationDay{}).Error; err != nil {
		return err
	}
	rows := make([]RegistrationDay, len(days))
	for i, d := range days {
		rows[i] = RegistrationDay{RegistrationID: registrationID, DayOfWeek: d}
	}
	return db.Create(&rows).Error
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.conn(ctx).
		Model(&Registration{}).
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

func (r *repository) FindByID(ctx context.Context, id string) (*Registration, error) {
	var reg Registration
	err := r.conn(ctx).Preload("Days").First(&reg, "id = ?", id).Error
	return &reg, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]Registration, error) {
	var regs []Registration
	err := r.conn(ctx).
		Preload("Days").
		Scopes(scope.ByEmployee(employeeID), scope.ActiveOnly).
		Order("effective_from ASC").
		Find(&regs).Error
	return regs, err
}

func (r *repository) FindAll(ctx context.Context, employeeID string) ([]Registration, error) {
	var regs []Registration
	q := r.conn(ctx).Preload("Days")
	if employeeID != "" {
		q = q.Scopes(scope.ByEmployee(employeeID))
	}
	err := q.Order("created_at DESC").Find(&regs).Error
	return regs, err
}

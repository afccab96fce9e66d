package workshift

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryNormal Category = "NORMAL"
	CategoryNight  Category = "NIGHT"
)

func ParseCategory(s string) Category {
	return Category(strings.ToUpper(strings.TrimSpace(s)))
}

func (c Category) Valid() bool {
	return c == CategoryNormal || c == CategoryNight
}

type WorkShift struct {
	ID        string    `gorm:"type:varchar(50);primaryKey"`
	ShiftName string    `gorm:"type:varchar(100);not null"`
	StartTime TimeOfDay `gorm:"type:time;not null"`
	EndTime   TimeOfDay `gorm:"type:time;not null"`
	Category  Category  `gorm:"type:varchar(10);not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WorkShift) TableName() string {
	return "work_shifts"
}

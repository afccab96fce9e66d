package workshifterrors

import (
	"net/http"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/shared/apperror"
)

var (
	ErrInvalidTimeFormat = apperror.New(
		"INVALID_TIME_FORMAT",
		"time must be HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		"INVALID_TIME_RANGE",
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		"INVALID_DURATION",
		"shift working duration is out of range",
		http.StatusBadRequest,
	)
	ErrInvalidWorkingHours = apperror.New(
		"INVALID_WORKING_HOURS",
		"shift must fall within clinic opening hours",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		"INVALID_CATEGORY",
		"shift category does not match its start time",
		http.StatusBadRequest,
	)
	ErrCategoryChangeForbidden = apperror.New(
		"CATEGORY_CHANGE_FORBIDDEN",
		"shift category is encoded in the shift id and cannot be changed",
		http.StatusBadRequest,
	)
	ErrShiftNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"shift_name cannot be empty",
		http.StatusBadRequest,
	)
	ErrWorkShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"work shift not found",
		http.StatusNotFound,
	)
	ErrWorkShiftInUse = apperror.New(
		"WORK_SHIFT_IN_USE",
		"work shift is referenced by active registrations or upcoming schedules",
		http.StatusConflict,
	)
	ErrIDGenerationConflict = apperror.New(
		"ID_GENERATION_CONFLICT",
		"could not allocate a unique work shift id, please retry",
		http.StatusConflict,
	)
)

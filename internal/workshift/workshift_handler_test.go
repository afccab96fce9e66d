package workshift_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift"
	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkShiftService struct {
	CreateFn     func(ctx context.Context, req workshift.CreateWorkShiftRequest) (workshift.WorkShiftResponse, error)
	UpdateFn     func(ctx context.Context, id string, req workshift.UpdateWorkShiftRequest) (workshift.WorkShiftResponse, error)
	DeactivateFn func(ctx context.Context, id string) error
	ListFn       func(ctx context.Context, filter workshift.ListFilter) ([]workshift.WorkShiftResponse, error)
	GetByIDFn    func(ctx context.Context, id string) (workshift.WorkShiftResponse, error)
}

func (f *fakeWorkShiftService) Create(ctx context.Context, req workshift.CreateWorkShiftRequest) (workshift.WorkShiftResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeWorkShiftService) Update(ctx context.Context, id string, req workshift.UpdateWorkShiftRequest) (workshift.WorkShiftResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeWorkShiftService) Deactivate(ctx context.Context, id string) error {
	return f.DeactivateFn(ctx, id)
}
func (f *fakeWorkShiftService) List(ctx context.Context, filter workshift.ListFilter) ([]workshift.WorkShiftResponse, error) {
	return f.ListFn(ctx, filter)
}
func (f *fakeWorkShiftService) GetByID(ctx context.Context, id string) (workshift.WorkShiftResponse, error) {
	return f.GetByIDFn(ctx, id)
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWorkShiftHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeWorkShiftService{
			CreateFn: func(ctx context.Context, req workshift.CreateWorkShiftRequest) (workshift.WorkShiftResponse, error) {
				assert.Equal(t, "08:00", req.StartTime)
				return workshift.WorkShiftResponse{ID: "WKS_MORNING_01", DurationHours: 3}, nil
			},
		}
		r := setupRouter()
		r.POST("/work-shifts", workshift.NewHandler(svc).Create)

		body := `{"shift_name":"Ca sang","start_time":"08:00","end_time":"11:00","category":"NORMAL"}`
		req := httptest.NewRequest(http.MethodPost, "/work-shifts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"WKS_MORNING_01"`)
	})

	t.Run("binding error", func(t *testing.T) {
		r := setupRouter()
		r.POST("/work-shifts", workshift.NewHandler(&fakeWorkShiftService{}).Create)

		body := `{"shift_name":"Ca sang","start_time":"08:00","end_time":"11:00","category":"EVENING"}`
		req := httptest.NewRequest(http.MethodPost, "/work-shifts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})

	t.Run("rule violation carries code and details", func(t *testing.T) {
		svc := &fakeWorkShiftService{
			CreateFn: func(ctx context.Context, req workshift.CreateWorkShiftRequest) (workshift.WorkShiftResponse, error) {
				return workshift.WorkShiftResponse{}, workshifterrors.ErrInvalidWorkingHours.WithDetails(map[string]any{
					"end_time": "22:00",
				})
			},
		}
		r := setupRouter()
		r.POST("/work-shifts", workshift.NewHandler(svc).Create)

		body := `{"shift_name":"Ca toi","start_time":"19:00","end_time":"22:00","category":"NIGHT"}`
		req := httptest.NewRequest(http.MethodPost, "/work-shifts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, "INVALID_WORKING_HOURS", env.Error.Code)
		details, ok := env.Error.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "22:00", details["end_time"])
	})
}

func TestWorkShiftHandler_Update(t *testing.T) {
	svc := &fakeWorkShiftService{
		UpdateFn: func(ctx context.Context, id string, req workshift.UpdateWorkShiftRequest) (workshift.WorkShiftResponse, error) {
			assert.Equal(t, "WKS_MORNING_01", id)
			assert.True(t, req.EndTime.HasValue())
			assert.False(t, req.StartTime.Set)
			assert.True(t, req.ShiftName.Set)
			assert.True(t, req.ShiftName.Null)
			return workshift.WorkShiftResponse{}, workshifterrors.ErrShiftNameRequired
		},
	}
	r := setupRouter()
	r.PATCH("/work-shifts/:id", workshift.NewHandler(svc).Update)

	req := httptest.NewRequest(http.MethodPatch, "/work-shifts/WKS_MORNING_01",
		strings.NewReader(`{"end_time":"12:00","shift_name":null}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkShiftHandler_GetAll(t *testing.T) {
	t.Run("active filter", func(t *testing.T) {
		svc := &fakeWorkShiftService{
			ListFn: func(ctx context.Context, filter workshift.ListFilter) ([]workshift.WorkShiftResponse, error) {
				require.NotNil(t, filter.Active)
				assert.False(t, *filter.Active)
				return []workshift.WorkShiftResponse{}, nil
			},
		}
		r := setupRouter()
		r.GET("/work-shifts", workshift.NewHandler(svc).GetAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work-shifts?is_active=false", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad filter", func(t *testing.T) {
		r := setupRouter()
		r.GET("/work-shifts", workshift.NewHandler(&fakeWorkShiftService{}).GetAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work-shifts?is_active=maybe", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWorkShiftHandler_Deactivate(t *testing.T) {
	svc := &fakeWorkShiftService{
		DeactivateFn: func(ctx context.Context, id string) error {
			return workshifterrors.ErrWorkShiftInUse
		},
	}
	r := setupRouter()
	r.DELETE("/work-shifts/:id", workshift.NewHandler(svc).Deactivate)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/work-shifts/WKS_MORNING_01", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "WORK_SHIFT_IN_USE", decode(t, w).Error.Code)
}

package timeoff_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff"
	timeofferrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/timeoff/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeOffService struct {
	CreateFn      func(ctx context.Context, actorID string, canManageAll bool, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error)
	ApproveFn     func(ctx context.Context, actorID, id string) (timeoff.TimeOffResponse, error)
	RejectFn      func(ctx context.Context, actorID, id, reason string) (timeoff.TimeOffResponse, error)
	CancelFn      func(ctx context.Context, actorID string, canManageAll bool, id, reason string) (timeoff.TimeOffResponse, error)
	GetAllFn      func(ctx context.Context, actorID string, canReadAll bool) ([]timeoff.TimeOffResponse, error)
	GetByIDFn     func(ctx context.Context, actorID string, canReadAll bool, id string) (timeoff.TimeOffResponse, error)
	GetBalancesFn func(ctx context.Context, actorID string, canReadAll bool, employeeID string, year int) ([]timeoff.LeaveBalanceResponse, error)
}

func (f *fakeTimeOffService) Create(ctx context.Context, actorID string, canManageAll bool, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error) {
	return f.CreateFn(ctx, actorID, canManageAll, req)
}
func (f *fakeTimeOffService) Approve(ctx context.Context, actorID, id string) (timeoff.TimeOffResponse, error) {
	return f.ApproveFn(ctx, actorID, id)
}
func (f *fakeTimeOffService) Reject(ctx context.Context, actorID, id, reason string) (timeoff.TimeOffResponse, error) {
	return f.RejectFn(ctx, actorID, id, reason)
}
func (f *fakeTimeOffService) Cancel(ctx context.Context, actorID string, canManageAll bool, id, reason string) (timeoff.TimeOffResponse, error) {
	return f.CancelFn(ctx, actorID, canManageAll, id, reason)
}
func (f *fakeTimeOffService) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]timeoff.TimeOffResponse, error) {
	return f.GetAllFn(ctx, actorID, canReadAll)
}
func (f *fakeTimeOffService) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (timeoff.TimeOffResponse, error) {
	return f.GetByIDFn(ctx, actorID, canReadAll, id)
}
func (f *fakeTimeOffService) GetBalances(ctx context.Context, actorID string, canReadAll bool, employeeID string, year int) ([]timeoff.LeaveBalanceResponse, error) {
	return f.GetBalancesFn(ctx, actorID, canReadAll, employeeID, year)
}

type apiEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func setupRouter(actorID string, canManageAll bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.ContextEmployeeID), actorID)
		c.Set(middleware.CapManageAll, canManageAll)
		c.Next()
	})
	return r
}

func TestTimeOffHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeTimeOffService{
			CreateFn: func(ctx context.Context, actorID string, canManageAll bool, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error) {
				assert.Equal(t, "emp-1", actorID)
				assert.True(t, canManageAll)
				assert.Equal(t, "SLOT_A", req.SlotID)
				return timeoff.TimeOffResponse{ID: "to-1", Status: "PENDING", TotalDays: "0.5"}, nil
			},
		}
		r := setupRouter("emp-1", true)
		r.POST("/time-off-requests", timeoff.NewHandler(svc).Create)

		body := `{"time_off_type":"ANNUAL","start_date":"2025-03-10","end_date":"2025-03-10","slot_id":"SLOT_A"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/time-off-requests", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.OK)
		assert.Contains(t, string(env.Data), `"total_days":"0.5"`)
	})

	t.Run("unknown type is rejected by binding", func(t *testing.T) {
		r := setupRouter("emp-1", false)
		r.POST("/time-off-requests", timeoff.NewHandler(&fakeTimeOffService{}).Create)

		body := `{"time_off_type":"VACATION","start_date":"2025-03-10","end_date":"2025-03-10"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/time-off-requests", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		svc := &fakeTimeOffService{
			CreateFn: func(ctx context.Context, actorID string, canManageAll bool, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error) {
				return timeoff.TimeOffResponse{}, timeofferrors.ErrConflictingRequest
			},
		}
		r := setupRouter("emp-1", false)
		r.POST("/time-off-requests", timeoff.NewHandler(svc).Create)

		body := `{"time_off_type":"SICK","start_date":"2025-03-10","end_date":"2025-03-10"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/time-off-requests", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "CONFLICTING_REQUEST", env.Error.Code)
	})
}

func TestTimeOffHandler_Reject(t *testing.T) {
	called := false
	svc := &fakeTimeOffService{
		RejectFn: func(ctx context.Context, actorID, id, reason string) (timeoff.TimeOffResponse, error) {
			called = true
			assert.Equal(t, "to-1", id)
			assert.Equal(t, "no cover", reason)
			return timeoff.TimeOffResponse{ID: id, Status: "REJECTED"}, nil
		},
	}
	r := setupRouter("mgr-1", false)
	r.POST("/time-off-requests/:id/reject", timeoff.NewHandler(svc).Reject)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/time-off-requests/to-1/reject", strings.NewReader(`{"reason":"no cover"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestTimeOffHandler_GetBalancesInvalidYear(t *testing.T) {
	r := setupRouter("emp-1", false)
	r.GET("/time-off-requests/balances", timeoff.NewHandler(&fakeTimeOffService{}).GetBalances)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/time-off-requests/balances?year=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeOffHandler_GetAllFiltersStatus(t *testing.T) {
	svc := &fakeTimeOffService{
		GetAllFn: func(ctx context.Context, actorID string, canReadAll bool) ([]timeoff.TimeOffResponse, error) {
			return []timeoff.TimeOffResponse{
				{ID: "a", Status: "PENDING"},
				{ID: "b", Status: "APPROVED"},
			}, nil
		},
	}
	r := setupRouter("emp-1", false)
	r.GET("/time-off-requests", timeoff.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/time-off-requests?status=APPROVED", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var items []timeoff.TimeOffResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}
